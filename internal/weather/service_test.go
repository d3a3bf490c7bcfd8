package weather_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoscout/photoscout/internal/weather"
)

// mockProvider is a mock forecast provider for testing.
type mockProvider struct {
	mu        sync.Mutex
	callCount int
	err       error
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Current(_ context.Context, lat, lng float64) (*weather.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++

	if m.err != nil {
		return nil, m.err
	}

	cloud := 40.0
	return &weather.Snapshot{
		CloudCoverPercent: &cloud,
		ObservedAt:        time.Now(),
	}, nil
}

func (m *mockProvider) DailyForecast(_ context.Context, lat, lng float64) (*weather.Forecast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++

	if m.err != nil {
		return nil, m.err
	}

	return &weather.Forecast{
		Lat:       lat,
		Lng:       lng,
		Days:      []weather.DaySnapshot{{Date: time.Now()}},
		FetchedAt: time.Now(),
	}, nil
}

func (m *mockProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func (m *mockProvider) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func newTestService(p weather.Provider) *weather.Service {
	return weather.NewService(weather.ServiceConfig{
		Provider: p,
		Logger:   zerolog.Nop(),
	})
}

func TestServiceCachesSnapshots(t *testing.T) {
	provider := &mockProvider{}
	svc := newTestService(provider)
	ctx := context.Background()

	first, err := svc.Current(ctx, 51.5, -0.12)
	require.NoError(t, err)

	second, err := svc.Current(ctx, 51.5, -0.12)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, provider.calls())
}

func TestServiceGridCellSharing(t *testing.T) {
	provider := &mockProvider{}
	svc := newTestService(provider)
	ctx := context.Background()

	_, err := svc.Current(ctx, 51.501, -0.121)
	require.NoError(t, err)
	_, err = svc.Current(ctx, 51.502, -0.122) // same 0.1 degree cell
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls())
}

func TestServiceRejectsInvalidCoordinates(t *testing.T) {
	svc := newTestService(&mockProvider{})

	_, err := svc.Current(context.Background(), 91, 0)
	assert.ErrorIs(t, err, weather.ErrInvalidCoordinates)

	_, err = svc.DailyForecast(context.Background(), 0, -200)
	assert.ErrorIs(t, err, weather.ErrInvalidCoordinates)
}

func TestServiceServesStaleOnProviderError(t *testing.T) {
	provider := &mockProvider{}
	svc := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: time.Millisecond,
	})
	ctx := context.Background()

	snap, err := svc.Current(ctx, 51.5, -0.12)
	require.NoError(t, err)

	// Let the entry expire, then break the provider: the stale snapshot
	// is served instead of the error.
	time.Sleep(5 * time.Millisecond)
	provider.setErr(errors.New("upstream down"))

	got, err := svc.Current(ctx, 51.5, -0.12)
	require.NoError(t, err)
	assert.Same(t, snap, got)
}

func TestServiceSurfacesErrorWithoutCache(t *testing.T) {
	provider := &mockProvider{}
	provider.setErr(errors.New("upstream down"))
	svc := newTestService(provider)

	_, err := svc.Current(context.Background(), 51.5, -0.12)
	assert.ErrorIs(t, err, weather.ErrProviderUnavailable)
}

func TestServiceCachesForecasts(t *testing.T) {
	provider := &mockProvider{}
	svc := newTestService(provider)
	ctx := context.Background()

	first, err := svc.DailyForecast(ctx, 37.77, -122.42)
	require.NoError(t, err)
	second, err := svc.DailyForecast(ctx, 37.77, -122.42)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, provider.calls())
}
