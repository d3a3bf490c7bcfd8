package evaluate_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoscout/photoscout/internal/evaluate"
	"github.com/photoscout/photoscout/internal/weather"
)

func fptr(v float64) *float64 { return &v }

// stubFetcher returns a fixed pleasant snapshot, optionally failing for
// one latitude to simulate a provider outage at a single location.
type stubFetcher struct {
	mu      sync.Mutex
	calls   int
	failLat *float64
}

func (f *stubFetcher) Current(_ context.Context, lat, _ float64) (*weather.Snapshot, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.failLat != nil && lat == *f.failLat {
		return nil, errors.New("provider down")
	}
	return &weather.Snapshot{
		TemperatureC:             fptr(15),
		WindSpeedMS:              fptr(2),
		CloudCoverPercent:        fptr(45),
		VisibilityMeters:         fptr(40000),
		PrecipitationProbability: fptr(5),
		ObservedAt:               time.Now(),
	}, nil
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// barrierFetcher blocks every Current call until all expected callers
// have arrived. A sequential orchestrator would deadlock against it
// until the per-location timeout fires.
type barrierFetcher struct {
	mu      sync.Mutex
	want    int
	arrived int
	release chan struct{}
}

func newBarrierFetcher(want int) *barrierFetcher {
	return &barrierFetcher{want: want, release: make(chan struct{})}
}

func (f *barrierFetcher) Current(ctx context.Context, _, _ float64) (*weather.Snapshot, error) {
	f.mu.Lock()
	f.arrived++
	if f.arrived == f.want {
		close(f.release)
	}
	f.mu.Unlock()

	select {
	case <-f.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &weather.Snapshot{
		CloudCoverPercent: fptr(10),
		ObservedAt:        time.Now(),
	}, nil
}

// holdFetcher blocks fetches at one latitude until released, keeping a
// batch in flight while later batches complete.
type holdFetcher struct {
	holdLat float64
	arrived chan struct{}
	release chan struct{}
	once    sync.Once
}

func newHoldFetcher(lat float64) *holdFetcher {
	return &holdFetcher{
		holdLat: lat,
		arrived: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (f *holdFetcher) Current(ctx context.Context, lat, _ float64) (*weather.Snapshot, error) {
	if lat == f.holdLat {
		f.once.Do(func() { close(f.arrived) })
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &weather.Snapshot{
		CloudCoverPercent: fptr(10),
		ObservedAt:        time.Now(),
	}, nil
}

func testLocations(n int) []evaluate.Location {
	locs := make([]evaluate.Location, n)
	for i := range locs {
		locs[i] = evaluate.Location{
			ID:   string(rune('a' + i)),
			Name: "Spot " + string(rune('A'+i)),
			Lat:  51.5 + float64(i)*0.1,
			Lng:  -0.12,
		}
	}
	return locs
}

func newOrchestrator(t *testing.T, fetcher evaluate.WeatherFetcher) *evaluate.Orchestrator {
	t.Helper()
	return evaluate.NewOrchestrator(evaluate.OrchestratorConfig{
		Weather: fetcher,
		Logger:  zerolog.Nop(),
	})
}

// Noon UTC in midsummer, daylight at all test latitudes.
var testInstant = time.Date(2026, 6, 20, 12, 0, 0, 0, time.UTC)

func TestEvaluateRejectsEmptyBatch(t *testing.T) {
	orc := newOrchestrator(t, &stubFetcher{})

	_, err := orc.Evaluate(context.Background(), evaluate.Request{})

	assert.ErrorIs(t, err, evaluate.ErrNoLocations)
}

func TestEvaluateRejectsOversizedBatch(t *testing.T) {
	orc := newOrchestrator(t, &stubFetcher{})

	_, err := orc.Evaluate(context.Background(), evaluate.Request{
		Locations: testLocations(evaluate.MaxLocations + 1),
		Instant:   testInstant,
	})

	assert.ErrorIs(t, err, evaluate.ErrTooManyLocations)
}

func TestEvaluateRunsLocationsConcurrently(t *testing.T) {
	fetcher := newBarrierFetcher(4)
	orc := evaluate.NewOrchestrator(evaluate.OrchestratorConfig{
		Weather:         fetcher,
		Logger:          zerolog.Nop(),
		LocationTimeout: 5 * time.Second,
	})

	res, err := orc.Evaluate(context.Background(), evaluate.Request{
		Locations: testLocations(4),
		Instant:   testInstant,
	})

	require.NoError(t, err)
	for _, lr := range res.Locations {
		assert.NoError(t, lr.Err, "barrier released, no location should have timed out")
	}
}

func TestEvaluateScoresEveryLocation(t *testing.T) {
	fetcher := &stubFetcher{}
	orc := newOrchestrator(t, fetcher)

	res, err := orc.Evaluate(context.Background(), evaluate.Request{
		Locations: testLocations(3),
		Instant:   testInstant,
	})

	require.NoError(t, err)
	require.Len(t, res.Locations, 3)
	assert.Equal(t, 3, fetcher.callCount())
	for _, lr := range res.Locations {
		require.NoError(t, lr.Err)
		require.NotNil(t, lr.Score)
		assert.NotNil(t, lr.Weather)
		assert.NotNil(t, lr.Conditions)
		assert.NotNil(t, lr.SunTimes)
		assert.GreaterOrEqual(t, lr.Score.Overall, 0.0)
		assert.LessOrEqual(t, lr.Score.Overall, 100.0)
	}
	assert.False(t, res.Comparison.InsufficientData)
	require.NotNil(t, res.Comparison.Winner)
}

func TestEvaluateIsolatesFailingLocation(t *testing.T) {
	locs := testLocations(3)
	fetcher := &stubFetcher{failLat: &locs[1].Lat}
	orc := newOrchestrator(t, fetcher)

	res, err := orc.Evaluate(context.Background(), evaluate.Request{
		Locations: locs,
		Instant:   testInstant,
	})

	require.NoError(t, err, "a failing location must not fail the batch")
	require.Len(t, res.Locations, 3)

	failed := res.Locations[1]
	assert.ErrorIs(t, failed.Err, evaluate.ErrWeatherFetch)
	assert.NotEmpty(t, failed.Error)
	assert.Nil(t, failed.Score)

	for _, i := range []int{0, 2} {
		assert.NoError(t, res.Locations[i].Err)
		assert.NotNil(t, res.Locations[i].Score)
	}

	require.NotNil(t, res.Comparison.Winner)
	assert.NotEqual(t, failed.Location.ID, res.Comparison.Winner.ID)
}

func TestEvaluateSharesInstantAcrossBatch(t *testing.T) {
	orc := newOrchestrator(t, &stubFetcher{})

	res, err := orc.Evaluate(context.Background(), evaluate.Request{
		Locations: testLocations(3),
		Instant:   testInstant,
	})

	require.NoError(t, err)
	assert.True(t, res.Instant.Equal(testInstant))
	for _, lr := range res.Locations {
		require.NotNil(t, lr.Conditions)
		assert.True(t, lr.Conditions.Time.Equal(testInstant))
	}
}

func TestEvaluateDefaultsInstantToNow(t *testing.T) {
	orc := newOrchestrator(t, &stubFetcher{})

	before := time.Now().UTC()
	res, err := orc.Evaluate(context.Background(), evaluate.Request{
		Locations: testLocations(1),
	})
	after := time.Now().UTC()

	require.NoError(t, err)
	assert.False(t, res.Instant.Before(before))
	assert.False(t, res.Instant.After(after))
}

func TestEvaluateGenerationIncreases(t *testing.T) {
	orc := newOrchestrator(t, &stubFetcher{})
	req := evaluate.Request{Locations: testLocations(2), Instant: testInstant}

	first, err := orc.Evaluate(context.Background(), req)
	require.NoError(t, err)
	second, err := orc.Evaluate(context.Background(), req)
	require.NoError(t, err)

	assert.Greater(t, second.Generation, first.Generation)
}

// A batch issued first but finishing last must carry the older
// generation, so the store discards it in favor of the batch that was
// issued after it.
func TestEvaluateSlowEarlierBatchDoesNotOverwriteNewer(t *testing.T) {
	const holdLat = 80.0
	fetcher := newHoldFetcher(holdLat)
	orc := evaluate.NewOrchestrator(evaluate.OrchestratorConfig{
		Weather:         fetcher,
		Logger:          zerolog.Nop(),
		LocationTimeout: 5 * time.Second,
	})
	store := evaluate.NewResultStore()

	oldInstant := testInstant
	newInstant := testInstant.AddDate(0, 0, 1)

	type outcome struct {
		res *evaluate.BatchResult
		err error
	}
	slowDone := make(chan outcome, 1)
	go func() {
		res, err := orc.Evaluate(context.Background(), evaluate.Request{
			Locations: []evaluate.Location{{ID: "slow", Name: "Slow Spot", Lat: holdLat, Lng: 0}},
			Instant:   oldInstant,
		})
		slowDone <- outcome{res: res, err: err}
	}()

	// The older batch is in flight once its fetch has arrived.
	<-fetcher.arrived

	fresh, err := orc.Evaluate(context.Background(), evaluate.Request{
		Locations: testLocations(1),
		Instant:   newInstant,
	})
	require.NoError(t, err)
	require.True(t, store.Apply(fresh))

	close(fetcher.release)
	slow := <-slowDone
	require.NoError(t, slow.err)

	assert.Less(t, slow.res.Generation, fresh.Generation,
		"generation must reflect issue order, not completion order")
	assert.False(t, store.Apply(slow.res), "the slower, older batch must be discarded")
	require.NotNil(t, store.Latest())
	assert.True(t, store.Latest().Instant.Equal(newInstant))
}

func TestResultStoreRejectsStaleGenerations(t *testing.T) {
	store := evaluate.NewResultStore()

	assert.Nil(t, store.Latest())
	assert.False(t, store.Apply(nil))

	assert.True(t, store.Apply(&evaluate.BatchResult{Generation: 1}))
	assert.True(t, store.Apply(&evaluate.BatchResult{Generation: 3}))

	// A slower batch that started earlier finishes last.
	assert.False(t, store.Apply(&evaluate.BatchResult{Generation: 2}))
	assert.False(t, store.Apply(&evaluate.BatchResult{Generation: 3}))

	require.NotNil(t, store.Latest())
	assert.Equal(t, uint64(3), store.Latest().Generation)
}
