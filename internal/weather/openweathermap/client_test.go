package openweathermap_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoscout/photoscout/internal/weather/openweathermap"
)

func newTestClient(baseURL, oneCallURL string) *openweathermap.Client {
	return openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		OneCallURL: oneCallURL,
		Logger:     zerolog.Nop(),
	})
}

func TestCurrentMapsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("appid"), "test-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"main": {"temp": 12.3, "pressure": 1012, "humidity": 70},
			"visibility": 8000,
			"wind": {"speed": 4.2, "deg": 210},
			"clouds": {"all": 65},
			"dt": 1718000000
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)

	snap, err := client.Current(context.Background(), 51.5, -0.12)
	require.NoError(t, err)

	require.NotNil(t, snap.TemperatureC)
	assert.Equal(t, 12.3, *snap.TemperatureC)
	require.NotNil(t, snap.WindSpeedMS)
	assert.Equal(t, 4.2, *snap.WindSpeedMS)
	require.NotNil(t, snap.CloudCoverPercent)
	assert.Equal(t, 65.0, *snap.CloudCoverPercent)
	require.NotNil(t, snap.VisibilityMeters)
	assert.Equal(t, 8000.0, *snap.VisibilityMeters)
	assert.Equal(t, int64(1718000000), snap.ObservedAt.Unix())
}

func TestCurrentKeepsAbsentFieldsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"dt": 1718000000, "main": {"temp": 20}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)

	snap, err := client.Current(context.Background(), 51.5, -0.12)
	require.NoError(t, err)

	require.NotNil(t, snap.TemperatureC)
	assert.Nil(t, snap.WindSpeedMS)
	assert.Nil(t, snap.CloudCoverPercent)
	assert.Nil(t, snap.VisibilityMeters)
	assert.Nil(t, snap.PrecipitationProbability)
}

func TestDailyForecastMapsDays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"lat": 51.5, "lon": -0.12,
			"daily": [
				{"dt": 1718000000, "temp": {"day": 17.0}, "wind_speed": 3.0, "clouds": 40, "pop": 0.25},
				{"dt": 1718086400, "temp": {"day": 19.5}, "wind_speed": 5.5, "clouds": 90, "pop": 0.8}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)

	forecast, err := client.DailyForecast(context.Background(), 51.5, -0.12)
	require.NoError(t, err)
	require.Len(t, forecast.Days, 2)

	first := forecast.Days[0].Snapshot
	require.NotNil(t, first.PrecipitationProbability)
	assert.Equal(t, 25.0, *first.PrecipitationProbability) // pop fraction normalized

	second := forecast.Days[1].Snapshot
	require.NotNil(t, second.CloudCoverPercent)
	assert.Equal(t, 90.0, *second.CloudCoverPercent)
}

func TestCurrentNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)

	_, err := client.Current(context.Background(), 51.5, -0.12)
	assert.Error(t, err)
}
