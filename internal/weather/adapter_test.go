package weather_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/photoscout/photoscout/internal/weather"
)

func f(v float64) *float64 { return &v }

func TestAdaptForPhotographyMapsAllFields(t *testing.T) {
	snap := weather.Snapshot{
		TemperatureC:             f(18.5),
		WindSpeedMS:              f(10),
		CloudCoverPercent:        f(45),
		VisibilityMeters:         f(20000),
		PrecipitationProbability: f(35),
	}

	cond := weather.AdaptForPhotography(snap)

	assert.Equal(t, 18.5, cond.TemperatureC)
	assert.InDelta(t, 22.37, cond.WindSpeedMph, 0.01) // 10 m/s in mph
	assert.Equal(t, 45.0, cond.CloudCoverPercent)
	assert.Equal(t, 20000.0, cond.VisibilityMeters)
	assert.Equal(t, 35.0, cond.PrecipitationProbability)
}

func TestAdaptForPhotographyZeroIsNotMissing(t *testing.T) {
	// An explicit zero is a clear-sky / calm-air reading and must survive
	// adaptation unchanged.
	snap := weather.Snapshot{
		CloudCoverPercent:        f(0),
		WindSpeedMS:              f(0),
		PrecipitationProbability: f(0),
	}

	cond := weather.AdaptForPhotography(snap)

	assert.Equal(t, 0.0, cond.CloudCoverPercent)
	assert.Equal(t, 0.0, cond.WindSpeedMph)
	assert.Equal(t, 0.0, cond.PrecipitationProbability)
}

func TestAdaptForPhotographyAppliesNeutralDefaults(t *testing.T) {
	cond := weather.AdaptForPhotography(weather.Snapshot{})

	assert.Equal(t, weather.DefaultCloudCoverPercent, cond.CloudCoverPercent)
	assert.Equal(t, weather.DefaultVisibilityMeters, cond.VisibilityMeters)
	assert.Equal(t, weather.DefaultWindSpeedMph, cond.WindSpeedMph)
	assert.Equal(t, weather.DefaultPrecipitationProbability, cond.PrecipitationProbability)
	assert.Equal(t, weather.DefaultTemperatureC, cond.TemperatureC)
}

func TestAdaptForPhotographyClampsOutOfRangeValues(t *testing.T) {
	snap := weather.Snapshot{
		CloudCoverPercent:        f(140),
		PrecipitationProbability: f(-5),
		VisibilityMeters:         f(-100),
		WindSpeedMS:              f(-3),
	}

	cond := weather.AdaptForPhotography(snap)

	assert.Equal(t, 100.0, cond.CloudCoverPercent)
	assert.Equal(t, 0.0, cond.PrecipitationProbability)
	assert.Equal(t, 0.0, cond.VisibilityMeters)
	assert.Equal(t, 0.0, cond.WindSpeedMph)
}
