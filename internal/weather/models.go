// Package weather provides forecast data access and the adaptation seam
// between upstream forecast providers and the photography scorer.
package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Snapshot is the generic shape a forecast provider returns for one
// instant and location. Fields are pointers so that "absent upstream"
// is distinguishable from a legitimate zero (a 0% cloud cover is a
// clear-sky signal, not missing data).
type Snapshot struct {
	// TemperatureC is the air temperature in Celsius.
	TemperatureC *float64

	// WindSpeedMS is the wind speed in meters per second.
	WindSpeedMS *float64

	// CloudCoverPercent is total cloud cover, 0-100.
	CloudCoverPercent *float64

	// VisibilityMeters is horizontal visibility in meters.
	VisibilityMeters *float64

	// PrecipitationProbability is the chance of precipitation, 0-100.
	PrecipitationProbability *float64

	// ObservedAt is the instant the snapshot describes.
	ObservedAt time.Time
}

// Conditions is the minimal weather shape the scoring engine consumes.
// All fields are populated; absent upstream data has already been
// replaced by the adapter's neutral defaults.
type Conditions struct {
	// CloudCoverPercent is total cloud cover, 0-100.
	CloudCoverPercent float64

	// VisibilityMeters is horizontal visibility in meters.
	VisibilityMeters float64

	// WindSpeedMph is the wind speed in miles per hour.
	WindSpeedMph float64

	// PrecipitationProbability is the chance of precipitation, 0-100.
	PrecipitationProbability float64

	// TemperatureC is the air temperature in Celsius.
	TemperatureC float64
}

// Forecast holds per-day snapshots for a location, used to score future
// days with the same engine that scores the current instant.
type Forecast struct {
	Lat float64
	Lng float64

	// Days are consecutive daily snapshots, earliest first.
	Days []DaySnapshot

	// FetchedAt is when the forecast was retrieved.
	FetchedAt time.Time
}

// DaySnapshot is the representative forecast for one calendar day.
type DaySnapshot struct {
	Date     time.Time
	Snapshot Snapshot
}

// ValidateCoordinates checks if coordinates are valid.
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
