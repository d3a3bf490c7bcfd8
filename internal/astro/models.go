// Package astro computes sun geometry and photography-relevant light
// windows (golden hour, blue hour) for an instant and location.
package astro

import (
	"errors"
	"time"
)

// Astro errors.
var (
	// ErrInvalidCoordinate is returned for out-of-range latitude or
	// longitude. Coordinates are rejected, never clamped.
	ErrInvalidCoordinate = errors.New("latitude or longitude out of range")
)

// TimeOfDay classifies an instant by the sun's position.
type TimeOfDay string

const (
	TimeOfDayNight             TimeOfDay = "night"
	TimeOfDayDay               TimeOfDay = "day"
	TimeOfDayGoldenHourMorning TimeOfDay = "golden_hour_morning"
	TimeOfDayGoldenHourEvening TimeOfDay = "golden_hour_evening"
	TimeOfDayBlueHourMorning   TimeOfDay = "blue_hour_morning"
	TimeOfDayBlueHourEvening   TimeOfDay = "blue_hour_evening"
)

// Conditions describes the photographic light situation at one instant
// and location. Minute counters are nil when the corresponding event
// does not occur for the day (for example at polar latitudes); nil means
// "not applicable", never "zero minutes away".
type Conditions struct {
	// Time is the instant the conditions were computed for.
	Time time.Time

	// Location coordinates.
	Lat float64
	Lng float64

	// TimeOfDay is the light-window classification.
	TimeOfDay TimeOfDay

	// IsGoldenHour and IsBlueHour are consistent with TimeOfDay and
	// never both true.
	IsGoldenHour bool
	IsBlueHour   bool

	// MinutesToGoldenHour is the number of minutes until the next golden
	// hour window starts, 0 when currently inside one.
	MinutesToGoldenHour *int

	// MinutesToSunrise and MinutesToSunset count toward the next
	// occurrence within the same calendar day.
	MinutesToSunrise *int
	MinutesToSunset  *int

	// SunAltitude is the sun's angle above the horizon in degrees
	// (negative below the horizon).
	SunAltitude float64

	// SunAzimuth is the sun's compass direction in degrees from north
	// (0-360, clockwise).
	SunAzimuth float64
}

// SunTimes holds the sun event boundaries for one calendar day and
// location. Fields are nil when the sun never crosses the relevant
// altitude band that day (polar day/night).
type SunTimes struct {
	// Date identifies the calendar day (UTC) the times belong to.
	Date time.Time

	Sunrise *time.Time
	Sunset  *time.Time

	// GoldenHourMorningEnd is when the sun climbs past the golden hour
	// altitude after sunrise; GoldenHourEveningStart mirrors it before
	// sunset.
	GoldenHourMorningEnd   *time.Time
	GoldenHourEveningStart *time.Time

	// BlueHourMorningStart is when the sun rises past civil twilight
	// depression; BlueHourEveningEnd mirrors it after sunset.
	BlueHourMorningStart *time.Time
	BlueHourEveningEnd   *time.Time
}

// HasGoldenHour reports whether any golden hour window exists for the day.
func (s *SunTimes) HasGoldenHour() bool {
	return s.Sunrise != nil || s.GoldenHourEveningStart != nil
}

// ValidateCoordinates checks that a coordinate pair is within range.
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}
