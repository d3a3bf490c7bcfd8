// Package evaluate orchestrates concurrent condition evaluation across a
// batch of shooting locations and produces a comparison of the results.
package evaluate

import (
	"errors"
	"time"

	"github.com/photoscout/photoscout/internal/astro"
	"github.com/photoscout/photoscout/internal/compare"
	"github.com/photoscout/photoscout/internal/scoring"
	"github.com/photoscout/photoscout/internal/weather"
)

// MaxLocations bounds a single evaluation batch. One goroutine is
// dispatched per location, so the bound also caps concurrency.
const MaxLocations = 8

var (
	// ErrNoLocations is returned when a request contains no locations.
	ErrNoLocations = errors.New("evaluate: at least one location is required")

	// ErrTooManyLocations is returned when a request exceeds MaxLocations.
	ErrTooManyLocations = errors.New("evaluate: too many locations in batch")

	// ErrWeatherFetch wraps provider failures so callers can distinguish
	// weather outages from astronomical or validation errors.
	ErrWeatherFetch = errors.New("evaluate: weather fetch failed")
)

// Location identifies a candidate shooting spot.
type Location struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Request describes one evaluation batch. A zero Instant means "now";
// every location in the batch is evaluated at the same instant.
type Request struct {
	Locations []Location
	Instant   time.Time
}

// LocationResult holds the full evaluation for one location. When Err is
// non-nil the Weather and Score fields are nil and Error carries the
// message for API consumers.
type LocationResult struct {
	Location   Location               `json:"location"`
	Weather    *weather.Conditions    `json:"weather,omitempty"`
	Conditions *astro.Conditions      `json:"conditions,omitempty"`
	SunTimes   *astro.SunTimes        `json:"sunTimes,omitempty"`
	Score      *scoring.Score         `json:"score,omitempty"`
	NextBest   *scoring.NextPhotoTime `json:"nextBestPhotoTime,omitempty"`
	Error      string                 `json:"error,omitempty"`

	Err error `json:"-"`
}

// BatchResult is the outcome of one evaluation batch. Generation is a
// monotonically increasing counter used to discard stale results when
// batches complete out of order.
type BatchResult struct {
	Generation  uint64           `json:"generation"`
	Instant     time.Time        `json:"instant"`
	Locations   []LocationResult `json:"locations"`
	Comparison  compare.Result   `json:"comparison"`
	EvaluatedAt time.Time        `json:"evaluatedAt"`
}
