package evaluate

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/photoscout/photoscout/internal/astro"
	"github.com/photoscout/photoscout/internal/compare"
	"github.com/photoscout/photoscout/internal/scoring"
	"github.com/photoscout/photoscout/internal/weather"
)

// WeatherFetcher supplies raw weather snapshots. *weather.Service
// satisfies this interface.
type WeatherFetcher interface {
	Current(ctx context.Context, lat, lng float64) (*weather.Snapshot, error)
}

// OrchestratorConfig holds configuration for creating an Orchestrator.
type OrchestratorConfig struct {
	Weather WeatherFetcher
	Engine  *scoring.Engine
	Logger  zerolog.Logger

	// LocationTimeout bounds each per-location evaluation, weather
	// fetch included. Defaults to 10s.
	LocationTimeout time.Duration
}

// Orchestrator fans an evaluation batch out across goroutines, one per
// location, and assembles the comparison once all of them report back.
type Orchestrator struct {
	weather WeatherFetcher
	engine  *scoring.Engine
	logger  zerolog.Logger
	timeout time.Duration

	generation atomic.Uint64
}

// NewOrchestrator creates a batch evaluation orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	engine := cfg.Engine
	if engine == nil {
		engine = scoring.NewEngine(scoring.DefaultConfig())
	}
	timeout := cfg.LocationTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Orchestrator{
		weather: cfg.Weather,
		engine:  engine,
		logger:  cfg.Logger,
		timeout: timeout,
	}
}

// Evaluate scores every location in the request concurrently and compares
// the results. A failing location never fails the batch: its slot carries
// the error and the comparison runs over the locations that succeeded.
// All locations are evaluated at the same instant.
func (o *Orchestrator) Evaluate(ctx context.Context, req Request) (*BatchResult, error) {
	if len(req.Locations) == 0 {
		return nil, ErrNoLocations
	}
	if len(req.Locations) > MaxLocations {
		return nil, fmt.Errorf("%w: got %d, limit %d", ErrTooManyLocations, len(req.Locations), MaxLocations)
	}

	instant := req.Instant
	if instant.IsZero() {
		instant = time.Now().UTC()
	}

	// The generation is claimed at issue time, not completion time, so
	// a slow batch that was issued earlier can never outrank a newer
	// one in the store, however the completions interleave.
	generation := o.generation.Add(1)

	o.logger.Debug().
		Uint64("generation", generation).
		Int("locations", len(req.Locations)).
		Time("instant", instant).
		Msg("starting evaluation batch")

	results := make([]LocationResult, len(req.Locations))
	var wg sync.WaitGroup
	for i, loc := range req.Locations {
		wg.Add(1)
		go func(slot int, loc Location) {
			defer wg.Done()
			results[slot] = o.evaluateLocation(ctx, loc, instant)
		}(i, loc)
	}
	wg.Wait()

	candidates := make([]compare.Candidate, len(results))
	failed := 0
	for i, r := range results {
		candidates[i] = compare.Candidate{
			ID:    r.Location.ID,
			Name:  r.Location.Name,
			Score: r.Score,
			Err:   r.Err,
		}
		if r.Err != nil {
			failed++
		}
	}
	comparison := compare.GenerateRecommendation(candidates, compare.Compare(candidates))

	res := &BatchResult{
		Generation:  generation,
		Instant:     instant,
		Locations:   results,
		Comparison:  comparison,
		EvaluatedAt: time.Now().UTC(),
	}

	o.logger.Info().
		Uint64("generation", res.Generation).
		Int("locations", len(results)).
		Int("failed", failed).
		Bool("insufficient_data", comparison.InsufficientData).
		Msg("evaluation batch completed")

	return res, nil
}

func (o *Orchestrator) evaluateLocation(ctx context.Context, loc Location, instant time.Time) LocationResult {
	result := LocationResult{Location: loc}

	locCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	cond, sunTimes, err := astro.ComputeConditionsAndTimes(instant, loc.Lat, loc.Lng)
	if err != nil {
		return o.failLocation(result, err)
	}

	snap, err := o.weather.Current(locCtx, loc.Lat, loc.Lng)
	if err != nil {
		return o.failLocation(result, fmt.Errorf("%w: %w", ErrWeatherFetch, err))
	}
	wx := weather.AdaptForPhotography(*snap)

	score := o.engine.Calculate(cond, wx)

	result.Weather = &wx
	result.Conditions = cond
	result.SunTimes = sunTimes
	result.Score = &score
	result.NextBest = scoring.NextBestPhotoTime(cond)
	return result
}

func (o *Orchestrator) failLocation(result LocationResult, err error) LocationResult {
	o.logger.Warn().
		Err(err).
		Str("location_id", result.Location.ID).
		Str("location_name", result.Location.Name).
		Msg("location evaluation failed")

	result.Err = err
	result.Error = err.Error()
	return result
}
