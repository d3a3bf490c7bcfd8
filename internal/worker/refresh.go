package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/photoscout/photoscout/internal/evaluate"
	"github.com/photoscout/photoscout/internal/location"
)

// LocationLister supplies the saved locations to refresh.
// *location.Service satisfies this interface.
type LocationLister interface {
	List(ctx context.Context) ([]location.SavedLocation, error)
}

// Evaluator runs batch condition evaluations. *evaluate.Orchestrator
// satisfies this interface.
type Evaluator interface {
	Evaluate(ctx context.Context, req evaluate.Request) (*evaluate.BatchResult, error)
}

// RefreshJob re-evaluates all saved locations, warming the forecast
// cache so interactive requests hit fresh data.
type RefreshJob struct {
	config    RefreshConfig
	logger    zerolog.Logger
	locations LocationLister
	evaluator Evaluator

	// store receives the latest batch per run. Optional.
	store *evaluate.ResultStore

	metrics *RefreshMetrics
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config    RefreshConfig
	Logger    zerolog.Logger
	Locations LocationLister
	Evaluator Evaluator
	Store     *evaluate.ResultStore
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	return &RefreshJob{
		config:    cfg.Config.withDefaults(),
		logger:    cfg.Logger,
		locations: cfg.Locations,
		evaluator: cfg.Evaluator,
		store:     cfg.Store,
		metrics:   &RefreshMetrics{},
	}
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	TotalRuns          int64
	LocationsRefreshed int64
	LocationsFailed    int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
}

// RefreshResult contains the result of one refresh run.
type RefreshResult struct {
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalLocations int
	Successful     int
	Failed         int
	Errors         []RefreshError
}

// RefreshError describes one failed location evaluation.
type RefreshError struct {
	LocationID   string
	LocationName string
	Error        string
}

// Run evaluates every saved location, chunked into batches that are
// processed by a bounded pool of workers.
func (j *RefreshJob) Run(ctx context.Context) (*RefreshResult, error) {
	startTime := time.Now()

	saved, err := j.locations.List(ctx)
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{
		StartTime:      startTime,
		TotalLocations: len(saved),
	}

	batches := chunkLocations(saved, evaluate.MaxLocations)

	j.logger.Info().
		Int("locations", len(saved)).
		Int("batches", len(batches)).
		Int("concurrency", j.config.Concurrency).
		Msg("starting location refresh job")

	batchChan := make(chan []evaluate.Location, len(batches))
	resultChan := make(chan batchOutcome, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.refreshWorker(ctx, batchChan, resultChan)
		}()
	}

	for _, b := range batches {
		batchChan <- b
	}
	close(batchChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for outcome := range resultChan {
		result.Successful += outcome.successful
		result.Failed += outcome.failed
		result.Errors = append(result.Errors, outcome.errors...)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("location refresh job completed")

	return result, nil
}

type batchOutcome struct {
	successful int
	failed     int
	errors     []RefreshError
}

func (j *RefreshJob) refreshWorker(ctx context.Context, batches <-chan []evaluate.Location, results chan<- batchOutcome) {
	for batch := range batches {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.refreshBatch(ctx, batch)
		}
	}
}

func (j *RefreshJob) refreshBatch(ctx context.Context, batch []evaluate.Location) batchOutcome {
	batchCtx, cancel := context.WithTimeout(ctx, j.config.BatchTimeout)
	defer cancel()

	res, err := j.evaluator.Evaluate(batchCtx, evaluate.Request{Locations: batch})
	if err != nil {
		outcome := batchOutcome{failed: len(batch)}
		for _, loc := range batch {
			outcome.errors = append(outcome.errors, RefreshError{
				LocationID:   loc.ID,
				LocationName: loc.Name,
				Error:        err.Error(),
			})
		}
		return outcome
	}

	var outcome batchOutcome
	for _, lr := range res.Locations {
		if lr.Err != nil {
			outcome.failed++
			outcome.errors = append(outcome.errors, RefreshError{
				LocationID:   lr.Location.ID,
				LocationName: lr.Location.Name,
				Error:        lr.Error,
			})
			continue
		}
		outcome.successful++
	}

	if j.store != nil {
		j.store.Apply(res)
	}

	return outcome
}

// chunkLocations splits saved locations into evaluation batches.
func chunkLocations(saved []location.SavedLocation, size int) [][]evaluate.Location {
	var batches [][]evaluate.Location
	for start := 0; start < len(saved); start += size {
		end := start + size
		if end > len(saved) {
			end = len(saved)
		}
		batch := make([]evaluate.Location, 0, end-start)
		for _, loc := range saved[start:end] {
			batch = append(batch, evaluate.Location{
				ID:   loc.ID,
				Name: loc.Name,
				Lat:  loc.Lat,
				Lng:  loc.Lng,
			})
		}
		batches = append(batches, batch)
	}
	return batches
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.LocationsRefreshed += int64(result.Successful)
	j.metrics.LocationsFailed += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRuns:          j.metrics.TotalRuns,
		LocationsRefreshed: j.metrics.LocationsRefreshed,
		LocationsFailed:    j.metrics.LocationsFailed,
		LastRunAt:          j.metrics.LastRunAt,
		LastRunDuration:    j.metrics.LastRunDuration,
	}
}
