package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoscout/photoscout/internal/evaluate"
	"github.com/photoscout/photoscout/internal/location"
	"github.com/photoscout/photoscout/internal/scoring"
)

type stubLister struct {
	saved []location.SavedLocation
	err   error
}

func (s *stubLister) List(_ context.Context) ([]location.SavedLocation, error) {
	return s.saved, s.err
}

// stubEvaluator records the size of every batch it receives and marks
// locations whose ID appears in failIDs as failed.
type stubEvaluator struct {
	mu         sync.Mutex
	batchSizes []int
	failIDs    map[string]bool
	err        error

	generation uint64
}

func (s *stubEvaluator) Evaluate(_ context.Context, req evaluate.Request) (*evaluate.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batchSizes = append(s.batchSizes, len(req.Locations))
	if s.err != nil {
		return nil, s.err
	}

	s.generation++
	res := &evaluate.BatchResult{Generation: s.generation}
	for _, loc := range req.Locations {
		lr := evaluate.LocationResult{Location: loc}
		if s.failIDs[loc.ID] {
			lr.Err = errors.New("provider unavailable")
			lr.Error = "provider unavailable"
		} else {
			lr.Score = &scoring.Score{Overall: 80}
		}
		res.Locations = append(res.Locations, lr)
	}
	return res, nil
}

func savedLocations(n int) []location.SavedLocation {
	saved := make([]location.SavedLocation, 0, n)
	for i := 0; i < n; i++ {
		saved = append(saved, location.SavedLocation{
			ID:   fmt.Sprintf("loc_%d", i+1),
			Name: fmt.Sprintf("Location %d", i+1),
			Lat:  50 + float64(i)*0.1,
			Lng:  -1 - float64(i)*0.1,
		})
	}
	return saved
}

func newTestJob(lister LocationLister, eval Evaluator, store *evaluate.ResultStore) *RefreshJob {
	return NewRefreshJob(RefreshJobConfig{
		Logger:    zerolog.Nop(),
		Locations: lister,
		Evaluator: eval,
		Store:     store,
	})
}

func TestRefreshJob_ChunksLocationsIntoBatches(t *testing.T) {
	eval := &stubEvaluator{}
	job := newTestJob(&stubLister{saved: savedLocations(10)}, eval, nil)

	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, result.TotalLocations)
	assert.Equal(t, 10, result.Successful)
	assert.Equal(t, 0, result.Failed)

	eval.mu.Lock()
	defer eval.mu.Unlock()
	require.Len(t, eval.batchSizes, 2)
	assert.ElementsMatch(t, []int{8, 2}, eval.batchSizes)
}

func TestRefreshJob_CountsFailedLocations(t *testing.T) {
	eval := &stubEvaluator{failIDs: map[string]bool{"loc_2": true}}
	job := newTestJob(&stubLister{saved: savedLocations(3)}, eval, nil)

	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "loc_2", result.Errors[0].LocationID)
	assert.Equal(t, "provider unavailable", result.Errors[0].Error)
}

func TestRefreshJob_EvaluatorErrorFailsWholeBatch(t *testing.T) {
	eval := &stubEvaluator{err: errors.New("boom")}
	job := newTestJob(&stubLister{saved: savedLocations(3)}, eval, nil)

	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Successful)
	assert.Equal(t, 3, result.Failed)
	assert.Len(t, result.Errors, 3)
}

func TestRefreshJob_ListErrorPropagates(t *testing.T) {
	listErr := errors.New("database down")
	job := newTestJob(&stubLister{err: listErr}, &stubEvaluator{}, nil)

	_, err := job.Run(context.Background())
	assert.ErrorIs(t, err, listErr)
}

func TestRefreshJob_StoresLatestBatch(t *testing.T) {
	store := evaluate.NewResultStore()
	job := newTestJob(&stubLister{saved: savedLocations(2)}, &stubEvaluator{}, store)

	_, err := job.Run(context.Background())
	require.NoError(t, err)

	latest := store.Latest()
	require.NotNil(t, latest)
	assert.Len(t, latest.Locations, 2)
}

func TestRefreshJob_UpdatesMetricsAcrossRuns(t *testing.T) {
	eval := &stubEvaluator{failIDs: map[string]bool{"loc_1": true}}
	job := newTestJob(&stubLister{saved: savedLocations(2)}, eval, nil)

	_, err := job.Run(context.Background())
	require.NoError(t, err)
	_, err = job.Run(context.Background())
	require.NoError(t, err)

	metrics := job.GetMetrics()
	assert.Equal(t, int64(2), metrics.TotalRuns)
	assert.Equal(t, int64(2), metrics.LocationsRefreshed)
	assert.Equal(t, int64(2), metrics.LocationsFailed)
	assert.False(t, metrics.LastRunAt.IsZero())
}

func TestChunkLocations_EmptyInput(t *testing.T) {
	assert.Empty(t, chunkLocations(nil, evaluate.MaxLocations))
}
