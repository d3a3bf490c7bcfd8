package evaluate

import "sync"

// ResultStore keeps the most recent batch result. Batches can complete
// out of order, so a result only replaces the stored one when its
// generation is strictly newer.
type ResultStore struct {
	mu     sync.RWMutex
	latest *BatchResult
}

// NewResultStore creates an empty result store.
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Apply stores the result if it is newer than the current one. It
// reports whether the result was accepted.
func (s *ResultStore) Apply(res *BatchResult) bool {
	if res == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest != nil && res.Generation <= s.latest.Generation {
		return false
	}
	s.latest = res
	return true
}

// Latest returns the most recent accepted result, or nil when no batch
// has completed yet.
func (s *ResultStore) Latest() *BatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}
