package location

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Repository errors.
var (
	ErrLocationNotFound = errors.New("location not found")
)

// Repository defines the interface for saved location persistence.
type Repository interface {
	// Get retrieves a saved location by ID.
	Get(ctx context.Context, id string) (*SavedLocation, error)

	// List returns all saved locations ordered by creation time.
	List(ctx context.Context) ([]SavedLocation, error)

	// Create persists a new saved location.
	Create(ctx context.Context, loc *SavedLocation) error

	// Update updates an existing saved location.
	Update(ctx context.Context, loc *SavedLocation) error

	// Delete removes a saved location.
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is an in-memory implementation of Repository,
// used in tests and when no database is configured.
type InMemoryRepository struct {
	mu        sync.RWMutex
	locations map[string]SavedLocation
}

// NewInMemoryRepository creates a new in-memory location repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		locations: make(map[string]SavedLocation),
	}
}

// Get retrieves a saved location by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*SavedLocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.locations[id]
	if !ok {
		return nil, ErrLocationNotFound
	}
	return &loc, nil
}

// List returns all saved locations ordered by creation time, oldest
// first, with ID as tie-break for a stable order.
func (r *InMemoryRepository) List(_ context.Context) ([]SavedLocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SavedLocation, 0, len(r.locations))
	for _, loc := range r.locations {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Create persists a new saved location.
func (r *InMemoryRepository) Create(_ context.Context, loc *SavedLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.locations[loc.ID] = *loc
	return nil
}

// Update updates an existing saved location.
func (r *InMemoryRepository) Update(_ context.Context, loc *SavedLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.locations[loc.ID]; !ok {
		return ErrLocationNotFound
	}
	r.locations[loc.ID] = *loc
	return nil
}

// Delete removes a saved location.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.locations[id]; !ok {
		return ErrLocationNotFound
	}
	delete(r.locations, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
