package location

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service provides saved location operations.
type Service struct {
	repo Repository
}

// NewService creates a new location service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the input and saves a new location.
func (s *Service) Create(ctx context.Context, input CreateInput) (*SavedLocation, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	loc := &SavedLocation{
		ID:        "loc_" + uuid.New().String(),
		Name:      input.Name,
		Lat:       input.Lat,
		Lng:       input.Lng,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// Get retrieves a saved location by ID.
func (s *Service) Get(ctx context.Context, id string) (*SavedLocation, error) {
	return s.repo.Get(ctx, id)
}

// List returns all saved locations.
func (s *Service) List(ctx context.Context) ([]SavedLocation, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update to a saved location.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*SavedLocation, error) {
	loc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := validateName(*input.Name); err != nil {
			return nil, err
		}
		loc.Name = *input.Name
	}
	lat, lng := loc.Lat, loc.Lng
	if input.Lat != nil {
		lat = *input.Lat
	}
	if input.Lng != nil {
		lng = *input.Lng
	}
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}
	loc.Lat, loc.Lng = lat, lng
	if input.Notes != nil {
		loc.Notes = *input.Notes
	}
	loc.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// Delete removes a saved location.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
