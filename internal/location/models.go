// Package location manages the catalogue of saved shooting spots.
package location

import (
	"errors"
	"time"
)

// Validation errors.
var (
	ErrEmptyName          = errors.New("location name is required")
	ErrNameTooLong        = errors.New("location name exceeds 120 characters")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// MaxNameLength bounds saved location names.
const MaxNameLength = 120

// SavedLocation is a shooting spot a photographer wants to track.
type SavedLocation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput holds the fields required to save a new location.
type CreateInput struct {
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Notes string  `json:"notes"`
}

// UpdateInput holds a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Name  *string  `json:"name"`
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
	Notes *string  `json:"notes"`
}

// Validate checks a create input.
func (in CreateInput) Validate() error {
	if err := validateName(in.Name); err != nil {
		return err
	}
	return validateCoordinates(in.Lat, in.Lng)
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
