package models

import "time"

// CompareLocation is one candidate in a comparison request. ID is
// optional; when omitted one is derived from the list position.
type CompareLocation struct {
	ID   string  `json:"id,omitempty"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// CompareRequest is the body of POST /v1/compare. At is optional and
// defaults to the current time.
type CompareRequest struct {
	Locations []CompareLocation `json:"locations"`
	At        *time.Time        `json:"at,omitempty"`
}

// LocationCreateRequest is the body of POST /v1/locations.
type LocationCreateRequest struct {
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Notes string  `json:"notes,omitempty"`
}

// LocationUpdateRequest is the body of PUT /v1/locations/{locationId}.
// Nil fields are left unchanged.
type LocationUpdateRequest struct {
	Name  *string  `json:"name,omitempty"`
	Lat   *float64 `json:"lat,omitempty"`
	Lng   *float64 `json:"lng,omitempty"`
	Notes *string  `json:"notes,omitempty"`
}
