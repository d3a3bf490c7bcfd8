package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/photoscout/photoscout/internal/api/models"
	"github.com/photoscout/photoscout/internal/api/response"
	"github.com/photoscout/photoscout/internal/astro"
	"github.com/photoscout/photoscout/internal/evaluate"
	"github.com/photoscout/photoscout/internal/location"
	"github.com/photoscout/photoscout/internal/scoring"
	"github.com/photoscout/photoscout/internal/weather"
)

// ForecastFetcher supplies daily forecasts. *weather.Service satisfies
// this interface.
type ForecastFetcher interface {
	DailyForecast(ctx context.Context, lat, lng float64) (*weather.Forecast, error)
}

// LocationHandler handles saved location endpoints.
type LocationHandler struct {
	locations *location.Service
	evaluator Evaluator
	forecasts ForecastFetcher
	engine    *scoring.Engine
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(locations *location.Service, evaluator Evaluator, forecasts ForecastFetcher, engine *scoring.Engine) *LocationHandler {
	if engine == nil {
		engine = scoring.NewEngine(scoring.DefaultConfig())
	}
	return &LocationHandler{
		locations: locations,
		evaluator: evaluator,
		forecasts: forecasts,
		engine:    engine,
	}
}

// Create handles POST /v1/locations.
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.LocationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	loc, err := h.locations.Create(r.Context(), location.CreateInput{
		Name:  req.Name,
		Lat:   req.Lat,
		Lng:   req.Lng,
		Notes: req.Notes,
	})
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	response.Created(w, r, "/v1/locations/"+loc.ID, loc)
}

// List handles GET /v1/locations.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locs, err := h.locations.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to list locations")
		return
	}

	response.JSON(w, r, http.StatusOK, map[string]interface{}{
		"locations": locs,
	})
}

// Get handles GET /v1/locations/{locationId}.
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.findLocation(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, loc)
}

// Update handles PUT /v1/locations/{locationId}.
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.LocationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	loc, err := h.locations.Update(r.Context(), chi.URLParam(r, "locationId"), location.UpdateInput{
		Name:  req.Name,
		Lat:   req.Lat,
		Lng:   req.Lng,
		Notes: req.Notes,
	})
	if err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			response.NotFound(w, r, "location not found")
			return
		}
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	response.JSON(w, r, http.StatusOK, loc)
}

// Delete handles DELETE /v1/locations/{locationId}.
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.locations.Delete(r.Context(), chi.URLParam(r, "locationId")); err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			response.NotFound(w, r, "location not found")
			return
		}
		response.InternalError(w, r, "failed to delete location")
		return
	}

	response.NoContent(w, r)
}

// Score handles GET /v1/locations/{locationId}/score. The optional "at"
// query parameter (RFC3339) evaluates conditions at a future instant.
func (h *LocationHandler) Score(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.findLocation(w, r)
	if !ok {
		return
	}

	var instant time.Time
	if at := r.URL.Query().Get("at"); at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			response.BadRequest(w, r, "invalid 'at' parameter, expected RFC3339", []models.FieldError{
				{Field: "at", Message: "must be an RFC3339 timestamp", Code: "invalid_format"},
			})
			return
		}
		instant = parsed
	}

	result, err := h.evaluator.Evaluate(r.Context(), evaluate.Request{
		Locations: []evaluate.Location{{
			ID:   loc.ID,
			Name: loc.Name,
			Lat:  loc.Lat,
			Lng:  loc.Lng,
		}},
		Instant: instant,
	})
	if err != nil {
		response.InternalError(w, r, "evaluation failed")
		return
	}

	locResult := result.Locations[0]
	if locResult.Err != nil {
		response.ServiceUnavailable(w, r, locResult.Error)
		return
	}

	response.JSON(w, r, http.StatusOK, locResult)
}

// DayScore is one scored day in a location forecast.
type DayScore struct {
	Date     time.Time          `json:"date"`
	Instant  time.Time          `json:"instant"`
	SunTimes *astro.SunTimes    `json:"sunTimes"`
	Weather  weather.Conditions `json:"weather"`
	Score    scoring.Score      `json:"score"`
}

// Forecast handles GET /v1/locations/{locationId}/forecast. Each day is
// scored at its evening golden hour, or midday when the sun never
// reaches the golden hour band.
func (h *LocationHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.findLocation(w, r)
	if !ok {
		return
	}

	forecast, err := h.forecasts.DailyForecast(r.Context(), loc.Lat, loc.Lng)
	if err != nil {
		response.ServiceUnavailable(w, r, "forecast provider unavailable")
		return
	}

	days := make([]DayScore, 0, len(forecast.Days))
	for _, day := range forecast.Days {
		sunTimes, err := astro.ComputeSunTimes(day.Date, loc.Lat, loc.Lng)
		if err != nil {
			response.InternalError(w, r, "failed to compute sun times")
			return
		}

		instant := time.Date(day.Date.Year(), day.Date.Month(), day.Date.Day(), 12, 0, 0, 0, time.UTC)
		if sunTimes.GoldenHourEveningStart != nil {
			instant = *sunTimes.GoldenHourEveningStart
		}

		cond, err := astro.ComputeConditions(instant, loc.Lat, loc.Lng)
		if err != nil {
			response.InternalError(w, r, "failed to compute sun position")
			return
		}

		wx := weather.AdaptForPhotography(day.Snapshot)
		days = append(days, DayScore{
			Date:     day.Date,
			Instant:  instant,
			SunTimes: sunTimes,
			Weather:  wx,
			Score:    h.engine.Calculate(cond, wx),
		})
	}

	response.JSON(w, r, http.StatusOK, map[string]interface{}{
		"locationId": loc.ID,
		"days":       days,
	})
}

func (h *LocationHandler) findLocation(w http.ResponseWriter, r *http.Request) (*location.SavedLocation, bool) {
	loc, err := h.locations.Get(r.Context(), chi.URLParam(r, "locationId"))
	if err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			response.NotFound(w, r, "location not found")
			return nil, false
		}
		response.InternalError(w, r, "failed to load location")
		return nil, false
	}
	return loc, true
}
