package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/photoscout/photoscout/internal/api/models"
	"github.com/photoscout/photoscout/internal/api/response"
	"github.com/photoscout/photoscout/internal/evaluate"
)

// Evaluator runs batch condition evaluations. *evaluate.Orchestrator
// satisfies this interface.
type Evaluator interface {
	Evaluate(ctx context.Context, req evaluate.Request) (*evaluate.BatchResult, error)
}

// CompareHandler handles multi-location comparison requests.
type CompareHandler struct {
	evaluator Evaluator
}

// NewCompareHandler creates a new CompareHandler.
func NewCompareHandler(evaluator Evaluator) *CompareHandler {
	return &CompareHandler{evaluator: evaluator}
}

// Compare handles POST /v1/compare.
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req models.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	if len(req.Locations) < 2 {
		response.BadRequest(w, r, "at least 2 locations are required for comparison", []models.FieldError{
			{Field: "locations", Message: "provide between 2 and 8 locations", Code: "too_few"},
		})
		return
	}
	if len(req.Locations) > evaluate.MaxLocations {
		response.BadRequest(w, r, "too many locations for comparison", []models.FieldError{
			{Field: "locations", Message: fmt.Sprintf("provide between 2 and %d locations", evaluate.MaxLocations), Code: "too_many"},
		})
		return
	}

	evalReq := evaluate.Request{
		Locations: make([]evaluate.Location, len(req.Locations)),
	}
	if req.At != nil {
		evalReq.Instant = *req.At
	}
	for i, loc := range req.Locations {
		id := loc.ID
		if id == "" {
			id = fmt.Sprintf("loc-%d", i+1)
		}
		evalReq.Locations[i] = evaluate.Location{
			ID:   id,
			Name: loc.Name,
			Lat:  loc.Lat,
			Lng:  loc.Lng,
		}
	}

	result, err := h.evaluator.Evaluate(r.Context(), evalReq)
	if err != nil {
		if errors.Is(err, evaluate.ErrNoLocations) || errors.Is(err, evaluate.ErrTooManyLocations) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "comparison failed")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}
