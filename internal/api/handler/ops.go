// Package handler provides HTTP handlers for the PhotoScout API.
package handler

import (
	"net/http"
	"time"

	"github.com/photoscout/photoscout/internal/api/models"
	"github.com/photoscout/photoscout/internal/api/response"
	"github.com/photoscout/photoscout/internal/provider/resilience"
)

// HealthReporter reports provider breaker health. *resilience.Client
// satisfies this interface.
type HealthReporter interface {
	Health() resilience.Health
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	providers []HealthReporter
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, providers ...HealthReporter) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		providers: providers,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider breaker status.
// Degraded when any forecast provider's breaker is not closed.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:    models.HealthStatusOK,
		Time:      models.Timestamp(time.Now()),
		Providers: make([]resilience.Health, 0, len(h.providers)),
	}

	for _, p := range h.providers {
		ph := p.Health()
		if !ph.Healthy {
			status.Status = models.HealthStatusDegraded
		}
		status.Providers = append(status.Providers, ph)
	}

	response.JSON(w, r, http.StatusOK, status)
}
