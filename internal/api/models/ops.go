package models

import "github.com/photoscout/photoscout/internal/provider/resilience"

// Health represents the health status of the service.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SystemStatus represents the overall system status, including the
// circuit breaker state of each forecast provider.
type SystemStatus struct {
	Status    HealthStatus        `json:"status"`
	Time      Timestamp           `json:"time"`
	Providers []resilience.Health `json:"providers"`
}
