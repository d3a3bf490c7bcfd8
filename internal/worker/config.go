// Package worker provides background job processing for PhotoScout.
package worker

import "time"

// RefreshConfig holds configuration for the location refresh job.
type RefreshConfig struct {
	// Concurrency is the number of evaluation batches processed in
	// parallel. Default: 3.
	Concurrency int

	// BatchTimeout bounds each evaluation batch. Default: 60 seconds.
	BatchTimeout time.Duration
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Concurrency:  3,
		BatchTimeout: 60 * time.Second,
	}
}

func (c RefreshConfig) withDefaults() RefreshConfig {
	defaults := DefaultRefreshConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = defaults.Concurrency
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = defaults.BatchTimeout
	}
	return c
}
