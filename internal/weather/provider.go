package weather

import "context"

// Provider defines the interface for upstream forecast providers.
type Provider interface {
	// Current fetches the forecast snapshot for an instant close to now.
	Current(ctx context.Context, lat, lng float64) (*Snapshot, error)

	// DailyForecast fetches per-day snapshots for the coming days.
	DailyForecast(ctx context.Context, lat, lng float64) (*Forecast, error)

	// Name returns the provider name for logging.
	Name() string
}
