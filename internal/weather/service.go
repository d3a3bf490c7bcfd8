package weather

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/photoscout/photoscout/internal/telemetry"
)

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the upstream forecast provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// Metrics records provider call and cache statistics. Optional.
	Metrics *telemetry.ProviderMetrics

	// CacheTTL is how long to cache snapshots (default: 10 minutes).
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees
	// (default: 0.1). Points within the same cell share cached data.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale data on provider errors
	// (default: 1 hour).
	StaleIfErrorTTL time.Duration
}

// Service provides forecast data with caching in front of a provider.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	metrics         *telemetry.ProviderMetrics
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration

	mu            sync.RWMutex
	snapshotCache map[string]*cachedSnapshot
	forecastCache map[string]*cachedForecast
}

type cachedSnapshot struct {
	snapshot  *Snapshot
	fetchedAt time.Time
	expiresAt time.Time
}

type cachedForecast struct {
	forecast  *Forecast
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.1 // ~11km at equator
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 1 * time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		metrics:         cfg.Metrics,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		snapshotCache:   make(map[string]*cachedSnapshot),
		forecastCache:   make(map[string]*cachedForecast),
	}
}

// Current returns the forecast snapshot for a location, cached.
func (s *Service) Current(ctx context.Context, lat, lng float64) (*Snapshot, error) {
	if err := ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	key := s.cacheKey(lat, lng)

	s.mu.RLock()
	if cached, ok := s.snapshotCache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.metrics.RecordCacheHit(s.provider.Name(), "current")
		return cached.snapshot, nil
	}
	s.mu.RUnlock()

	s.metrics.RecordCacheMiss(s.provider.Name(), "current")
	return s.fetchSnapshot(ctx, lat, lng, key)
}

// DailyForecast returns per-day snapshots for a location, cached.
func (s *Service) DailyForecast(ctx context.Context, lat, lng float64) (*Forecast, error) {
	if err := ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	key := s.cacheKey(lat, lng)

	s.mu.RLock()
	if cached, ok := s.forecastCache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.metrics.RecordCacheHit(s.provider.Name(), "daily_forecast")
		return cached.forecast, nil
	}
	s.mu.RUnlock()

	s.metrics.RecordCacheMiss(s.provider.Name(), "daily_forecast")
	return s.fetchForecast(ctx, lat, lng, key)
}

func (s *Service) fetchSnapshot(ctx context.Context, lat, lng float64, key string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.snapshotCache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.snapshot, nil
	}

	s.logger.Debug().
		Float64("lat", lat).
		Float64("lng", lng).
		Str("provider", s.provider.Name()).
		Msg("fetching weather snapshot from provider")

	start := time.Now()
	snap, err := s.provider.Current(ctx, lat, lng)
	s.metrics.RecordRequest(s.provider.Name(), "current", time.Since(start), err)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lng", lng).
			Msg("failed to fetch weather snapshot")

		if cached, ok := s.snapshotCache[key]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale weather snapshot due to provider error")
				return cached.snapshot, nil
			}
		}

		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	now := time.Now()
	s.snapshotCache[key] = &cachedSnapshot{
		snapshot:  snap,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	return snap, nil
}

func (s *Service) fetchForecast(ctx context.Context, lat, lng float64, key string) (*Forecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.forecastCache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.forecast, nil
	}

	start := time.Now()
	forecast, err := s.provider.DailyForecast(ctx, lat, lng)
	s.metrics.RecordRequest(s.provider.Name(), "daily_forecast", time.Since(start), err)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lng", lng).
			Msg("failed to fetch daily forecast")

		if cached, ok := s.forecastCache[key]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				return cached.forecast, nil
			}
		}

		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	now := time.Now()
	s.forecastCache[key] = &cachedForecast{
		forecast:  forecast,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	return forecast, nil
}

// cacheKey groups nearby points into grid cells to reduce provider calls.
func (s *Service) cacheKey(lat, lng float64) string {
	gridLat := math.Floor(lat/s.cacheGridSize) * s.cacheGridSize
	gridLng := math.Floor(lng/s.cacheGridSize) * s.cacheGridSize
	return fmt.Sprintf("%.2f:%.2f", gridLat, gridLng)
}

// InvalidateCache clears all cached data.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshotCache = make(map[string]*cachedSnapshot)
	s.forecastCache = make(map[string]*cachedForecast)
}
