// Package api provides the HTTP API for PhotoScout.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/photoscout/photoscout/internal/api/handler"
	"github.com/photoscout/photoscout/internal/api/middleware"
	"github.com/photoscout/photoscout/internal/location"
	"github.com/photoscout/photoscout/internal/scoring"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version         string
	BuildTime       string
	Logger          zerolog.Logger
	ServiceName     string
	Metrics         *middleware.Metrics
	Evaluator       handler.Evaluator
	LocationService *location.Service
	ForecastFetcher handler.ForecastFetcher
	Engine          *scoring.Engine
	Providers       []handler.HealthReporter
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "photoscout-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.ContentTypeJSON)      // JSON content type
	r.Use(middleware.RequireJSON)          // Reject non-JSON bodies

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Providers...)
	compareHandler := handler.NewCompareHandler(cfg.Evaluator)
	locationHandler := handler.NewLocationHandler(cfg.LocationService, cfg.Evaluator, cfg.ForecastFetcher, cfg.Engine)

	// Comparison fans out to the forecast provider, so it gets the
	// stricter limit.
	compareRateLimit := middleware.RateLimitByIP(middleware.CompareRateLimit)   // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		r.With(compareRateLimit).Post("/compare", compareHandler.Compare)

		r.Route("/locations", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", locationHandler.List)
			r.Post("/", locationHandler.Create)
			r.Route("/{locationId}", func(r chi.Router) {
				r.Get("/", locationHandler.Get)
				r.Put("/", locationHandler.Update)
				r.Delete("/", locationHandler.Delete)
				r.Get("/score", locationHandler.Score)
				r.Get("/forecast", locationHandler.Forecast)
			})
		})
	})

	return r
}
