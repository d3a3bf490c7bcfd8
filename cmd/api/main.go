// Package main provides the entrypoint for the PhotoScout API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/photoscout/photoscout/internal/api"
	"github.com/photoscout/photoscout/internal/api/handler"
	"github.com/photoscout/photoscout/internal/api/middleware"
	"github.com/photoscout/photoscout/internal/database"
	"github.com/photoscout/photoscout/internal/evaluate"
	"github.com/photoscout/photoscout/internal/location"
	"github.com/photoscout/photoscout/internal/provider/resilience"
	"github.com/photoscout/photoscout/internal/scoring"
	"github.com/photoscout/photoscout/internal/telemetry"
	"github.com/photoscout/photoscout/internal/weather"
	"github.com/photoscout/photoscout/internal/weather/openweathermap"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "photoscout-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting PhotoScout API")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryCfg := telemetry.ConfigFromEnv(serviceName, Version)

	tp, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryCfg.Enabled {
		log.Info().
			Str("otlp_endpoint", telemetryCfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	providerMetrics, err := telemetry.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Connect to database. Saved locations fall back to an in-memory
	// store when the database is unreachable, so a missing Postgres
	// does not take the evaluation endpoints down with it.
	var locationRepo location.Repository
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Warn().Err(err).Msg("database unavailable, using in-memory location store")
		locationRepo = location.NewInMemoryRepository()
	} else {
		defer pool.Close()
		if err := database.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure database schema")
		}
		locationRepo = location.NewPostgresRepository(pool)
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
	}

	locationService := location.NewService(locationRepo)

	// Weather provider behind a circuit breaker
	apiKey := os.Getenv("OWM_API_KEY")
	if apiKey == "" {
		log.Warn().Msg("OWM_API_KEY not set - weather requests will fail")
	}

	weatherHTTP := resilience.NewClient(resilience.DefaultClientConfig(openweathermap.ProviderName))
	owmClient := openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:     apiKey,
		HTTPClient: weatherHTTP,
		Logger:     log,
	})

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: owmClient,
		Logger:   log,
		Metrics:  providerMetrics,
	})
	log.Info().Str("provider", owmClient.Name()).Msg("weather service initialized")

	// Scoring and batch evaluation
	engine := scoring.NewEngine(scoring.DefaultConfig())
	orchestrator := evaluate.NewOrchestrator(evaluate.OrchestratorConfig{
		Weather: weatherService,
		Engine:  engine,
		Logger:  log,
	})
	log.Info().Msg("evaluation orchestrator initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:         Version,
		BuildTime:       BuildTime,
		Logger:          log,
		ServiceName:     serviceName,
		Metrics:         metrics,
		Evaluator:       orchestrator,
		LocationService: locationService,
		ForecastFetcher: weatherService,
		Engine:          engine,
		Providers:       []handler.HealthReporter{weatherHTTP},
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
