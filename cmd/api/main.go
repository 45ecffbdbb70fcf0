// Package main provides the entrypoint for the FleetDispatch API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/fleetdispatch/fleetdispatch/internal/api"
	"github.com/fleetdispatch/fleetdispatch/internal/api/middleware"
	"github.com/fleetdispatch/fleetdispatch/internal/database"
	"github.com/fleetdispatch/fleetdispatch/internal/directory"
	"github.com/fleetdispatch/fleetdispatch/internal/geocode"
	geocodeors "github.com/fleetdispatch/fleetdispatch/internal/geocode/openrouteservice"
	"github.com/fleetdispatch/fleetdispatch/internal/provider/resilience"
	"github.com/fleetdispatch/fleetdispatch/internal/routing"
	"github.com/fleetdispatch/fleetdispatch/internal/routing/googlemaps"
	"github.com/fleetdispatch/fleetdispatch/internal/routing/openrouteservice"
	"github.com/fleetdispatch/fleetdispatch/internal/telemetry"
	"github.com/fleetdispatch/fleetdispatch/internal/trip"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "fleetdispatch-api"

	// Load .env for local development; ignored when absent
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting FleetDispatch API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
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

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Provider health registry shared by all outbound clients
	registry := resilience.NewRegistry()

	// Initialize routing provider
	provider, err := routingProvider(registry, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize routing provider")
	}
	routingService := routing.NewService(routing.ServiceConfig{
		Provider: provider,
		Logger:   log,
	})
	log.Info().
		Str("provider", provider.Name()).
		Msg("routing service initialized")

	// Initialize geocoding service
	geocodeService := geocode.NewService(geocode.ServiceConfig{
		Resolver: geocodeors.NewClient(geocodeors.ClientConfig{
			APIKey:   os.Getenv("ORS_API_KEY"),
			Country:  os.Getenv("GEOCODE_COUNTRY"),
			Registry: registry,
			Logger:   log,
		}),
		Logger: log,
	})
	log.Info().Msg("geocoding service initialized")

	// Initialize trip repository and service
	tripRepo := trip.NewPostgresRepository(pool)
	tripService := trip.NewService(tripRepo, trip.NewFeed(), log)
	log.Info().Msg("trip service initialized")

	// Initialize directory repository
	directoryRepo := directory.NewPostgresRepository(pool)
	log.Info().Msg("directory repository initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		ServiceName:    serviceName,
		Metrics:        metrics,
		Registry:       registry,
		DB:             pool,
		TripService:    tripService,
		RoutingService: routingService,
		GeocodeService: geocodeService,
		Drivers:        directoryRepo,
		Clients:        directoryRepo,
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

// routingProvider selects the routing provider from ROUTING_PROVIDER.
// OpenRouteService is the default; Google Maps is opt-in.
func routingProvider(registry *resilience.Registry, log zerolog.Logger) (routing.Provider, error) {
	switch os.Getenv("ROUTING_PROVIDER") {
	case "googlemaps":
		return googlemaps.NewClient(googlemaps.ClientConfig{
			APIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
			Logger: log,
		})
	default:
		return openrouteservice.NewClient(openrouteservice.ClientConfig{
			APIKey:   os.Getenv("ORS_API_KEY"),
			Registry: registry,
			Logger:   log,
		}), nil
	}
}
