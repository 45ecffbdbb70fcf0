// Package api provides the HTTP API for FleetDispatch.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/fleetdispatch/fleetdispatch/internal/api/handler"
	"github.com/fleetdispatch/fleetdispatch/internal/api/middleware"
	"github.com/fleetdispatch/fleetdispatch/internal/directory"
	"github.com/fleetdispatch/fleetdispatch/internal/export"
	"github.com/fleetdispatch/fleetdispatch/internal/geocode"
	"github.com/fleetdispatch/fleetdispatch/internal/provider/resilience"
	"github.com/fleetdispatch/fleetdispatch/internal/routing"
	"github.com/fleetdispatch/fleetdispatch/internal/trip"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	Registry    *resilience.Registry
	DB          handler.Pinger

	TripService    *trip.Service
	RoutingService *routing.Service
	GeocodeService *geocode.Service
	Drivers        directory.DriverRepository
	Clients        directory.ClientRepository
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "fleetdispatch-api"
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
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry, cfg.DB)
	routeHandler := handler.NewRouteHandler(cfg.RoutingService, cfg.Logger)
	geocodeHandler := handler.NewGeocodeHandler(cfg.GeocodeService, cfg.Logger)
	tripHandler := handler.NewTripHandler(cfg.TripService, cfg.Drivers, cfg.Logger)
	boardHandler := handler.NewBoardHandler(cfg.TripService, cfg.Logger)
	directoryHandler := handler.NewDirectoryHandler(cfg.Drivers, cfg.Clients, cfg.Logger)
	exportHandler := handler.NewExportHandler(cfg.TripService, export.NewGenerator(), cfg.Logger)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)  // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Route computation - expensive compute, strict rate limiting
		r.With(expensiveRateLimit).Post("/routes:compute", routeHandler.ComputeRoute)

		// Address search - standard rate limiting
		r.With(standardRateLimit).Get("/geocode", geocodeHandler.Search)

		// Trips
		r.Route("/trips", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", tripHandler.ListTrips)
			r.Post("/", tripHandler.CreateTrip)
			r.With(expensiveRateLimit).Get("/export", exportHandler.ExportTrips)
			r.Route("/{tripId}", func(r chi.Router) {
				r.Get("/", tripHandler.GetTrip)
				r.Delete("/", tripHandler.DeleteTrip)
				r.Patch("/times", tripHandler.PatchTripTimes)
				r.Put("/position", tripHandler.UpdateTripPosition)
			})
			r.Post("/{tripId}:start", tripHandler.StartTrip)
			r.Post("/{tripId}:finish", tripHandler.FinishTrip)
			r.Post("/{tripId}:cancel", tripHandler.CancelTrip)
		})

		// Dispatch board
		r.Route("/board", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", boardHandler.GetBoard)
			r.Get("/summary", boardHandler.GetBoardSummary)
		})

		// Directory
		r.Route("/directory", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/drivers", directoryHandler.ListDrivers)
			r.Get("/clients", directoryHandler.ListClients)
			r.Get("/clients/{clientId}/favorites", directoryHandler.GetClientFavorites)
		})
	})

	return r
}
