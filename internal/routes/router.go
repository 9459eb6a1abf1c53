package routes

import (
	"net/http"

	"infinite-experiment/flightvault/internal/api"
	"infinite-experiment/flightvault/internal/logging"
	"infinite-experiment/flightvault/internal/metrics"
	"infinite-experiment/flightvault/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func RegisterRoutes(deps *api.Dependencies, metricsReg *metrics.MetricsRegistry) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if deps.Config.AppEnv != "production" {
		r.Use(middleware.DebugLogging)
	}

	logging.Info("Router initialized with metrics and logging middleware")
	// health check
	r.Get("/health", api.HealthCheckHandler(deps.Store, deps.UpSince))

	limiter := middleware.NewRateLimiter(deps.Config.RateLimit)
	RegisterAPIRoutes(r, deps, metricsReg, limiter)

	return r
}
