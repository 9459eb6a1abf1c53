package routes

import (
	"infinite-experiment/flightvault/internal/api"
	"infinite-experiment/flightvault/internal/metrics"
	"infinite-experiment/flightvault/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers the /api routes. Everything under /api shares
// the per-IP rate limiter; the admin writes and warmup track in-flight requests.
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, metricsReg *metrics.MetricsRegistry, limiter *middleware.RateLimiter) {
	r.Route("/api", func(a chi.Router) {
		a.Use(limiter.Middleware)

		a.Get("/airlines", api.AirlinesHandler(deps.Flights))
		a.Post("/verify-flight", api.VerifyFlightHandler(deps.Flights))
		a.Get("/flight-delay", api.FlightDelayHandler(deps.Flights))
		a.Get("/flight/{flight_iata}", api.FlightInfoHandler(deps.Flights))
		a.Get("/debug", api.DebugHandler(deps.Store, deps.Config))

		a.Group(func(warmup chi.Router) {
			warmup.Use(middleware.InFlightMiddleware(metricsReg, "fetch_all_data"))
			warmup.Post("/fetch-all-data", api.FetchAllDataHandler(deps.Warmup))
			// kept for clients of the original GET route
			warmup.Get("/fetch-all-data", api.FetchAllDataHandler(deps.Warmup))
		})

		a.Group(func(admin chi.Router) {
			admin.Use(middleware.InFlightMiddleware(metricsReg, "admin_update"))
			admin.Post("/update-flight-data", api.UpdateFlightDataHandler(deps.Patches))
			admin.Post("/update-flight-delay", api.UpdateFlightDelayHandler(deps.Patches))
		})
	})
}
