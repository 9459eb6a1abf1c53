package api

import (
	"context"
	"net/http"
	"time"

	"infinite-experiment/flightvault/internal/models/entities"
)

const healthPingTimeout = 3 * time.Second

// Pinger is anything the health check can probe
type Pinger interface {
	Ping(ctx context.Context) error
	Driver() string
}

// HealthCheckHandler handles GET /health
func HealthCheckHandler(st Pinger, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]entities.ServiceStatus)

		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		storeStatus := "ok"
		storeDetails := st.Driver() + " store reachable"
		if err := st.Ping(ctx); err != nil {
			storeStatus = "down"
			storeDetails = err.Error()
		}
		services["store"] = entities.ServiceStatus{
			Status:  storeStatus,
			Details: storeDetails,
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}

		respondWithJSON(w, code, entities.HealthCheckResponse{
			Status:   overallStatus,
			Services: services,
			UpSince:  upSince,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		})
	}
}
