package api

import (
	"net/http"
	"time"

	"infinite-experiment/flightvault/internal/common"
	"infinite-experiment/flightvault/internal/config"
	"infinite-experiment/flightvault/internal/models/dtos"
	"infinite-experiment/flightvault/internal/store"
)

// DebugHandler reports collection counts and the effective store/refresh settings
func DebugHandler(st store.DocumentStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		doc := st.Load(r.Context())

		resp := dtos.DebugResponse{
			Status:      "ok",
			StoreDriver: st.Driver(),
			Collections: doc.Stats(),
			HubAirports: cfg.Refresh.HubAirports,
		}
		if cfg.Demo.Enabled {
			resp.DemoFlight = cfg.Demo.FlightIata + " on " + cfg.Demo.Date
		}
		resp.ResponseTime = common.GetResponseTime(initTime)

		respondWithJSON(w, http.StatusOK, resp)
	}
}
