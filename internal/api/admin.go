package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"infinite-experiment/flightvault/internal/constants"
	"infinite-experiment/flightvault/internal/logging"
	"infinite-experiment/flightvault/internal/models/dtos"
	"infinite-experiment/flightvault/internal/services"
)

// FetchAllDataHandler handles GET /api/fetch-all-data. The warmup runs in the
// request and its report is returned alongside the legacy message.
func FetchAllDataHandler(warmup Warmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := warmup.Run(r.Context())
		logging.Info("[FetchAll] Warmup finished",
			"airlines", report.Airlines,
			"schedules", report.SchedulesStored,
			"failed_airports", report.FailedAirports,
			"response_time", report.ResponseTime,
		)

		respondWithJSON(w, http.StatusOK, dtos.FetchAllResponse{
			Success: true,
			Message: constants.MsgFetchAllCompleted,
			Report:  &report,
		})
	}
}

// UpdateFlightDataHandler handles POST /api/update-flight-data
func UpdateFlightDataHandler(svc FlightPatches) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.UpdateFlightDataRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidRequestBody)
			return
		}
		if strings.TrimSpace(req.FlightIata) == "" || strings.TrimSpace(req.DepartureDate) == "" {
			respondWithError(w, http.StatusBadRequest, constants.MsgMissingFields)
			return
		}

		rec, err := svc.ShiftScheduleDate(r.Context(), req.FlightIata, req.DepartureDate)
		switch {
		case errors.Is(err, services.ErrScheduleNotFound):
			respondWithError(w, http.StatusNotFound, constants.MsgScheduleNotCached)
			return
		case errors.Is(err, services.ErrInvalidDate), errors.Is(err, services.ErrMissingField):
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			logging.Error("Error in /api/update-flight-data", "error", err.Error())
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, dtos.UpdateScheduleResponse{
			Success:  true,
			Message:  constants.MsgScheduleUpdated,
			Schedule: rec,
		})
	}
}

// UpdateFlightDelayHandler handles POST /api/update-flight-delay
func UpdateFlightDelayHandler(svc FlightPatches) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.UpdateFlightDelayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidRequestBody)
			return
		}
		if strings.TrimSpace(req.FlightIata) == "" {
			respondWithError(w, http.StatusBadRequest, constants.MsgMissingFlightIata)
			return
		}

		rec, err := svc.UpsertDelay(r.Context(), req.FlightIata, services.DelayPatch{
			Delayed:    req.DelayMinutes,
			DepDelayed: req.DepDelay,
			ArrDelayed: req.ArrDelay,
		})
		switch {
		case errors.Is(err, services.ErrInvalidDelay), errors.Is(err, services.ErrMissingField):
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			logging.Error("Error in /api/update-flight-delay", "error", err.Error())
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, dtos.UpdateDelayResponse{
			Success: true,
			Message: constants.MsgDelayUpdated,
			Delay:   rec,
		})
	}
}
