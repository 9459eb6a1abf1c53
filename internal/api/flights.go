package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"infinite-experiment/flightvault/internal/constants"
	"infinite-experiment/flightvault/internal/logging"
	"infinite-experiment/flightvault/internal/models/dtos"
	"infinite-experiment/flightvault/internal/services"
)

// AirlinesHandler handles GET /api/airlines
func AirlinesHandler(svc FlightQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		airlines, err := svc.GetAirlines(r.Context())
		if err != nil {
			logging.Error("Error in /api/airlines", "error", err.Error())
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if len(airlines) == 0 {
			respondWithError(w, http.StatusInternalServerError, constants.MsgNoAirlines)
			return
		}
		respondWithJSON(w, http.StatusOK, airlines)
	}
}

// VerifyFlightHandler handles POST /api/verify-flight
func VerifyFlightHandler(svc FlightQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.VerifyFlightRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithJSON(w, http.StatusBadRequest, dtos.VerifyFlightResponse{Valid: false, Message: constants.MsgInvalidRequestBody})
			return
		}
		if req.AirlineIata == "" || req.FlightNumber == "" || req.DepartureDate == "" {
			respondWithJSON(w, http.StatusBadRequest, dtos.VerifyFlightResponse{Valid: false, Message: constants.MsgMissingFields})
			return
		}

		valid, err := svc.VerifyFlight(r.Context(), req.AirlineIata, req.FlightNumber, req.DepartureDate)
		if errors.Is(err, services.ErrMissingField) {
			respondWithJSON(w, http.StatusBadRequest, dtos.VerifyFlightResponse{Valid: false, Message: constants.MsgMissingFields})
			return
		}
		if err != nil {
			logging.Error("Error in /api/verify-flight", "error", err.Error())
			respondWithJSON(w, http.StatusInternalServerError, dtos.VerifyFlightResponse{Valid: false, Message: "❌ Error verifying flight: " + err.Error()})
			return
		}

		msg := constants.MsgFlightNotFound
		if valid {
			msg = constants.MsgFlightVerified
		}
		respondWithJSON(w, http.StatusOK, dtos.VerifyFlightResponse{Valid: valid, Message: msg})
	}
}

// FlightDelayHandler handles GET /api/flight-delay?flight_iata=&departure_date=
func FlightDelayHandler(svc FlightQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flightIata := strings.TrimSpace(r.URL.Query().Get("flight_iata"))
		departureDate := strings.TrimSpace(r.URL.Query().Get("departure_date"))
		if flightIata == "" || departureDate == "" {
			respondWithError(w, http.StatusBadRequest, constants.MsgMissingParams)
			return
		}

		id := services.SplitFlightIata(flightIata)
		result, err := svc.CheckFlightDelay(r.Context(), id.AirlineIata, id.FlightNumber, departureDate)
		if errors.Is(err, services.ErrMissingField) {
			respondWithError(w, http.StatusBadRequest, constants.MsgMissingParams)
			return
		}
		if err != nil {
			logging.Error("Error in /api/flight-delay", "error", err.Error())
			respondWithError(w, http.StatusInternalServerError, "❌ Error fetching flight delay: "+err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, dtos.FlightDelayResponse{
			Success:      true,
			Flight:       flightIata,
			Delayed:      result.Delayed,
			DelayMinutes: result.DelayMinutes,
			Status:       result.FlightStatus,
		})
	}
}

// FlightInfoHandler handles GET /api/flight/{flight_iata}
func FlightInfoHandler(svc FlightQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flightIata := strings.TrimSpace(chi.URLParam(r, "flight_iata"))
		if flightIata == "" {
			respondWithError(w, http.StatusBadRequest, constants.MsgMissingFlightIata)
			return
		}

		info, err := svc.GetFlightInfo(r.Context(), flightIata)
		if errors.Is(err, services.ErrMissingField) {
			respondWithError(w, http.StatusBadRequest, constants.MsgMissingFlightIata)
			return
		}
		if err != nil {
			logging.Error("Error in /api/flight", "error", err.Error())
			respondWithError(w, http.StatusInternalServerError, "❌ Error fetching flight info: "+err.Error())
			return
		}
		if info == nil {
			respondWithError(w, http.StatusNotFound, constants.MsgFlightNotFound)
			return
		}
		respondWithJSON(w, http.StatusOK, info)
	}
}
