package api

import (
	"encoding/json"
	"net/http"

	"infinite-experiment/flightvault/internal/logging"
	"infinite-experiment/flightvault/internal/models/dtos"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("Failed to encode response", "error", err.Error())
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, dtos.ErrorResponse{Error: message})
}
