package providers

import (
	"context"
	"fmt"

	"infinite-experiment/flightvault/internal/models/dtos"
	"infinite-experiment/flightvault/internal/models/entities"
)

// FlightDataProvider defines the interface for the third-party flight data API.
// Every method returns provider records already unwrapped from whatever
// envelope the endpoint uses.
type FlightDataProvider interface {
	// ListAirlines fetches the full airline catalogue
	ListAirlines(ctx context.Context) ([]entities.Airline, error)

	// ScheduleByAirport fetches the schedule of one airport for a date
	// direction is "departure" or "arrival"
	ScheduleByAirport(ctx context.Context, iataCode, date, direction string) ([]dtos.ProviderFlight, error)

	// DelayByFlight fetches delay data for a flight, filtered to delays of at least minDelayMinutes
	DelayByFlight(ctx context.Context, flightIata, date string, minDelayMinutes int) ([]dtos.ProviderFlight, error)

	// FlightByIata fetches a single flight by identifier
	FlightByIata(ctx context.Context, flightIata string) ([]dtos.ProviderFlight, error)

	// GetProviderType returns the provider type identifier
	GetProviderType() string
}

// ProviderError represents a provider-specific error
type ProviderError struct {
	Code       string
	Message    string
	Details    string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
