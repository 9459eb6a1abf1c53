package api

import (
	"context"
	"time"

	"infinite-experiment/flightvault/internal/config"
	"infinite-experiment/flightvault/internal/models/dtos"
	"infinite-experiment/flightvault/internal/models/entities"
	"infinite-experiment/flightvault/internal/services"
	"infinite-experiment/flightvault/internal/store"
)

// FlightQueries is the read side used by the handlers
type FlightQueries interface {
	VerifyFlight(ctx context.Context, airlineIata, flightNumber, departureDate string) (bool, error)
	CheckFlightDelay(ctx context.Context, airlineIata, flightNumber, departureDate string) (entities.DelayResult, error)
	GetFlightInfo(ctx context.Context, flightIata string) (*entities.FlightInfo, error)
	GetAirlines(ctx context.Context) ([]entities.Airline, error)
}

// FlightPatches is the administrative write side
type FlightPatches interface {
	ShiftScheduleDate(ctx context.Context, flightIata, newDate string) (*entities.FlightScheduleRecord, error)
	UpsertDelay(ctx context.Context, flightIata string, patch services.DelayPatch) (*entities.FlightDelayRecord, error)
}

type Warmer interface {
	Run(ctx context.Context) dtos.WarmupReport
}

var (
	_ FlightQueries = (*services.FlightDataService)(nil)
	_ FlightPatches = (*services.FlightPatchService)(nil)
)

type Dependencies struct {
	Config  *config.Config
	Store   store.DocumentStore
	Flights FlightQueries
	Patches FlightPatches
	Warmup  Warmer
	UpSince time.Time
}
