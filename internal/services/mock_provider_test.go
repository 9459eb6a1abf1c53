package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"infinite-experiment/flightvault/internal/common"
	"infinite-experiment/flightvault/internal/config"
	"infinite-experiment/flightvault/internal/metrics"
	"infinite-experiment/flightvault/internal/models/dtos"
	"infinite-experiment/flightvault/internal/models/entities"
	"infinite-experiment/flightvault/internal/store"
)

// Mock FlightDataProvider
type mockProvider struct {
	listAirlinesFunc      func(ctx context.Context) ([]entities.Airline, error)
	scheduleByAirportFunc func(ctx context.Context, iataCode, date, direction string) ([]dtos.ProviderFlight, error)
	delayByFlightFunc     func(ctx context.Context, flightIata, date string, minDelay int) ([]dtos.ProviderFlight, error)
	flightByIataFunc      func(ctx context.Context, flightIata string) ([]dtos.ProviderFlight, error)

	scheduleCalls atomic.Int32
	delayCalls    atomic.Int32
	flightCalls   atomic.Int32
	airlineCalls  atomic.Int32
}

func (m *mockProvider) ListAirlines(ctx context.Context) ([]entities.Airline, error) {
	m.airlineCalls.Add(1)
	if m.listAirlinesFunc == nil {
		return nil, nil
	}
	return m.listAirlinesFunc(ctx)
}

func (m *mockProvider) ScheduleByAirport(ctx context.Context, iataCode, date, direction string) ([]dtos.ProviderFlight, error) {
	m.scheduleCalls.Add(1)
	if m.scheduleByAirportFunc == nil {
		return nil, nil
	}
	return m.scheduleByAirportFunc(ctx, iataCode, date, direction)
}

func (m *mockProvider) DelayByFlight(ctx context.Context, flightIata, date string, minDelay int) ([]dtos.ProviderFlight, error) {
	m.delayCalls.Add(1)
	if m.delayByFlightFunc == nil {
		return nil, nil
	}
	return m.delayByFlightFunc(ctx, flightIata, date, minDelay)
}

func (m *mockProvider) FlightByIata(ctx context.Context, flightIata string) ([]dtos.ProviderFlight, error) {
	m.flightCalls.Add(1)
	if m.flightByIataFunc == nil {
		return nil, nil
	}
	return m.flightByIataFunc(ctx, flightIata)
}

func (m *mockProvider) GetProviderType() string { return "mock" }

var testNow = time.Date(2025, 3, 26, 9, 0, 0, 0, time.UTC)

// setupService wires a memory store seeded with the demo fixture
func setupService(t *testing.T, provider *mockProvider, mutate ...func(*config.Config)) (*FlightDataService, store.DocumentStore) {
	t.Helper()

	cfg := config.Default()
	cfg.Provider.APIToken = "test"
	for _, fn := range mutate {
		fn(cfg)
	}

	st := store.NewMemoryStore(nil)
	if err := store.Seed(context.Background(), st, store.DemoSeed(cfg.Demo)); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	svc := NewFlightDataService(st, provider, cfg, common.FixedClock{At: testNow}, m)
	return svc, st
}

func intPtr(v int) *int { return &v }
