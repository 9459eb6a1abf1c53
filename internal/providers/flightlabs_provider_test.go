package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"infinite-experiment/flightvault/internal/config"
	"infinite-experiment/flightvault/internal/constants"
	"infinite-experiment/flightvault/internal/metrics"
	"infinite-experiment/flightvault/internal/models/entities"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *FlightLabsProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewFlightLabsProvider(config.ProviderConfig{
		BaseURL:  server.URL,
		APIToken: "test-key",
		Timeout:  2 * time.Second,
	}, metrics.NewMetricsRegistry(prometheus.NewRegistry()))
}

func TestFlightLabsProvider_ScheduleByAirport_Envelope(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.URL.Path != "/flight-schedules" {
			t.Errorf("Expected path /flight-schedules, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("iataCode") != "JFK" || q.Get("flight_date") != "2025-03-26" || q.Get("type") != "departure" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("access_key") != "test-key" {
			t.Errorf("Expected access_key param, got %q", q.Get("access_key"))
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected bearer header, got %q", r.Header.Get("Authorization"))
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success": true, "data": [
			{"airline_iata": "AV", "flight_iata": "AV43", "flight_number": "43", "dep_iata": "JFK", "dep_time": "2025-03-26 14:30"},
			{"airline_iata": "AA", "flight_iata": "AA100", "flight_number": "100", "dep_iata": "JFK"}
		]}`))
	})

	flights, err := provider.ScheduleByAirport(context.Background(), "JFK", "2025-03-26", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(flights) != 2 {
		t.Fatalf("Expected 2 flights, got %d", len(flights))
	}
	if flights[0].FlightIata != "AV43" || flights[0].DepTime != "2025-03-26 14:30" {
		t.Errorf("Unexpected first flight %+v", flights[0])
	}
}

func TestFlightLabsProvider_ScheduleByAirport_BareArray(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"airline_iata": "DL", "flight_iata": "DL300", "flight_number": "300"}]`))
	})

	flights, err := provider.ScheduleByAirport(context.Background(), "LAX", "2025-03-26", "departure")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(flights) != 1 || flights[0].FlightIata != "DL300" {
		t.Errorf("Unexpected flights %+v", flights)
	}
}

func TestFlightLabsProvider_DelayByFlight_Params(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/flight-delay" {
			t.Errorf("Expected path /flight-delay, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("delay"); got != "120" {
			t.Errorf("Expected delay=120, got %q", got)
		}
		w.Write([]byte(`[{"flight": {"iata": "UA200", "number": "200"}, "airline": {"iata": "UA"},
			"departure": {"iata": "ORD", "delay": 20}, "arrival": {"iata": "SFO", "delay": 130}, "flight_status": "landed"}]`))
	})

	flights, err := provider.DelayByFlight(context.Background(), "UA200", "2025-03-26", 120)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(flights) != 1 {
		t.Fatalf("Expected 1 flight, got %d", len(flights))
	}
	if flights[0].AggregateDelay() != 130 {
		t.Errorf("Expected arrival delay 130, got %d", flights[0].AggregateDelay())
	}
}

func TestFlightLabsProvider_FlightByIata_SingleObject(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {"flight_iata": "AV43", "airline_iata": "AV", "flight_number": "43"}}`))
	})

	flights, err := provider.FlightByIata(context.Background(), "AV43")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(flights) != 1 || flights[0].FlightIata != "AV43" {
		t.Errorf("Unexpected flights %+v", flights)
	}
}

func TestFlightLabsProvider_ListAirlines(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/airlines" {
			t.Errorf("Expected path /airlines, got %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"name": "Avianca", "iata_code": "AV", "icao_code": "AVA", "is_passenger": true, "is_cargo": "Unknown"},
			{"name": "Cargolux", "iata_code": "CV", "icao_code": "CLX", "is_passenger": false, "is_cargo": true}
		]`))
	})

	airlines, err := provider.ListAirlines(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(airlines) != 2 {
		t.Fatalf("Expected 2 airlines, got %d", len(airlines))
	}
	if airlines[0].IsPassenger != entities.TriStateTrue || airlines[0].IsCargo != entities.TriStateUnknown {
		t.Errorf("Unexpected tri-states for %s: %v %v", airlines[0].Name, airlines[0].IsPassenger, airlines[0].IsCargo)
	}
	if airlines[1].IsPassenger != entities.TriStateFalse {
		t.Errorf("Expected cargo airline not passenger, got %v", airlines[1].IsPassenger)
	}
}

func TestFlightLabsProvider_UnsuccessfulEnvelope(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": {"code": "usage_limit_reached"}}`))
	})

	_, err := provider.ScheduleByAirport(context.Background(), "JFK", "2025-03-26", "")
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}
	if pe.Code != constants.ErrCodeProviderRejected {
		t.Errorf("Expected %s, got %s", constants.ErrCodeProviderRejected, pe.Code)
	}
}

func TestFlightLabsProvider_MalformedBody(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := provider.ScheduleByAirport(context.Background(), "JFK", "2025-03-26", "")
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Code != constants.ErrCodeInvalidDataFormat {
		t.Errorf("Expected invalid data format error, got %v", err)
	}
}

func TestFlightLabsProvider_HTTPErrors(t *testing.T) {
	cases := []struct {
		status int
		code   string
	}{
		{http.StatusUnauthorized, constants.ErrCodeInvalidAPIKey},
		{http.StatusNotFound, constants.ErrCodeNotFound},
		{http.StatusTooManyRequests, constants.ErrCodeRateLimited},
		{http.StatusBadGateway, constants.ErrCodeNetworkError},
	}

	for _, tc := range cases {
		status := tc.status
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"error": "nope"}`))
		})

		_, err := provider.FlightByIata(context.Background(), "AV43")
		var pe *ProviderError
		if !errors.As(err, &pe) {
			t.Fatalf("status %d: expected ProviderError, got %v", status, err)
		}
		if pe.Code != tc.code || pe.StatusCode != status {
			t.Errorf("status %d: expected code %s, got %s (%d)", status, tc.code, pe.Code, pe.StatusCode)
		}
	}
}

func TestFlightLabsProvider_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	provider := NewFlightLabsProvider(config.ProviderConfig{
		BaseURL:  server.URL,
		APIToken: "test-key",
		Timeout:  50 * time.Millisecond,
	}, nil)

	_, err := provider.ScheduleByAirport(context.Background(), "JFK", "2025-03-26", "")
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Code != constants.ErrCodeNetworkError {
		t.Errorf("Expected network error on timeout, got %v", err)
	}
}

func TestFlightLabsProvider_MissingKey(t *testing.T) {
	provider := NewFlightLabsProvider(config.ProviderConfig{BaseURL: "http://127.0.0.1:1"}, nil)

	_, err := provider.ListAirlines(context.Background())
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Code != constants.ErrCodeInvalidAPIKey {
		t.Errorf("Expected invalid API key error, got %v", err)
	}
}

func TestFlightLabsProvider_EmptyAirport(t *testing.T) {
	provider := NewFlightLabsProvider(config.ProviderConfig{APIToken: "k"}, nil)

	if _, err := provider.ScheduleByAirport(context.Background(), "", "2025-03-26", ""); err == nil {
		t.Error("Expected error for empty airport")
	}
}
