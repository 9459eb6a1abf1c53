package entities

import (
	"time"

	"github.com/oapi-codegen/nullable"

	"infinite-experiment/flightvault/internal/constants"
)

// FlightScheduleRecord is a cached schedule entry keyed by flight identifier.
// Local times use the provider layout "2006-01-02 15:04".
type FlightScheduleRecord struct {
	AirlineIata    string `json:"airline_iata"`
	AirlineIcao    string `json:"airline_icao,omitempty"`
	FlightIata     string `json:"flight_iata"`
	FlightIcao     string `json:"flight_icao,omitempty"`
	FlightNumber   string `json:"flight_number"`
	CsAirlineIata  string `json:"cs_airline_iata,omitempty"`
	CsFlightIata   string `json:"cs_flight_iata,omitempty"`
	CsFlightNumber string `json:"cs_flight_number,omitempty"`

	DepIata     string `json:"dep_iata"`
	DepIcao     string `json:"dep_icao,omitempty"`
	DepAirport  string `json:"dep_airport,omitempty"`
	DepTerminal string `json:"dep_terminal,omitempty"`
	DepGate     string `json:"dep_gate,omitempty"`
	DepTime     string `json:"dep_time"`
	DepTimeUtc  string `json:"dep_time_utc,omitempty"`

	ArrIata     string `json:"arr_iata"`
	ArrIcao     string `json:"arr_icao,omitempty"`
	ArrAirport  string `json:"arr_airport,omitempty"`
	ArrTerminal string `json:"arr_terminal,omitempty"`
	ArrGate     string `json:"arr_gate,omitempty"`
	ArrTime     string `json:"arr_time"`
	ArrTimeUtc  string `json:"arr_time_utc,omitempty"`

	Status   string `json:"status"`
	Duration int    `json:"duration,omitempty"`

	// Unknown until the provider or an operator reports them
	Delayed    nullable.Nullable[int] `json:"delayed,omitempty"`
	DepDelayed nullable.Nullable[int] `json:"dep_delayed,omitempty"`
	ArrDelayed nullable.Nullable[int] `json:"arr_delayed,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// DepartureDate is the date portion of the local departure time
func (r *FlightScheduleRecord) DepartureDate() string {
	return datePart(r.DepTime)
}

// FlightDelayRecord is a cached delay lookup keyed by flight identifier
type FlightDelayRecord struct {
	FlightIata   string `json:"flight_iata"`
	AirlineIata  string `json:"airline_iata"`
	FlightNumber string `json:"flight_number"`
	FlightDate   string `json:"flight_date"`

	DepIata     string `json:"dep_iata"`
	DepTerminal string `json:"dep_terminal,omitempty"`
	DepGate     string `json:"dep_gate,omitempty"`
	DepTime     string `json:"dep_time"`
	DepTimeUtc  string `json:"dep_time_utc,omitempty"`

	ArrIata     string `json:"arr_iata"`
	ArrTerminal string `json:"arr_terminal,omitempty"`
	ArrGate     string `json:"arr_gate,omitempty"`
	ArrTime     string `json:"arr_time"`
	ArrTimeUtc  string `json:"arr_time_utc,omitempty"`

	Delayed    int `json:"delayed"`
	DepDelayed int `json:"dep_delayed"`
	ArrDelayed int `json:"arr_delayed"`

	Status         constants.DelayStatus `json:"status"`
	ProviderStatus string                `json:"provider_status,omitempty"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// DepartureDate prefers the departure timestamp and falls back to the queried flight date
func (r *FlightDelayRecord) DepartureDate() string {
	if d := datePart(r.DepTime); d != "" {
		return d
	}
	return r.FlightDate
}

// ApplyDelay sets the minute counts and re-derives the status
func (r *FlightDelayRecord) ApplyDelay(delayed, depDelayed, arrDelayed int) {
	r.Delayed = delayed
	r.DepDelayed = depDelayed
	r.ArrDelayed = arrDelayed
	r.Status = DeriveDelayStatus(delayed)
}

// Result is the shape returned to callers of a delay lookup
func (r *FlightDelayRecord) Result() DelayResult {
	return DelayResult{
		Delayed:      r.Delayed > 0,
		DelayMinutes: r.Delayed,
		FlightStatus: string(r.Status),
	}
}

// DeriveDelayStatus maps aggregate delay minutes to a status
func DeriveDelayStatus(minutes int) constants.DelayStatus {
	if minutes > 0 {
		return constants.DelayStatusDelayed
	}
	return constants.DelayStatusScheduled
}

type DelayResult struct {
	Delayed      bool   `json:"delayed"`
	DelayMinutes int    `json:"delay_minutes"`
	FlightStatus string `json:"flight_status"`
}

// UnknownDelay is returned when nothing is known about a flight's delay
func UnknownDelay() DelayResult {
	return DelayResult{
		Delayed:      false,
		DelayMinutes: 0,
		FlightStatus: string(constants.DelayStatusUnknown),
	}
}

type FlightEndpoint struct {
	Airport   string `json:"airport"`
	Iata      string `json:"iata"`
	Scheduled string `json:"scheduled"`
}

// FlightInfo is the public, normalized view of a cached schedule
type FlightInfo struct {
	FlightIata   string         `json:"flightIata"`
	AirlineIata  string         `json:"airlineIata"`
	FlightNumber string         `json:"flightNumber"`
	Departure    FlightEndpoint `json:"departure"`
	Arrival      FlightEndpoint `json:"arrival"`
	Status       string         `json:"status"`
	Verified     bool           `json:"verified"`
}

func datePart(ts string) string {
	if len(ts) < len(constants.DateLayout) {
		return ""
	}
	return ts[:len(constants.DateLayout)]
}

// KnownMinutes returns a nullable minute count and whether it is known
func KnownMinutes(n nullable.Nullable[int]) (int, bool) {
	if !n.IsSpecified() || n.IsNull() {
		return 0, false
	}
	return n.MustGet(), true
}
