package dtos

import (
	"bytes"
	"encoding/json"
	"strings"

	"infinite-experiment/flightvault/internal/common"
)

// ProviderEnvelope covers the wrapped response variants. Schedules and delays
// come back as {success, data}, some endpoints use {request, response}.
type ProviderEnvelope struct {
	Success  *bool           `json:"success"`
	Data     json.RawMessage `json:"data"`
	Response json.RawMessage `json:"response"`
	Error    json.RawMessage `json:"error"`
}

// Payload returns whichever list field the provider populated
func (e *ProviderEnvelope) Payload() json.RawMessage {
	if len(e.Data) > 0 && string(e.Data) != "null" {
		return e.Data
	}
	if len(e.Response) > 0 && string(e.Response) != "null" {
		return e.Response
	}
	return nil
}

// ProviderFlight is one flight as reported by any provider endpoint,
// normalized to the flat schedule field names.
type ProviderFlight struct {
	AirlineIata    string
	AirlineIcao    string
	FlightIata     string
	FlightIcao     string
	FlightNumber   string
	CsAirlineIata  string
	CsFlightIata   string
	CsFlightNumber string

	DepIata     string
	DepIcao     string
	DepAirport  string
	DepTerminal string
	DepGate     string
	DepTime     string
	DepTimeUtc  string

	ArrIata     string
	ArrIcao     string
	ArrAirport  string
	ArrTerminal string
	ArrGate     string
	ArrTime     string
	ArrTimeUtc  string

	FlightDate string
	Status     string
	Duration   int

	Delayed    *int
	DepDelayed *int
	ArrDelayed *int
}

type flatFlight struct {
	AirlineIata    string `json:"airline_iata"`
	AirlineIcao    string `json:"airline_icao"`
	FlightIata     string `json:"flight_iata"`
	FlightIcao     string `json:"flight_icao"`
	FlightNumber   string `json:"flight_number"`
	CsAirlineIata  string `json:"cs_airline_iata"`
	CsFlightIata   string `json:"cs_flight_iata"`
	CsFlightNumber string `json:"cs_flight_number"`

	DepIata     string `json:"dep_iata"`
	DepIcao     string `json:"dep_icao"`
	DepTerminal string `json:"dep_terminal"`
	DepGate     string `json:"dep_gate"`
	DepTime     string `json:"dep_time"`
	DepTimeUtc  string `json:"dep_time_utc"`

	ArrIata     string `json:"arr_iata"`
	ArrIcao     string `json:"arr_icao"`
	ArrTerminal string `json:"arr_terminal"`
	ArrGate     string `json:"arr_gate"`
	ArrTime     string `json:"arr_time"`
	ArrTimeUtc  string `json:"arr_time_utc"`

	ScheduledDeparture string `json:"scheduled_departure"`
	ScheduledArrival   string `json:"scheduled_arrival"`

	FlightDate   string            `json:"flight_date"`
	Status       string            `json:"status"`
	FlightStatus string            `json:"flight_status"`
	Duration     common.RoundedInt `json:"duration"`

	Delayed    common.RoundedInt `json:"delayed"`
	DepDelayed common.RoundedInt `json:"dep_delayed"`
	ArrDelayed common.RoundedInt `json:"arr_delayed"`

	Departure json.RawMessage `json:"departure"`
	Arrival   json.RawMessage `json:"arrival"`
	Airline   json.RawMessage `json:"airline"`
	Flight    json.RawMessage `json:"flight"`
}

type nestedEndpoint struct {
	Airport   string            `json:"airport"`
	Iata      string            `json:"iata"`
	Icao      string            `json:"icao"`
	Terminal  string            `json:"terminal"`
	Gate      string            `json:"gate"`
	Scheduled string            `json:"scheduled"`
	Delay     common.RoundedInt `json:"delay"`
}

type nestedAirline struct {
	Name string `json:"name"`
	Iata string `json:"iata"`
	Icao string `json:"icao"`
}

type nestedFlight struct {
	Number     string `json:"number"`
	Iata       string `json:"iata"`
	Icao       string `json:"icao"`
	Codeshared *struct {
		AirlineIata  string `json:"airline_iata"`
		FlightNumber string `json:"flight_number"`
		FlightIata   string `json:"flight_iata"`
	} `json:"codeshared"`
}

// UnmarshalJSON accepts the flat schedule shape (dep_iata, delayed, ...) and
// the nested shape (departure.iata, arrival.delay, flight.number, ...).
// Flat fields win when both are present.
func (f *ProviderFlight) UnmarshalJSON(data []byte) error {
	var raw flatFlight
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := ProviderFlight{
		AirlineIata:    raw.AirlineIata,
		AirlineIcao:    raw.AirlineIcao,
		FlightIata:     raw.FlightIata,
		FlightIcao:     raw.FlightIcao,
		FlightNumber:   raw.FlightNumber,
		CsAirlineIata:  raw.CsAirlineIata,
		CsFlightIata:   raw.CsFlightIata,
		CsFlightNumber: raw.CsFlightNumber,
		DepIata:        raw.DepIata,
		DepIcao:        raw.DepIcao,
		DepTerminal:    raw.DepTerminal,
		DepGate:        raw.DepGate,
		DepTime:        firstNonEmpty(raw.DepTime, raw.ScheduledDeparture),
		DepTimeUtc:     raw.DepTimeUtc,
		ArrIata:        raw.ArrIata,
		ArrIcao:        raw.ArrIcao,
		ArrTerminal:    raw.ArrTerminal,
		ArrGate:        raw.ArrGate,
		ArrTime:        firstNonEmpty(raw.ArrTime, raw.ScheduledArrival),
		ArrTimeUtc:     raw.ArrTimeUtc,
		FlightDate:     raw.FlightDate,
		Status:         firstNonEmpty(raw.Status, raw.FlightStatus),
		Duration:       raw.Duration.Value,
		Delayed:        raw.Delayed.Ptr(),
		DepDelayed:     raw.DepDelayed.Ptr(),
		ArrDelayed:     raw.ArrDelayed.Ptr(),
	}

	if dep, ok := decodeObject[nestedEndpoint](raw.Departure); ok {
		out.DepIata = firstNonEmpty(out.DepIata, dep.Iata)
		out.DepIcao = firstNonEmpty(out.DepIcao, dep.Icao)
		out.DepAirport = dep.Airport
		out.DepTerminal = firstNonEmpty(out.DepTerminal, dep.Terminal)
		out.DepGate = firstNonEmpty(out.DepGate, dep.Gate)
		out.DepTime = firstNonEmpty(out.DepTime, dep.Scheduled)
		if out.DepDelayed == nil {
			out.DepDelayed = dep.Delay.Ptr()
		}
	}
	if arr, ok := decodeObject[nestedEndpoint](raw.Arrival); ok {
		out.ArrIata = firstNonEmpty(out.ArrIata, arr.Iata)
		out.ArrIcao = firstNonEmpty(out.ArrIcao, arr.Icao)
		out.ArrAirport = arr.Airport
		out.ArrTerminal = firstNonEmpty(out.ArrTerminal, arr.Terminal)
		out.ArrGate = firstNonEmpty(out.ArrGate, arr.Gate)
		out.ArrTime = firstNonEmpty(out.ArrTime, arr.Scheduled)
		if out.ArrDelayed == nil {
			out.ArrDelayed = arr.Delay.Ptr()
		}
	}
	if al, ok := decodeObject[nestedAirline](raw.Airline); ok {
		out.AirlineIata = firstNonEmpty(out.AirlineIata, al.Iata)
		out.AirlineIcao = firstNonEmpty(out.AirlineIcao, al.Icao)
	}
	if fl, ok := decodeObject[nestedFlight](raw.Flight); ok {
		out.FlightNumber = firstNonEmpty(out.FlightNumber, fl.Number)
		out.FlightIata = firstNonEmpty(out.FlightIata, fl.Iata)
		out.FlightIcao = firstNonEmpty(out.FlightIcao, fl.Icao)
		if cs := fl.Codeshared; cs != nil {
			out.CsAirlineIata = firstNonEmpty(out.CsAirlineIata, strings.ToUpper(cs.AirlineIata))
			out.CsFlightNumber = firstNonEmpty(out.CsFlightNumber, cs.FlightNumber)
			out.CsFlightIata = firstNonEmpty(out.CsFlightIata, strings.ToUpper(cs.FlightIata))
		}
	}

	out.DepTime = common.NormalizeTimestamp(out.DepTime)
	out.ArrTime = common.NormalizeTimestamp(out.ArrTime)
	out.DepTimeUtc = common.NormalizeTimestamp(out.DepTimeUtc)
	out.ArrTimeUtc = common.NormalizeTimestamp(out.ArrTimeUtc)

	*f = out
	return nil
}

// AggregateDelay picks the overall delay minutes: the provider's aggregate,
// then arrival, then departure delay.
func (f *ProviderFlight) AggregateDelay() int {
	for _, v := range []*int{f.Delayed, f.ArrDelayed, f.DepDelayed} {
		if v != nil {
			return *v
		}
	}
	return 0
}

// decodeObject decodes raw into T only when raw is a JSON object
func decodeObject[T any](raw json.RawMessage) (*T, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, false
	}
	return &v, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
