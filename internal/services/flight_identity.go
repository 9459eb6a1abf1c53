package services

import (
	"strings"
)

// FlightIdentity is the canonical form of an airline code + flight number pair
type FlightIdentity struct {
	AirlineIata  string
	FlightNumber string // without the airline prefix
	FlightIata   string
}

// ResolveFlightIdentity upper-cases both parts and strips the airline prefix
// from the number once, so ("AV", "AV43") and ("AV", "43") both give AV43.
func ResolveFlightIdentity(airlineIata, flightNumber string) FlightIdentity {
	airline := strings.ToUpper(strings.TrimSpace(airlineIata))
	number := strings.ToUpper(strings.TrimSpace(flightNumber))

	if airline != "" {
		number = strings.TrimPrefix(number, airline)
	}

	return FlightIdentity{
		AirlineIata:  airline,
		FlightNumber: number,
		FlightIata:   airline + number,
	}
}

// SplitFlightIata assumes a two letter airline prefix. Three letter ICAO
// style identifiers are split wrongly.
func SplitFlightIata(flightIata string) FlightIdentity {
	id := strings.ToUpper(strings.TrimSpace(flightIata))
	if len(id) <= 2 {
		return FlightIdentity{AirlineIata: id, FlightIata: id}
	}
	return FlightIdentity{
		AirlineIata:  id[:2],
		FlightNumber: id[2:],
		FlightIata:   id,
	}
}

// NormalizeFlightDate rewrites DD/MM/YYYY to YYYY-MM-DD by position only;
// the calendar is not validated. Other input is returned trimmed.
func NormalizeFlightDate(date string) string {
	date = strings.TrimSpace(date)
	if !strings.Contains(date, "/") {
		return date
	}
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}
