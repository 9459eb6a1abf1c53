package services

import (
	"strings"
	"time"

	"github.com/oapi-codegen/nullable"

	"infinite-experiment/flightvault/internal/models/dtos"
	"infinite-experiment/flightvault/internal/models/entities"
)

// matchFlight scans a schedule for the requested flight. Each record is tried
// as the operating flight first, then as a codeshare; the first hit wins.
func matchFlight(flights []dtos.ProviderFlight, id FlightIdentity) *dtos.ProviderFlight {
	for i := range flights {
		f := &flights[i]

		if strings.EqualFold(f.AirlineIata, id.AirlineIata) &&
			(strings.EqualFold(f.FlightNumber, id.FlightNumber) || strings.EqualFold(f.FlightIata, id.FlightIata)) {
			return f
		}

		if f.CsAirlineIata != "" && strings.EqualFold(f.CsAirlineIata, id.AirlineIata) &&
			(strings.EqualFold(f.CsFlightNumber, id.FlightNumber) || strings.EqualFold(f.CsFlightIata, id.FlightIata)) {
			return f
		}
	}
	return nil
}

// matchDelay picks the delay record for the flight. Records without any
// identity fields are accepted since the query was already by flight.
func matchDelay(flights []dtos.ProviderFlight, id FlightIdentity) *dtos.ProviderFlight {
	if m := matchFlight(flights, id); m != nil {
		return m
	}
	for i := range flights {
		if flights[i].FlightIata == "" && flights[i].FlightNumber == "" {
			return &flights[i]
		}
	}
	return nil
}

// ScheduleFromProvider maps a provider flight into a cached schedule record.
// date is used when the provider gives no departure time.
func ScheduleFromProvider(f dtos.ProviderFlight, date string, now time.Time) entities.FlightScheduleRecord {
	rec := entities.FlightScheduleRecord{
		AirlineIata:    f.AirlineIata,
		AirlineIcao:    f.AirlineIcao,
		FlightIata:     f.FlightIata,
		FlightIcao:     f.FlightIcao,
		FlightNumber:   f.FlightNumber,
		CsAirlineIata:  f.CsAirlineIata,
		CsFlightIata:   f.CsFlightIata,
		CsFlightNumber: f.CsFlightNumber,
		DepIata:        f.DepIata,
		DepIcao:        f.DepIcao,
		DepAirport:     f.DepAirport,
		DepTerminal:    f.DepTerminal,
		DepGate:        f.DepGate,
		DepTime:        f.DepTime,
		DepTimeUtc:     f.DepTimeUtc,
		ArrIata:        f.ArrIata,
		ArrIcao:        f.ArrIcao,
		ArrAirport:     f.ArrAirport,
		ArrTerminal:    f.ArrTerminal,
		ArrGate:        f.ArrGate,
		ArrTime:        f.ArrTime,
		ArrTimeUtc:     f.ArrTimeUtc,
		Status:         f.Status,
		Duration:       f.Duration,
		Delayed:        nullableMinutes(f.Delayed),
		DepDelayed:     nullableMinutes(f.DepDelayed),
		ArrDelayed:     nullableMinutes(f.ArrDelayed),
		UpdatedAt:      now,
	}

	// keep the record dated even when the provider omits the departure time
	if rec.DepTime == "" {
		rec.DepTime = f.FlightDate
		if rec.DepTime == "" {
			rec.DepTime = date
		}
	}
	if rec.Status == "" {
		rec.Status = "scheduled"
	}
	return rec
}

func delayFromProvider(f dtos.ProviderFlight, id FlightIdentity, date string, now time.Time) entities.FlightDelayRecord {
	rec := entities.FlightDelayRecord{
		FlightIata:     id.FlightIata,
		AirlineIata:    id.AirlineIata,
		FlightNumber:   id.FlightNumber,
		FlightDate:     date,
		DepIata:        f.DepIata,
		DepTerminal:    f.DepTerminal,
		DepGate:        f.DepGate,
		DepTime:        f.DepTime,
		DepTimeUtc:     f.DepTimeUtc,
		ArrIata:        f.ArrIata,
		ArrTerminal:    f.ArrTerminal,
		ArrGate:        f.ArrGate,
		ArrTime:        f.ArrTime,
		ArrTimeUtc:     f.ArrTimeUtc,
		ProviderStatus: f.Status,
		UpdatedAt:      now,
	}
	rec.ApplyDelay(clampMinutes(f.AggregateDelay()), minutesOrZero(f.DepDelayed), minutesOrZero(f.ArrDelayed))
	return rec
}

// delayFromSchedule starts a delay record from what the schedule already knows
func delayFromSchedule(id FlightIdentity, sched *entities.FlightScheduleRecord, fallbackDate string) entities.FlightDelayRecord {
	rec := entities.FlightDelayRecord{
		FlightIata:   id.FlightIata,
		AirlineIata:  id.AirlineIata,
		FlightNumber: id.FlightNumber,
		FlightDate:   fallbackDate,
	}
	if sched != nil {
		mergeSchedule(&rec, sched)
		if d := sched.DepartureDate(); d != "" {
			rec.FlightDate = d
		}
	}
	return rec
}

// mergeSchedule fills empty airport and time fields from the cached schedule
func mergeSchedule(rec *entities.FlightDelayRecord, sched *entities.FlightScheduleRecord) {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&rec.AirlineIata, sched.AirlineIata)
	fill(&rec.FlightNumber, sched.FlightNumber)
	fill(&rec.DepIata, sched.DepIata)
	fill(&rec.DepTerminal, sched.DepTerminal)
	fill(&rec.DepGate, sched.DepGate)
	fill(&rec.DepTime, sched.DepTime)
	fill(&rec.DepTimeUtc, sched.DepTimeUtc)
	fill(&rec.ArrIata, sched.ArrIata)
	fill(&rec.ArrTerminal, sched.ArrTerminal)
	fill(&rec.ArrGate, sched.ArrGate)
	fill(&rec.ArrTime, sched.ArrTime)
	fill(&rec.ArrTimeUtc, sched.ArrTimeUtc)
}

// flightInfoFromSchedule maps a cached schedule into the public shape.
// The airport falls back to ICAO then IATA when the provider gave no name.
func flightInfoFromSchedule(flightIata string, rec *entities.FlightScheduleRecord) entities.FlightInfo {
	return entities.FlightInfo{
		FlightIata:   flightIata,
		AirlineIata:  rec.AirlineIata,
		FlightNumber: rec.FlightNumber,
		Departure: entities.FlightEndpoint{
			Airport:   firstNonEmpty(rec.DepAirport, rec.DepIcao, rec.DepIata),
			Iata:      rec.DepIata,
			Scheduled: rec.DepTime,
		},
		Arrival: entities.FlightEndpoint{
			Airport:   firstNonEmpty(rec.ArrAirport, rec.ArrIcao, rec.ArrIata),
			Iata:      rec.ArrIata,
			Scheduled: rec.ArrTime,
		},
		Status:   rec.Status,
		Verified: true,
	}
}

// PutSchedule writes a schedule and mirrors its public view into flights
func PutSchedule(doc *entities.Document, flightIata string, rec entities.FlightScheduleRecord) {
	doc.FlightSchedules[flightIata] = rec
	doc.Flights[flightIata] = flightInfoFromSchedule(flightIata, &rec)
}

func nullableMinutes(v *int) nullable.Nullable[int] {
	if v == nil {
		return nil
	}
	return nullable.NewNullableWithValue(clampMinutes(*v))
}

func minutesOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return clampMinutes(*v)
}

// early arrivals come back negative; delays are never below zero
func clampMinutes(m int) int {
	if m < 0 {
		return 0
	}
	return m
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
