package store

import (
	"context"
	"time"

	"github.com/oapi-codegen/nullable"

	"infinite-experiment/flightvault/internal/config"
	"infinite-experiment/flightvault/internal/logging"
	"infinite-experiment/flightvault/internal/models/entities"
)

// SeedData holds fixture records inserted at bootstrap
type SeedData struct {
	Airlines  []entities.Airline
	Schedules map[string]entities.FlightScheduleRecord
	Delays    map[string]entities.FlightDelayRecord
}

// DemoSeed builds the fixture for the configured demo flight: a JFK to BOG
// departure on the demo date with its known delay.
func DemoSeed(demo config.DemoConfig) SeedData {
	if !demo.Enabled || demo.FlightIata == "" || demo.Date == "" {
		return SeedData{}
	}

	flightIata := demo.FlightIata
	airline, number := flightIata, ""
	if len(flightIata) > 2 {
		airline, number = flightIata[:2], flightIata[2:]
	}

	depTime := demo.Date + " 14:30"
	arrTime := demo.Date + " 20:10"
	arrDelay := demo.DelayMinutes

	schedule := entities.FlightScheduleRecord{
		AirlineIata:  airline,
		FlightIata:   flightIata,
		FlightNumber: number,
		DepIata:      "JFK",
		DepAirport:   "John F Kennedy International",
		DepTerminal:  "1",
		DepTime:      depTime,
		DepTimeUtc:   demo.Date + " 18:30",
		ArrIata:      "BOG",
		ArrAirport:   "El Dorado International",
		ArrTerminal:  "1",
		ArrTime:      arrTime,
		Status:       "scheduled",
		Duration:     340,
		Delayed:      nullable.NewNullableWithValue(demo.DelayMinutes),
		DepDelayed:   nullable.NewNullableWithValue(demo.DepDelayMinutes),
		ArrDelayed:   nullable.NewNullableWithValue(arrDelay),
	}
	// arrival in UTC lands on the next day
	if t, err := time.Parse("2006-01-02", demo.Date); err == nil {
		schedule.ArrTimeUtc = t.AddDate(0, 0, 1).Format("2006-01-02") + " 01:10"
	}

	delay := entities.FlightDelayRecord{
		FlightIata:   flightIata,
		AirlineIata:  airline,
		FlightNumber: number,
		FlightDate:   demo.Date,
		DepIata:      schedule.DepIata,
		DepTerminal:  schedule.DepTerminal,
		DepTime:      depTime,
		DepTimeUtc:   schedule.DepTimeUtc,
		ArrIata:      schedule.ArrIata,
		ArrTerminal:  schedule.ArrTerminal,
		ArrTime:      arrTime,
		ArrTimeUtc:   schedule.ArrTimeUtc,
	}
	delay.ApplyDelay(demo.DelayMinutes, demo.DepDelayMinutes, arrDelay)

	return SeedData{
		Airlines: []entities.Airline{{
			Name:        "Avianca",
			CountryCode: "CO",
			IataCode:    airline,
			IcaoCode:    "AVA",
			IsPassenger: entities.TriStateTrue,
			IsCargo:     entities.TriStateUnknown,
		}},
		Schedules: map[string]entities.FlightScheduleRecord{flightIata: schedule},
		Delays:    map[string]entities.FlightDelayRecord{flightIata: delay},
	}
}

// Seed inserts fixtures that are not already present. Existing records are
// never overwritten, so running it on every boot is safe.
func Seed(ctx context.Context, st DocumentStore, seed SeedData) error {
	if len(seed.Airlines) == 0 && len(seed.Schedules) == 0 && len(seed.Delays) == 0 {
		return nil
	}

	inserted := 0
	err := st.Update(ctx, func(doc *entities.Document) error {
		inserted = 0
		now := time.Now().UTC()

		known := make(map[string]bool, len(doc.Airlines))
		for _, a := range doc.Airlines {
			known[a.IataCode] = true
		}
		for _, a := range seed.Airlines {
			if !known[a.IataCode] {
				doc.Airlines = append(doc.Airlines, a)
				inserted++
			}
		}

		for key, rec := range seed.Schedules {
			if _, ok := doc.FlightSchedules[key]; ok {
				continue
			}
			rec.UpdatedAt = now
			doc.FlightSchedules[key] = rec
			inserted++
		}
		for key, rec := range seed.Delays {
			if _, ok := doc.FlightDelays[key]; ok {
				continue
			}
			rec.UpdatedAt = now
			doc.FlightDelays[key] = rec
			inserted++
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.Info("[Seed] Fixtures applied", "inserted", inserted, "driver", st.Driver())
	return nil
}
