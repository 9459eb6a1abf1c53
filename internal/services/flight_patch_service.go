package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oapi-codegen/nullable"

	"infinite-experiment/flightvault/internal/common"
	"infinite-experiment/flightvault/internal/constants"
	"infinite-experiment/flightvault/internal/logging"
	"infinite-experiment/flightvault/internal/models/entities"
	"infinite-experiment/flightvault/internal/store"
)

// DelayPatch carries operator supplied delay minutes
type DelayPatch struct {
	Delayed    int
	DepDelayed int
	ArrDelayed int
}

// FlightPatchService applies administrative corrections to cached records
type FlightPatchService struct {
	store store.DocumentStore
	clock common.Clock
}

func NewFlightPatchService(st store.DocumentStore, clock common.Clock) *FlightPatchService {
	if clock == nil {
		clock = common.NewSystemClock()
	}
	return &FlightPatchService{store: st, clock: clock}
}

// ShiftScheduleDate moves a cached schedule to newDate. Departure keeps its
// time of day and arrival moves by the same amount, so the duration holds.
// Times are shifted as written, without any time zone.
func (s *FlightPatchService) ShiftScheduleDate(ctx context.Context, flightIata, newDate string) (*entities.FlightScheduleRecord, error) {
	key := strings.ToUpper(strings.TrimSpace(flightIata))
	newDate = NormalizeFlightDate(newDate)
	if key == "" || newDate == "" {
		return nil, ErrMissingField
	}

	target, err := time.Parse(constants.DateLayout, newDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	var updated entities.FlightScheduleRecord
	err = s.store.Update(ctx, func(doc *entities.Document) error {
		rec, ok := doc.FlightSchedules[key]
		if !ok {
			return ErrScheduleNotFound
		}

		dep, err := common.ParseWallClock(rec.DepTime)
		if err != nil {
			return fmt.Errorf("cannot shift departure time of %s: %w", key, err)
		}
		newDep := time.Date(target.Year(), target.Month(), target.Day(), dep.Hour(), dep.Minute(), 0, 0, time.UTC)
		delta := newDep.Sub(dep)

		rec.DepTime = newDep.Format(common.WallClockLayout)
		rec.ArrTime = shiftTimestamp(rec.ArrTime, delta)
		rec.DepTimeUtc = shiftTimestamp(rec.DepTimeUtc, delta)
		rec.ArrTimeUtc = shiftTimestamp(rec.ArrTimeUtc, delta)
		rec.UpdatedAt = s.clock.Now()

		PutSchedule(doc, key, rec)
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Info("[FlightPatch] Schedule date shifted", "flight", key, "departure", updated.DepTime, "arrival", updated.ArrTime)
	return &updated, nil
}

// UpsertDelay sets the delay minutes of a flight, creating the delay record
// from the cached schedule when there is none yet.
func (s *FlightPatchService) UpsertDelay(ctx context.Context, flightIata string, patch DelayPatch) (*entities.FlightDelayRecord, error) {
	id := SplitFlightIata(flightIata)
	if id.FlightIata == "" {
		return nil, ErrMissingField
	}
	if patch.Delayed < 0 || patch.DepDelayed < 0 || patch.ArrDelayed < 0 {
		return nil, ErrInvalidDelay
	}

	var updated entities.FlightDelayRecord
	err := s.store.Update(ctx, func(doc *entities.Document) error {
		sched, hasSchedule := doc.FlightSchedules[id.FlightIata]

		rec, ok := doc.FlightDelays[id.FlightIata]
		if !ok {
			var src *entities.FlightScheduleRecord
			if hasSchedule {
				src = &sched
			}
			rec = delayFromSchedule(id, src, common.Today(s.clock))
		}

		rec.ApplyDelay(patch.Delayed, patch.DepDelayed, patch.ArrDelayed)
		rec.UpdatedAt = s.clock.Now()
		doc.FlightDelays[id.FlightIata] = rec

		if hasSchedule {
			sched.Delayed = nullable.NewNullableWithValue(patch.Delayed)
			sched.DepDelayed = nullable.NewNullableWithValue(patch.DepDelayed)
			sched.ArrDelayed = nullable.NewNullableWithValue(patch.ArrDelayed)
			doc.FlightSchedules[id.FlightIata] = sched
		}

		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Info("[FlightPatch] Delay updated", "flight", id.FlightIata, "delayed", updated.Delayed, "status", updated.Status)
	return &updated, nil
}

// shiftTimestamp moves a wall-clock timestamp by delta; unparseable values are kept
func shiftTimestamp(ts string, delta time.Duration) string {
	if ts == "" {
		return ts
	}
	t, err := common.ParseWallClock(ts)
	if err != nil {
		return ts
	}
	return t.Add(delta).Format(common.WallClockLayout)
}
