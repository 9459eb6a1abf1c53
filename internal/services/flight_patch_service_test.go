package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"infinite-experiment/flightvault/internal/common"
	"infinite-experiment/flightvault/internal/constants"
	"infinite-experiment/flightvault/internal/models/entities"
	"infinite-experiment/flightvault/internal/store"
)

func setupPatchService(t *testing.T) (*FlightPatchService, store.DocumentStore) {
	t.Helper()
	st := store.NewMemoryStore(nil)

	doc := entities.NewDocument()
	doc.FlightSchedules["AV43"] = entities.FlightScheduleRecord{
		AirlineIata: "AV", FlightIata: "AV43", FlightNumber: "43",
		DepIata: "JFK", DepTerminal: "1", DepGate: "7", DepTime: "2025-03-26 14:30", DepTimeUtc: "2025-03-26 18:30",
		ArrIata: "BOG", ArrTime: "2025-03-26 20:10", ArrTimeUtc: "2025-03-27 01:10",
		Duration: 340,
	}
	doc.FlightSchedules["BA117"] = entities.FlightScheduleRecord{
		FlightIata: "BA117", DepTime: "2025-03-26 20:15", ArrTime: "2025-03-27 08:20",
	}
	if !st.Save(context.Background(), doc) {
		t.Fatal("Failed to save fixture")
	}

	return NewFlightPatchService(st, common.FixedClock{At: testNow}), st
}

func wallClockDuration(t *testing.T, dep, arr string) time.Duration {
	t.Helper()
	d, err := common.ParseWallClock(dep)
	if err != nil {
		t.Fatalf("bad departure %q: %v", dep, err)
	}
	a, err := common.ParseWallClock(arr)
	if err != nil {
		t.Fatalf("bad arrival %q: %v", arr, err)
	}
	return a.Sub(d)
}

func TestShiftScheduleDate_PreservesDuration(t *testing.T) {
	svc, st := setupPatchService(t)
	ctx := context.Background()

	before := st.Load(ctx).FlightSchedules["BA117"]
	wantDuration := wallClockDuration(t, before.DepTime, before.ArrTime)

	for _, date := range []string{"2025-04-02", "2025-03-01", "2024-02-29", "2025-11-02"} {
		rec, err := svc.ShiftScheduleDate(ctx, "BA117", date)
		if err != nil {
			t.Fatalf("ShiftScheduleDate(%s): %v", date, err)
		}
		if rec.DepartureDate() != date {
			t.Errorf("Expected departure on %s, got %s", date, rec.DepTime)
		}
		if rec.DepTime[11:] != "20:15" {
			t.Errorf("Expected time of day kept, got %s", rec.DepTime)
		}
		if got := wallClockDuration(t, rec.DepTime, rec.ArrTime); got != wantDuration {
			t.Errorf("Expected duration %v, got %v", wantDuration, got)
		}
	}
}

func TestShiftScheduleDate_ShiftsUTCTimes(t *testing.T) {
	svc, st := setupPatchService(t)
	ctx := context.Background()

	rec, err := svc.ShiftScheduleDate(ctx, "av43", "27/03/2025")
	if err != nil {
		t.Fatalf("ShiftScheduleDate: %v", err)
	}
	if rec.DepTime != "2025-03-27 14:30" || rec.ArrTime != "2025-03-27 20:10" {
		t.Errorf("Unexpected local times %s / %s", rec.DepTime, rec.ArrTime)
	}
	if rec.DepTimeUtc != "2025-03-27 18:30" || rec.ArrTimeUtc != "2025-03-28 01:10" {
		t.Errorf("Unexpected UTC times %s / %s", rec.DepTimeUtc, rec.ArrTimeUtc)
	}

	stored := st.Load(ctx)
	if stored.FlightSchedules["AV43"].DepTime != "2025-03-27 14:30" {
		t.Error("Expected shift persisted")
	}
	if stored.Flights["AV43"].Departure.Scheduled != "2025-03-27 14:30" {
		t.Error("Expected public info refreshed")
	}

	// same date again is a no-op
	again, err := svc.ShiftScheduleDate(ctx, "AV43", "2025-03-27")
	if err != nil || again.DepTime != rec.DepTime || again.ArrTime != rec.ArrTime {
		t.Errorf("Expected idempotent shift, got %+v %v", again, err)
	}
}

func TestShiftScheduleDate_Errors(t *testing.T) {
	svc, _ := setupPatchService(t)
	ctx := context.Background()

	if _, err := svc.ShiftScheduleDate(ctx, "XX999", "2025-03-27"); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("Expected ErrScheduleNotFound, got %v", err)
	}
	if _, err := svc.ShiftScheduleDate(ctx, "AV43", "2025-13-40"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Expected ErrInvalidDate, got %v", err)
	}
	if _, err := svc.ShiftScheduleDate(ctx, "", "2025-03-27"); !errors.Is(err, ErrMissingField) {
		t.Errorf("Expected ErrMissingField, got %v", err)
	}
}

func TestUpsertDelay_StatusDerivation(t *testing.T) {
	svc, _ := setupPatchService(t)
	ctx := context.Background()

	for _, m := range []int{0, 1, 15, 120, 150, 600, 0} {
		rec, err := svc.UpsertDelay(ctx, "AV43", DelayPatch{Delayed: m})
		if err != nil {
			t.Fatalf("UpsertDelay(%d): %v", m, err)
		}
		want := constants.DelayStatusScheduled
		if m > 0 {
			want = constants.DelayStatusDelayed
		}
		if rec.Status != want {
			t.Errorf("minutes %d: expected %s, got %s", m, want, rec.Status)
		}
	}
}

func TestUpsertDelay_CreatesFromSchedule(t *testing.T) {
	svc, st := setupPatchService(t)
	ctx := context.Background()

	rec, err := svc.UpsertDelay(ctx, "AV43", DelayPatch{Delayed: 150, DepDelayed: 30, ArrDelayed: 150})
	if err != nil {
		t.Fatalf("UpsertDelay: %v", err)
	}
	if rec.DepIata != "JFK" || rec.DepGate != "7" || rec.ArrTime != "2025-03-26 20:10" || rec.FlightDate != "2025-03-26" {
		t.Errorf("Expected schedule fields copied, got %+v", rec)
	}

	doc := st.Load(ctx)
	if doc.FlightDelays["AV43"].Delayed != 150 {
		t.Error("Expected delay persisted")
	}
	if m, ok := entities.KnownMinutes(doc.FlightSchedules["AV43"].DepDelayed); !ok || m != 30 {
		t.Errorf("Expected schedule delay fields set, got %d %v", m, ok)
	}
}

func TestUpsertDelay_WithoutSchedule(t *testing.T) {
	svc, _ := setupPatchService(t)

	rec, err := svc.UpsertDelay(context.Background(), "dl300", DelayPatch{Delayed: 45})
	if err != nil {
		t.Fatalf("UpsertDelay: %v", err)
	}
	if rec.FlightIata != "DL300" || rec.DepIata != "" || rec.FlightDate != "2025-03-26" {
		t.Errorf("Unexpected record %+v", rec)
	}
}

func TestUpsertDelay_RejectsNegative(t *testing.T) {
	svc, st := setupPatchService(t)

	if _, err := svc.UpsertDelay(context.Background(), "AV43", DelayPatch{Delayed: -5}); !errors.Is(err, ErrInvalidDelay) {
		t.Errorf("Expected ErrInvalidDelay, got %v", err)
	}
	if _, ok := st.Load(context.Background()).FlightDelays["AV43"]; ok {
		t.Error("Expected nothing written")
	}
}
