package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/oapi-codegen/nullable"

	"infinite-experiment/flightvault/internal/models/entities"
	"infinite-experiment/flightvault/internal/store"
)

type CleanupFunc = func()

type StoreFactory func(t *testing.T) (store.DocumentStore, CleanupFunc)

// RunDocumentStore exercises the behavior every backend must share
func RunDocumentStore(t *testing.T, newStore StoreFactory) {
	t.Helper()

	t.Run("EmptyLoad", func(t *testing.T) {
		st := open(t, newStore)
		doc := st.Load(context.Background())
		if doc == nil {
			t.Fatal("expected a document, got nil")
		}
		if doc.Airlines == nil || doc.Flights == nil || doc.FlightDelays == nil || doc.FlightSchedules == nil {
			t.Fatalf("expected all collections initialized, got %+v", doc)
		}
	})

	t.Run("SaveThenLoad", func(t *testing.T) {
		st := open(t, newStore)
		ctx := context.Background()

		doc := entities.NewDocument()
		doc.Airlines = append(doc.Airlines, entities.Airline{Name: "Avianca", IataCode: "AV", IsCargo: entities.TriStateUnknown})
		doc.FlightSchedules["AV43"] = entities.FlightScheduleRecord{
			AirlineIata:  "AV",
			FlightIata:   "AV43",
			FlightNumber: "43",
			DepTime:      "2025-03-26 14:30",
			Delayed:      nullable.NewNullableWithValue(150),
		}

		if !st.Save(ctx, doc) {
			t.Fatal("Save returned false")
		}

		got := st.Load(ctx)
		if len(got.Airlines) != 1 || got.Airlines[0].IataCode != "AV" {
			t.Fatalf("unexpected airlines: %+v", got.Airlines)
		}
		rec, ok := got.FlightSchedules["AV43"]
		if !ok {
			t.Fatal("expected AV43 schedule")
		}
		if rec.DepartureDate() != "2025-03-26" {
			t.Errorf("expected departure date 2025-03-26, got %s", rec.DepartureDate())
		}
		if m, known := entities.KnownMinutes(rec.Delayed); !known || m != 150 {
			t.Errorf("expected delayed 150, got %d (known=%v)", m, known)
		}
		if _, known := entities.KnownMinutes(rec.ArrDelayed); known {
			t.Error("expected arrival delay to stay unknown")
		}

		// overwrite
		doc.FlightSchedules = map[string]entities.FlightScheduleRecord{}
		if !st.Save(ctx, doc) {
			t.Fatal("second Save returned false")
		}
		if n := len(st.Load(ctx).FlightSchedules); n != 0 {
			t.Errorf("expected schedules replaced, got %d", n)
		}
	})

	t.Run("UpdateAbortsOnError", func(t *testing.T) {
		st := open(t, newStore)
		ctx := context.Background()
		boom := errors.New("boom")

		err := st.Update(ctx, func(doc *entities.Document) error {
			doc.FlightSchedules["AA100"] = entities.FlightScheduleRecord{FlightIata: "AA100"}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected callback error, got %v", err)
		}
		if _, ok := st.Load(ctx).FlightSchedules["AA100"]; ok {
			t.Error("expected aborted update not to be written")
		}
	})

	t.Run("ConcurrentUpdates", func(t *testing.T) {
		st := open(t, newStore)
		ctx := context.Background()

		keys := []string{"AA100", "UA200", "DL300", "AV43", "BA117", "AF11"}
		var wg sync.WaitGroup
		errs := make(chan error, len(keys))
		for _, key := range keys {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				errs <- st.Update(ctx, func(doc *entities.Document) error {
					doc.FlightDelays[key] = entities.FlightDelayRecord{FlightIata: key}
					return nil
				})
			}(key)
		}
		wg.Wait()
		close(errs)

		failed := 0
		for err := range errs {
			if err != nil {
				if !errors.Is(err, store.ErrConflict) {
					t.Fatalf("unexpected update error: %v", err)
				}
				failed++
			}
		}

		got := st.Load(ctx)
		if len(got.FlightDelays) != len(keys)-failed {
			t.Errorf("expected %d delay records, got %d", len(keys)-failed, len(got.FlightDelays))
		}
	})

	t.Run("Ping", func(t *testing.T) {
		st := open(t, newStore)
		if err := st.Ping(context.Background()); err != nil {
			t.Errorf("Ping: %v", err)
		}
		if st.Driver() == "" {
			t.Error("expected a driver name")
		}
	})
}

func open(t *testing.T, newStore StoreFactory) store.DocumentStore {
	t.Helper()
	st, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}
	return st
}
