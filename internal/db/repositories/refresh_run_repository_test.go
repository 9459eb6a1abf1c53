package repositories

import (
	"context"
	"testing"

	"infinite-experiment/flightvault/internal/db"
	"infinite-experiment/flightvault/internal/models/gorm"
)

func TestRefreshRunRepo_RecordRunOverwritesStats(t *testing.T) {
	gdb, err := db.InitSQLiteORM(":memory:")
	if err != nil {
		t.Fatalf("InitSQLiteORM: %v", err)
	}
	repo := NewRefreshRunRepo(gdb)
	ctx := context.Background()

	if err := repo.RecordRun(ctx, "schedule_refresh", 10, []string{"CDG"}); err != nil {
		t.Fatalf("First RecordRun failed: %v", err)
	}
	first, err := repo.LastRunAt(ctx, "schedule_refresh")
	if err != nil || first == nil {
		t.Fatalf("Expected first run recorded, got %v %v", first, err)
	}

	if err := repo.RecordRun(ctx, "schedule_refresh", 0, nil); err != nil {
		t.Fatalf("Second RecordRun failed: %v", err)
	}

	var runs []gorm.RefreshRun
	if err := gdb.Where("event = ?", "schedule_refresh").Find(&runs).Error; err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected one row per event, got %d", len(runs))
	}
	if runs[0].SchedulesStored != 0 || runs[0].FailedAirports != "" {
		t.Errorf("Expected empty run to reset stats, got stored=%d failed=%q", runs[0].SchedulesStored, runs[0].FailedAirports)
	}
	if runs[0].LastRunAt == nil || runs[0].LastRunAt.Before(*first) {
		t.Errorf("Expected last run time to advance, got %v (first %v)", runs[0].LastRunAt, *first)
	}
}

func TestRefreshRunRepo_LastRunAtNeverRan(t *testing.T) {
	gdb, err := db.InitSQLiteORM(":memory:")
	if err != nil {
		t.Fatalf("InitSQLiteORM: %v", err)
	}

	last, err := NewRefreshRunRepo(gdb).LastRunAt(context.Background(), "warmup")
	if err != nil || last != nil {
		t.Errorf("Expected nil for an event that never ran, got %v %v", last, err)
	}
}
