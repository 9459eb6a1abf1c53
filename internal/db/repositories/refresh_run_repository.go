package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"infinite-experiment/flightvault/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// RefreshRunRepo handles refresh history operations
type RefreshRunRepo struct {
	db *gormlib.DB
}

func NewRefreshRunRepo(db *gormlib.DB) *RefreshRunRepo {
	return &RefreshRunRepo{db: db}
}

// RecordRun stores the outcome of the latest run of an event.
// One row per event; later runs overwrite the stats.
func (r *RefreshRunRepo) RecordRun(ctx context.Context, event string, stored int, failed []string) error {
	now := time.Now().UTC()

	run := gorm.RefreshRun{
		Event:           event,
		SchedulesStored: stored,
		FailedAirports:  strings.Join(failed, ","),
		LastRunAt:       &now,
	}

	return r.db.WithContext(ctx).
		Where("event = ?", event).
		// map so an empty run still overwrites the previous stats
		Assign(map[string]interface{}{
			"schedules_stored": stored,
			"failed_airports":  strings.Join(failed, ","),
			"last_run_at":      &now,
		}).
		FirstOrCreate(&run).Error
}

// LastRunAt returns when an event last completed, or nil if it never ran.
// Used to skip the startup refresh when a recent one exists.
func (r *RefreshRunRepo) LastRunAt(ctx context.Context, event string) (*time.Time, error) {
	var run gorm.RefreshRun

	err := r.db.WithContext(ctx).
		Where("event = ?", event).
		First(&run).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return run.LastRunAt, nil
}
