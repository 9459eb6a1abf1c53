package jobs

import (
	"context"

	"infinite-experiment/flightvault/internal/config"
	"infinite-experiment/flightvault/internal/logging"
)

// InitializeJobs starts the background jobs
func InitializeJobs(ctx context.Context, refreshJob *ScheduleRefreshJob, cfg config.RefreshConfig) {
	if cfg.Interval <= 0 {
		logging.Warn("[Jobs] Scheduled refresh disabled: no interval configured")
		return
	}

	go refreshJob.RunScheduled(ctx, cfg.Interval, cfg.RunOnStartup)
}
