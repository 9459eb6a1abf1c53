package jobs

import (
	"context"
	"time"

	"infinite-experiment/flightvault/internal/common"
	"infinite-experiment/flightvault/internal/constants"
	"infinite-experiment/flightvault/internal/logging"
	"infinite-experiment/flightvault/internal/metrics"
	"infinite-experiment/flightvault/internal/models/dtos"
	"infinite-experiment/flightvault/internal/services"
)

// WarmupJob fills the cache in one go: airlines, hub schedules, then the
// delays of a few sample flights. Every step is best effort.
type WarmupJob struct {
	flights *services.FlightDataService
	refresh *ScheduleRefreshJob
	samples []string
	clock   common.Clock
	metrics *metrics.MetricsRegistry
}

func NewWarmupJob(
	flights *services.FlightDataService,
	refresh *ScheduleRefreshJob,
	samples []string,
	clock common.Clock,
	m *metrics.MetricsRegistry,
) *WarmupJob {
	if clock == nil {
		clock = common.NewSystemClock()
	}
	return &WarmupJob{
		flights: flights,
		refresh: refresh,
		samples: samples,
		clock:   clock,
		metrics: m,
	}
}

// Run performs a full warm-up, always refreshing the hub schedules
func (j *WarmupJob) Run(ctx context.Context) dtos.WarmupReport {
	return j.run(ctx, true)
}

// RunAtStartup is the boot-time warm-up. The hub refresh is skipped when the
// refresh history shows a run younger than interval; the scheduler must then
// be started without its own startup run.
func (j *WarmupJob) RunAtStartup(ctx context.Context, interval time.Duration) dtos.WarmupReport {
	return j.run(ctx, j.refresh.shouldRunInitialRefresh(ctx, interval))
}

func (j *WarmupJob) run(ctx context.Context, refreshSchedules bool) dtos.WarmupReport {
	start := time.Now()
	logging.Info("[WarmupJob] Starting cache warm-up", "refresh_schedules", refreshSchedules)

	report := dtos.WarmupReport{FailedAirports: []string{}}

	airlines, err := j.flights.GetAirlines(ctx)
	if err != nil {
		logging.Warn("[WarmupJob] Airline fetch failed", "error", err.Error())
	}
	report.Airlines = len(airlines)

	if refreshSchedules {
		refresh, err := j.refresh.Run(ctx)
		if err != nil {
			logging.Warn("[WarmupJob] Schedule refresh failed", "error", err.Error())
		}
		report.SchedulesStored = refresh.SchedulesStored
		if len(refresh.FailedAirports) > 0 {
			report.FailedAirports = refresh.FailedAirports
		}
	}

	today := common.Today(j.clock)
	for _, flightIata := range j.samples {
		id := services.SplitFlightIata(flightIata)
		result, err := j.flights.CheckFlightDelay(ctx, id.AirlineIata, id.FlightNumber, today)
		if err != nil {
			logging.Warn("[WarmupJob] Skipping sample flight", "flight", flightIata, "error", err.Error())
			continue
		}
		report.DelaysChecked++
		logging.Debug("[WarmupJob] Sample delay", "flight", id.FlightIata, "status", result.FlightStatus, "minutes", result.DelayMinutes)
	}

	report.ResponseTime = common.GetResponseTime(start)
	if j.metrics != nil {
		j.metrics.SyncJobDuration.WithLabelValues(constants.RefreshEventWarmup).Observe(time.Since(start).Seconds())
	}

	logging.Info("[WarmupJob] Completed cache warm-up",
		"airlines", report.Airlines,
		"schedules", report.SchedulesStored,
		"delays_checked", report.DelaysChecked,
		"duration", report.ResponseTime)
	return report
}
