package jobs

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"infinite-experiment/flightvault/internal/common"
	"infinite-experiment/flightvault/internal/constants"
	"infinite-experiment/flightvault/internal/logging"
	"infinite-experiment/flightvault/internal/metrics"
	"infinite-experiment/flightvault/internal/models/dtos"
	"infinite-experiment/flightvault/internal/models/entities"
	"infinite-experiment/flightvault/internal/providers"
	"infinite-experiment/flightvault/internal/services"
	"infinite-experiment/flightvault/internal/store"
)

// maxConcurrentAirports bounds parallel schedule fetches
const maxConcurrentAirports = 3

// RefreshHistory remembers when refresh events last completed.
// Implemented by repositories.RefreshRunRepo for the relational stores.
type RefreshHistory interface {
	RecordRun(ctx context.Context, event string, stored int, failed []string) error
	LastRunAt(ctx context.Context, event string) (*time.Time, error)
}

// RefreshReport describes one bulk refresh
type RefreshReport struct {
	Date            string
	Airports        []string
	FailedAirports  []string
	SchedulesStored int
}

// ScheduleRefreshJob reloads today's departures of every hub airport into the schedule cache
type ScheduleRefreshJob struct {
	store    store.DocumentStore
	provider providers.FlightDataProvider
	clock    common.Clock
	hubs     []string
	history  RefreshHistory
	metrics  *metrics.MetricsRegistry
}

func NewScheduleRefreshJob(
	st store.DocumentStore,
	provider providers.FlightDataProvider,
	hubs []string,
	clock common.Clock,
	history RefreshHistory,
	m *metrics.MetricsRegistry,
) *ScheduleRefreshJob {
	if clock == nil {
		clock = common.NewSystemClock()
	}
	return &ScheduleRefreshJob{
		store:    st,
		provider: provider,
		clock:    clock,
		hubs:     hubs,
		history:  history,
		metrics:  m,
	}
}

// Run fetches every hub and writes all results in one update. Airports that
// fail are reported and skipped; only a failed store write is an error.
func (j *ScheduleRefreshJob) Run(ctx context.Context) (RefreshReport, error) {
	start := time.Now()
	report := RefreshReport{
		Date:     common.Today(j.clock),
		Airports: j.hubs,
	}
	logging.Info("[ScheduleRefreshJob] Starting schedule refresh", "date", report.Date, "airports", len(j.hubs))

	results := make([][]dtos.ProviderFlight, len(j.hubs))
	failed := make([]bool, len(j.hubs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentAirports)
	for i, airport := range j.hubs {
		g.Go(func() error {
			flights, err := j.provider.ScheduleByAirport(gctx, airport, report.Date, constants.DefaultDirection)
			if err != nil {
				logging.Warn("[ScheduleRefreshJob] Error fetching schedules", "airport", airport, "error", err.Error())
				failed[i] = true
				return nil
			}
			logging.Debug("[ScheduleRefreshJob] Fetched schedules", "airport", airport, "flights", len(flights))
			results[i] = flights
			return nil
		})
	}
	g.Wait()

	for i, airport := range j.hubs {
		if failed[i] {
			report.FailedAirports = append(report.FailedAirports, airport)
		}
	}

	now := j.clock.Now()
	err := j.store.Update(ctx, func(doc *entities.Document) error {
		report.SchedulesStored = 0
		for _, flights := range results {
			for _, f := range flights {
				if f.FlightIata == "" {
					continue
				}
				services.PutSchedule(doc, f.FlightIata, services.ScheduleFromProvider(f, report.Date, now))
				report.SchedulesStored++
			}
		}
		return nil
	})

	j.observe(start, report)
	if err != nil {
		logging.Error("[ScheduleRefreshJob] Failed to save schedules", "error", err.Error())
		return report, err
	}

	if j.history != nil {
		if err := j.history.RecordRun(ctx, constants.RefreshEventSchedules, report.SchedulesStored, report.FailedAirports); err != nil {
			logging.Warn("[ScheduleRefreshJob] Failed to record refresh history", "error", err.Error())
		}
	}

	logging.Info("[ScheduleRefreshJob] Completed schedule refresh",
		"stored", report.SchedulesStored,
		"failed_airports", report.FailedAirports,
		"duration", time.Since(start).Truncate(time.Millisecond).String())
	return report, nil
}

// RunScheduled repeats Run every interval until ctx is cancelled
func (j *ScheduleRefreshJob) RunScheduled(ctx context.Context, interval time.Duration, runOnStartup bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if runOnStartup && j.shouldRunInitialRefresh(ctx, interval) {
		if _, err := j.Run(ctx); err != nil {
			logging.Error("[ScheduleRefreshJob] Error in initial run", "error", err.Error())
		}
	}

	for {
		select {
		case <-ticker.C:
			if _, err := j.Run(ctx); err != nil {
				logging.Error("[ScheduleRefreshJob] Error in scheduled run", "error", err.Error())
			}
		case <-ctx.Done():
			logging.Info("[ScheduleRefreshJob] Shutting down scheduled refresh")
			return
		}
	}
}

// shouldRunInitialRefresh skips the startup run when the last one is younger than interval
func (j *ScheduleRefreshJob) shouldRunInitialRefresh(ctx context.Context, interval time.Duration) bool {
	if j.history == nil {
		return true
	}

	last, err := j.history.LastRunAt(ctx, constants.RefreshEventSchedules)
	if err != nil {
		logging.Warn("[ScheduleRefreshJob] Error checking last refresh time, running anyway", "error", err.Error())
		return true
	}
	if last == nil {
		logging.Info("[ScheduleRefreshJob] No previous refresh found, running initial refresh")
		return true
	}

	since := j.clock.Now().Sub(*last)
	if since > interval {
		return true
	}

	logging.Info("[ScheduleRefreshJob] Skipping initial refresh", "last_run_ago", since.Truncate(time.Minute).String())
	return false
}

func (j *ScheduleRefreshJob) observe(start time.Time, report RefreshReport) {
	if j.metrics == nil {
		return
	}
	j.metrics.FlightsRefreshedTotal.Add(float64(report.SchedulesStored))
	j.metrics.SyncJobDuration.WithLabelValues(constants.RefreshEventSchedules).Observe(time.Since(start).Seconds())
}
