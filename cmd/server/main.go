package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"infinite-experiment/flightvault/internal/api"
	"infinite-experiment/flightvault/internal/common"
	"infinite-experiment/flightvault/internal/config"
	"infinite-experiment/flightvault/internal/db/repositories"
	"infinite-experiment/flightvault/internal/jobs"
	"infinite-experiment/flightvault/internal/logging"
	"infinite-experiment/flightvault/internal/metrics"
	"infinite-experiment/flightvault/internal/providers"
	"infinite-experiment/flightvault/internal/routes"
	"infinite-experiment/flightvault/internal/services"
	"infinite-experiment/flightvault/internal/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	if err := cfg.Validate(); err != nil {
		logging.Error("Invalid configuration", "error", err.Error())
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	logging.Info("Flightvault starting up",
		"environment", cfg.AppEnv,
		"store_driver", cfg.Store.Driver,
		"hub_airports", cfg.Refresh.HubAirports,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	st, gdb, err := store.Open(ctx, cfg.Store, metricsReg)
	if err != nil {
		logging.Error("Failed to open document store", "driver", cfg.Store.Driver, "error", err.Error())
		log.Fatalf("❌ Failed to open %s store: %v", cfg.Store.Driver, err)
	}
	defer st.Close()

	if err := store.Seed(ctx, st, store.DemoSeed(cfg.Demo)); err != nil {
		logging.Warn("Failed to seed demo fixtures", "error", err.Error())
	}

	clock := common.NewSystemClock()
	provider := providers.NewFlightLabsProvider(cfg.Provider, metricsReg)

	flightSvc := services.NewFlightDataService(st, provider, cfg, clock, metricsReg)
	patchSvc := services.NewFlightPatchService(st, clock)

	// run history only exists on the relational stores
	var history jobs.RefreshHistory
	if gdb != nil {
		history = repositories.NewRefreshRunRepo(gdb)
	}

	refreshJob := jobs.NewScheduleRefreshJob(st, provider, cfg.Refresh.HubAirports, clock, history, metricsReg)
	warmupJob := jobs.NewWarmupJob(flightSvc, refreshJob, cfg.Refresh.SampleFlights, clock, metricsReg)

	// the startup warm-up owns the first refresh
	schedCfg := cfg.Refresh
	schedCfg.RunOnStartup = false
	jobs.InitializeJobs(ctx, refreshJob, schedCfg)

	if cfg.Refresh.RunOnStartup {
		go func() {
			report := warmupJob.RunAtStartup(ctx, cfg.Refresh.Interval)
			logging.Info("[Startup] Initial fetch finished",
				"airlines", report.Airlines,
				"schedules", report.SchedulesStored,
				"failed_airports", report.FailedAirports,
				"response_time", report.ResponseTime,
			)
		}()
	}

	deps := &api.Dependencies{
		Config:  cfg,
		Store:   st,
		Flights: flightSvc,
		Patches: patchSvc,
		Warmup:  warmupJob,
		UpSince: time.Now(),
	}
	router := routes.RegisterRoutes(deps, metricsReg)

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server stopped unexpectedly", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
}
