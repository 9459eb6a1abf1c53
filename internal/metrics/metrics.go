package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the flight cache
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Provider Metrics
	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderRequestDuration *prometheus.HistogramVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Store Metrics
	StoreOperationsTotal *prometheus.CounterVec
	StoreConflictsTotal  prometheus.Counter

	// Business Metrics
	FlightsRefreshedTotal prometheus.Counter
	SyncJobDuration       *prometheus.HistogramVec
}

// NewMetricsRegistry registers every metric on reg. Pass prometheus.DefaultRegisterer
// in the server and a fresh prometheus.NewRegistry() in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightvault_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightvault_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flightvault_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Provider Metrics
		ProviderRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightvault_provider_requests_total",
				Help: "Total flight data provider calls by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		ProviderRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightvault_provider_request_duration_seconds",
				Help:    "Flight data provider latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightvault_cache_hits_total",
				Help: "Total document cache hits by collection",
			},
			[]string{"collection"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightvault_cache_misses_total",
				Help: "Total document cache misses by collection",
			},
			[]string{"collection"},
		),

		// Store Metrics
		StoreOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightvault_store_operations_total",
				Help: "Document store operations by kind and outcome",
			},
			[]string{"operation", "outcome"},
		),
		StoreConflictsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flightvault_store_conflicts_total",
				Help: "Optimistic write conflicts retried by the document store",
			},
		),

		// Business Metrics
		FlightsRefreshedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flightvault_flights_refreshed_total",
				Help: "Total schedule records upserted by bulk refresh",
			},
		),
		SyncJobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightvault_sync_job_duration_seconds",
				Help:    "Background job execution time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"job_name"},
		),
	}
}
