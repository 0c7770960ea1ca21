package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "srt_search_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "srt_search_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "srt_search_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "srt_search_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "srt_search_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "srt_search_db_connections_open",
			Help: "Number of open database connections",
		},
	)
)

// Search metrics
var (
	SearchQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "srt_search_queries_total",
			Help: "Total number of search queries by mode",
		},
		[]string{"mode", "status"}, // mode: "exact" or "fuzzy"
	)

	SearchFuzzyFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "srt_search_fuzzy_fallbacks_total",
			Help: "Number of searches that fell back to fuzzy matching",
		},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "srt_search_duration_seconds",
			Help:    "End-to-end search duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"mode"},
	)
)

// Reindex metrics
var (
	ReindexRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "srt_search_reindex_runs_total",
			Help: "Total number of reindex runs by outcome",
		},
		[]string{"status"}, // "success", "error", "rejected"
	)

	ReindexIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "srt_search_reindex_running",
			Help: "Whether a reindex is currently running (1 or 0)",
		},
	)

	ReindexLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "srt_search_reindex_last_run_timestamp_seconds",
			Help: "Unix timestamp of the last completed reindex",
		},
	)

	ReindexLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "srt_search_reindex_last_run_duration_seconds",
			Help: "Duration of the last completed reindex",
		},
	)

	ReindexWarningsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "srt_search_reindex_warnings_total",
			Help: "Total skipped files and blocks across reindex runs",
		},
	)
)

// Index content metrics, updated by the collector and after reindex.
var (
	IndexedVideosTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "srt_search_indexed_videos",
			Help: "Number of indexed videos by subtitle availability",
		},
		[]string{"subtitled"}, // "yes" or "no"
	)

	IndexedSegmentsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "srt_search_indexed_segments",
			Help: "Number of indexed subtitle segments",
		},
	)
)
