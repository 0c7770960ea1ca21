package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/wimjan123/srt-search/internal/database"
	"github.com/wimjan123/srt-search/internal/handlers"
	"github.com/wimjan123/srt-search/internal/logging"
	"github.com/wimjan123/srt-search/internal/metrics"
	"github.com/wimjan123/srt-search/internal/middleware"
	"github.com/wimjan123/srt-search/internal/reindex"
	"github.com/wimjan123/srt-search/internal/search"
	"github.com/wimjan123/srt-search/internal/startup"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}

	metrics.InitializeMetrics()

	// Initialize database
	dbStart := time.Now()
	db, err := database.New(context.Background(), config.DatabasePath)
	if err != nil {
		logging.Fatal("Failed to initialize database: %v", err)
	}
	defer db.Close()
	startup.LogDatabaseInit(time.Since(dbStart))

	// Warm the stats cache so a restart over an existing index reports
	// ready and healthy before any reindex runs.
	if stats, err := db.CalculateStats(); err != nil {
		logging.Warn("Failed to load index stats: %v", err)
	} else {
		db.UpdateStats(stats)
	}

	// Initialize reindex pipeline
	startup.LogReindexInit(config.ReindexOnStart)
	pipeline := reindex.New(db, config.MediaDir)

	if config.ReindexOnStart {
		if err := pipeline.TriggerAsync(context.Background()); err != nil {
			logging.Error("Failed to start initial reindex: %v", err)
		}
	}

	// Export index stats periodically
	collector := metrics.NewCollector(dbStatsProvider{db}, 30*time.Second)
	collector.Start()

	// Initialize search engine and handlers
	engine := search.New(db)
	h := handlers.New(db, engine, pipeline, config)

	// Setup router
	router := setupRouter(h, config)

	startup.LogHTTPRoutes(router, config.LogMediaFiles, config.LogHealthChecks)

	// Apply metrics middleware
	handler := middleware.Metrics(middleware.DefaultMetricsConfig())(http.Handler(router))

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogMediaFiles = config.LogMediaFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)

	// Apply compression middleware
	handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Optional standalone metrics server
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsSrv = &http.Server{
			Addr:        ":" + config.MetricsPort,
			Handler:     metricsMux,
			ReadTimeout: 15 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, collector)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("Server error: %v", err)
	}
}

// dbStatsProvider adapts the database stats cache to the metrics
// collector, refreshing the connection gauge on the same cadence.
type dbStatsProvider struct {
	db *database.Database
}

func (p dbStatsProvider) GetStats() metrics.Stats {
	p.db.UpdateDBMetrics()
	stats := p.db.GetStats()
	return metrics.Stats{
		TotalVideos:     stats.TotalVideos,
		SubtitledVideos: stats.SubtitledVideos,
		TotalSegments:   stats.TotalSegments,
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/search", h.Search).Methods("GET")
	api.HandleFunc("/files", h.ListFiles).Methods("GET")
	api.HandleFunc("/transcript/{basename}", h.GetTranscript).Methods("GET")
	api.HandleFunc("/reindex", h.TriggerReindex).Methods("POST")
	api.HandleFunc("/reindex/status", h.ReindexStatus).Methods("GET")

	// Media streaming
	r.HandleFunc("/media/{path:.*}", h.ServeMedia).Methods("GET", "HEAD")

	// Metrics on the main port too when no standalone server runs
	if config.MetricsEnabled {
		r.Handle("/metrics", h.MetricsHandler()).Methods("GET")
	}

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
