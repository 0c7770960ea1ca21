// Package main provides the entry point for the SRT Search application.
//
// SRT Search is a self-hosted search engine for video subtitles. It
// walks a media directory, pairs video files with their SRT subtitles,
// parses the cues into a SQLite full-text index, and serves ranked,
// typo-tolerant searches over an HTTP API while reindexing atomically
// in the background.
//
// # Application Lifecycle
//
// The application follows a structured initialization sequence:
//
//  1. Configuration Loading: Reads environment variables and validates directories
//  2. Database Initialization: Opens SQLite database with FTS5 full-text search
//  3. Reindex Pipeline: Optionally starts the initial index build in the background
//  4. Metrics Collector: Gathers Prometheus index gauges
//  5. HTTP Server Setup: Configures routes, middleware, and starts server
//  6. Graceful Shutdown: Handles SIGINT/SIGTERM, stops all components cleanly
//
// # Build Requirements
//
// The application requires CGO for SQLite, and the FTS5 module is only
// compiled in under a build tag:
//
//	go build -tags 'fts5' -o srt-search .
//
// Tests need the same tag:
//
//	go test -tags 'fts5' ./...
//
// Without the tag the binary starts but every database operation fails
// with "no such module: fts5".
//
// # HTTP Server
//
// The application runs two HTTP servers:
//
//  1. Main Server (default port 8080):
//     - Search, file listing, and transcript API endpoints
//     - Reindex trigger and status
//     - Media file streaming with range support
//     - Health, readiness, liveness, and version endpoints
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//
// # Environment Variables
//
// Configuration is primarily through environment variables:
//
//   - MEDIA_DIR: Root directory containing videos and subtitles (default: /media)
//   - DATABASE_DIR: Directory for the SQLite database (default: /database)
//   - PORT: Main HTTP server port (default: 8080)
//   - METRICS_PORT: Metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable metrics server (default: true)
//   - REINDEX_ON_START: Build the index at startup (default: true)
//   - SRT_PARSE_WORKERS: Override the subtitle parsing worker count
//   - LOG_LEVEL: Logging level (debug/info/warn/error)
//   - LOG_MEDIA_FILES: Log media streaming requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// # Graceful Shutdown
//
// The application handles SIGINT and SIGTERM signals gracefully:
//
//  1. Stop metrics collector
//  2. Shutdown metrics server (if running)
//  3. Shutdown main HTTP server (30s timeout)
//  4. Close database connections
//
// A reindex in flight keeps running until its commit; the previous
// index stays consistent on disk either way.
package main
