// Package metrics declares the Prometheus metrics exported by the
// subtitle search service and a small collector that periodically
// refreshes index-content gauges from the database.
//
// Metrics are registered with promauto at package load; the /metrics
// endpoint is served by promhttp from the handlers package.
package metrics
