// Package middleware provides the HTTP middleware chain for the
// subtitle search service.
//
// It includes:
//   - Access logging in W3C Extended Log Format
//   - Prometheus request metrics with bounded label cardinality
//   - Response compression (gzip) for JSON and subtitle payloads
//   - Configurable filtering for media streaming and health checks
package middleware
