// Package handlers provides HTTP request handlers for the subtitle
// search API.
//
// It includes handlers for:
//   - Full-text and fuzzy subtitle search
//   - Listing indexed videos and fetching transcripts
//   - Triggering and observing reindex runs
//   - Media file streaming with range support
//   - Health checks, version and Prometheus metrics
package handlers
