// Package workers provides worker pool sizing helpers that respect
// container CPU limits via GOMAXPROCS.
package workers
