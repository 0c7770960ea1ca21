// Package matcher walks the media tree and pairs each video file with
// at most one subtitle file by case-insensitive basename equality.
//
// The scan is read-only and tolerant of partial failure: an unreadable
// file or directory inside the tree is logged, counted as a warning,
// and skipped, so one bad entry never aborts a large scan. Only an
// unreadable root is fatal.
package matcher
