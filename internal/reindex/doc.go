// Package reindex rebuilds the subtitle index from the media tree.
//
// A run moves through three phases: scanning the media directory for
// video/subtitle pairs, parsing the matched subtitles in parallel, and
// committing the full dataset to the database in one atomic swap.
// Searches keep serving the previous index until the commit lands, so
// a reindex is invisible to readers until it finishes.
//
// Runs are single-flight. Triggering a reindex while one is active
// fails fast with ErrAlreadyRunning rather than queueing, which lets
// the HTTP layer answer 409 Conflict immediately.
//
// Per-file problems (an unreadable subtitle, a file with no usable
// cues) degrade that one video and increment the warning count; they
// never fail the run. Only a scan error on the media root or a failed
// database commit aborts a reindex, leaving the previous index live.
package reindex
