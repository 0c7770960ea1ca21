// Package database is the persisted index of videos and their subtitle
// segments, backed by SQLite with two FTS5 virtual tables: a
// porter-tokenized table for ranked exact search and a trigram table
// for fuzzy candidate retrieval.
//
// Concurrency discipline: the database runs in WAL mode, so readers
// always observe a consistent snapshot and never block on a writer.
// ReplaceAll performs the whole dataset swap inside one transaction;
// a query started before the commit sees the old index, one started
// after sees the new one, and nothing in between. The store itself
// does not arbitrate concurrent writers; the reindex pipeline
// guarantees at most one ReplaceAll is in flight.
package database
