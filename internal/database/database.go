package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"github.com/wimjan123/srt-search/internal/logging"
	"github.com/wimjan123/srt-search/internal/metrics"
)

// Default timeout for short database operations
const defaultTimeout = 5 * time.Second

// Database manages all persistence for the subtitle index.
type Database struct {
	db     *sql.DB
	dbPath string

	// writeMu serializes ReplaceAll. Readers deliberately take no
	// lock: WAL snapshot isolation keeps them consistent and
	// non-blocking while a replace is in flight.
	writeMu sync.Mutex

	stats   IndexStats
	statsMu sync.RWMutex
}

// New opens (or creates) the index database at dbPath. The parent
// directory must already exist and be writable; use
// startup.LoadConfig() for that validation.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Database path: %s", dbPath)

	if err := diagnosePermissions(dbPath); err != nil {
		logging.Warn("Database permission diagnostics: %v", err)
	}

	// WAL keeps readers off the writer's back during reindex;
	// busy_timeout prevents spurious "database is locked" errors.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_temp_store=MEMORY&_busy_timeout=5000&_foreign_keys=on", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Search traffic is read-heavy; allow multiple readers.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{
		db:     db,
		dbPath: dbPath,
	}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Database initialized successfully at %s", dbPath)
	return d, nil
}

func (d *Database) initialize(ctx context.Context) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("initialize_schema", start, err) }()

	schema := `
	CREATE TABLE IF NOT EXISTS videos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		basename TEXT NOT NULL UNIQUE,
		rel_path TEXT NOT NULL,
		ext TEXT NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		has_subtitle INTEGER NOT NULL DEFAULT 0,
		segment_count INTEGER NOT NULL DEFAULT 0,
		indexed_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE TABLE IF NOT EXISTS segments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		start_ms INTEGER NOT NULL,
		end_ms INTEGER NOT NULL,
		text TEXT NOT NULL,
		search_text TEXT NOT NULL,
		FOREIGN KEY (video_id) REFERENCES videos(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_segments_video_seq ON segments(video_id, seq);
	CREATE INDEX IF NOT EXISTS idx_segments_video_start ON segments(video_id, start_ms);

	-- Ranked exact search: stemmed full-text index over segment text
	CREATE VIRTUAL TABLE IF NOT EXISTS segments_fts USING fts5(
		search_text,
		content='segments',
		content_rowid='id',
		tokenize='porter'
	);

	-- Fuzzy candidate retrieval: character trigram index
	CREATE VIRTUAL TABLE IF NOT EXISTS segments_trigram USING fts5(
		search_text,
		content='segments',
		content_rowid='id',
		tokenize='trigram'
	);

	CREATE TRIGGER IF NOT EXISTS segments_ai AFTER INSERT ON segments BEGIN
		INSERT INTO segments_fts(rowid, search_text) VALUES (new.id, new.search_text);
		INSERT INTO segments_trigram(rowid, search_text) VALUES (new.id, new.search_text);
	END;

	CREATE TRIGGER IF NOT EXISTS segments_ad AFTER DELETE ON segments BEGIN
		INSERT INTO segments_fts(segments_fts, rowid, search_text) VALUES('delete', old.id, old.search_text);
		INSERT INTO segments_trigram(segments_trigram, rowid, search_text) VALUES('delete', old.id, old.search_text);
	END;

	CREATE TRIGGER IF NOT EXISTS segments_au AFTER UPDATE ON segments BEGIN
		INSERT INTO segments_fts(segments_fts, rowid, search_text) VALUES('delete', old.id, old.search_text);
		INSERT INTO segments_fts(rowid, search_text) VALUES (new.id, new.search_text);
		INSERT INTO segments_trigram(segments_trigram, rowid, search_text) VALUES('delete', old.id, old.search_text);
		INSERT INTO segments_trigram(rowid, search_text) VALUES (new.id, new.search_text);
	END;
	`

	_, err = d.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// GetStats returns the cached index statistics.
func (d *Database) GetStats() IndexStats {
	d.statsMu.RLock()
	defer d.statsMu.RUnlock()
	return d.stats
}

// UpdateStats replaces the cached index statistics.
func (d *Database) UpdateStats(stats IndexStats) {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	d.stats = stats
}

// CalculateStats recomputes index statistics from the database.
func (d *Database) CalculateStats() (IndexStats, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("stats", start, err) }()

	var stats IndexStats
	var lastIndexed int64
	err = d.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM videos),
			(SELECT COUNT(*) FROM videos WHERE has_subtitle = 1),
			(SELECT COUNT(*) FROM segments),
			(SELECT COALESCE(MAX(indexed_at), 0) FROM videos)
	`).Scan(&stats.TotalVideos, &stats.SubtitledVideos, &stats.TotalSegments, &lastIndexed)
	if err != nil {
		return IndexStats{}, fmt.Errorf("failed to calculate stats: %w", err)
	}
	if lastIndexed > 0 {
		stats.LastIndexed = time.Unix(lastIndexed, 0)
	}
	return stats, nil
}

// UpdateDBMetrics refreshes database connection gauges.
func (d *Database) UpdateDBMetrics() {
	stats := d.db.Stats()
	metrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}

// diagnosePermissions checks database directory and file permissions
func diagnosePermissions(dbPath string) error {
	dir := filepath.Dir(dbPath)

	dirInfo, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat database directory: %w", err)
	}
	logging.Debug("Database directory: %s (mode: %v)", dir, dirInfo.Mode())

	testFile := filepath.Join(dir, ".perm-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return fmt.Errorf("database directory not writable: %w", err)
	}
	_ = os.Remove(testFile)

	if dbInfo, err := os.Stat(dbPath); err == nil {
		if dbInfo.Mode().Perm()&0o200 == 0 {
			logging.Warn("Database file is read-only! Mode: %v", dbInfo.Mode())
		}
	}
	return nil
}
