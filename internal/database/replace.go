package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wimjan123/srt-search/internal/logging"
)

// ReplaceAll atomically replaces the entire dataset with the given
// videos and their segments. The delete and every insert happen inside
// one transaction; until the commit, concurrent readers keep seeing
// the previous index, and on any error the previous index stays live.
//
// Callers must serialize: the reindex pipeline guarantees a single
// in-flight replace, and writeMu backstops that guarantee.
func (d *Database) ReplaceAll(ctx context.Context, videos []VideoWithSegments) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	start := time.Now()
	var err error
	defer func() { recordQuery("replace_all", start, err) }()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin replace transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error("rollback after replace failure also failed: %v", rbErr)
			}
		}
	}()

	// The delete triggers clear both FTS tables row by row.
	if _, err = tx.ExecContext(ctx, "DELETE FROM segments"); err != nil {
		return fmt.Errorf("failed to clear segments: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM videos"); err != nil {
		return fmt.Errorf("failed to clear videos: %w", err)
	}

	videoStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO videos (basename, rel_path, ext, size, has_subtitle, segment_count, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare video insert: %w", err)
	}
	defer videoStmt.Close()

	segmentStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO segments (video_id, seq, start_ms, end_ms, text, search_text)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare segment insert: %w", err)
	}
	defer segmentStmt.Close()

	now := time.Now().Unix()
	for _, vw := range videos {
		v := vw.Video
		var res sql.Result
		res, err = videoStmt.ExecContext(ctx,
			v.Basename, v.RelPath, v.Ext, v.Size,
			boolToInt(v.HasSubtitle), len(vw.Segments), now)
		if err != nil {
			return fmt.Errorf("failed to insert video %q: %w", v.Basename, err)
		}

		var videoID int64
		videoID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to resolve id for video %q: %w", v.Basename, err)
		}

		for seq, seg := range vw.Segments {
			if _, err = segmentStmt.ExecContext(ctx,
				videoID, seq, seg.StartMS, seg.EndMS, seg.Text, seg.SearchText); err != nil {
				return fmt.Errorf("failed to insert segment %d of %q: %w", seq, v.Basename, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replace: %w", err)
	}

	logging.Debug("ReplaceAll committed %d videos in %v", len(videos), time.Since(start))
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
