package database

import (
	"fmt"
	"time"
)

// SearchExact executes a ranked full-text match (bm25) over segment
// text. Ties in relevance are broken by ascending start time and then
// video basename so repeated queries return identical orderings.
//
// opts.Match must be a well-formed FTS5 expression; the search layer
// compiles it from a closed query grammar, so raw user input never
// reaches SQLite directly.
func (d *Database) SearchExact(opts SearchOptions) (*SearchResult, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("search_exact", start, err) }()

	countQuery := `
		SELECT COUNT(*)
		FROM segments_fts
		JOIN segments s ON segments_fts.rowid = s.id
		JOIN videos v ON s.video_id = v.id
		WHERE segments_fts MATCH ?
	`
	countArgs := []interface{}{opts.Match}
	if opts.Basename != "" {
		countQuery += ` AND v.basename = ?`
		countArgs = append(countArgs, opts.Basename)
	}

	var total int
	if err = d.db.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("exact search count failed: %w", err)
	}

	result := &SearchResult{Total: total, Hits: []SegmentHit{}}
	if total == 0 {
		return result, nil
	}

	selectQuery := `
		SELECT v.basename, v.rel_path, v.ext, s.start_ms, s.end_ms, s.search_text
		FROM segments_fts
		JOIN segments s ON segments_fts.rowid = s.id
		JOIN videos v ON s.video_id = v.id
		WHERE segments_fts MATCH ?
	`
	selectArgs := []interface{}{opts.Match}
	if opts.Basename != "" {
		selectQuery += ` AND v.basename = ?`
		selectArgs = append(selectArgs, opts.Basename)
	}
	selectQuery += `
		ORDER BY bm25(segments_fts), s.start_ms, v.basename
		LIMIT ? OFFSET ?
	`
	selectArgs = append(selectArgs, opts.Limit, opts.Offset)

	rows, err := d.db.Query(selectQuery, selectArgs...)
	if err != nil {
		return nil, fmt.Errorf("exact search failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hit SegmentHit
		if err = rows.Scan(&hit.VideoBasename, &hit.RelPath, &hit.Ext,
			&hit.StartMS, &hit.EndMS, &hit.SearchText); err != nil {
			return nil, fmt.Errorf("exact search scan failed: %w", err)
		}
		result.Hits = append(result.Hits, hit)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("exact search rows failed: %w", err)
	}

	return result, nil
}
