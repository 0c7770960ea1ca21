package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrVideoNotFound is returned when a basename does not exist in the
// index.
var ErrVideoNotFound = errors.New("video not found")

// ListVideos returns every indexed video ordered by basename,
// including videos without a matched subtitle.
func (d *Database) ListVideos() ([]Video, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_videos", start, err) }()

	rows, err := d.db.Query(`
		SELECT id, basename, rel_path, ext, size, has_subtitle, segment_count, indexed_at
		FROM videos
		ORDER BY basename
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	videos := []Video{}
	for rows.Next() {
		v, scanErr := scanVideo(rows)
		if scanErr != nil {
			err = scanErr
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

// GetVideoByBasename returns one video or ErrVideoNotFound.
func (d *Database) GetVideoByBasename(basename string) (*Video, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_video", start, err) }()

	row := d.db.QueryRow(`
		SELECT id, basename, rel_path, ext, size, has_subtitle, segment_count, indexed_at
		FROM videos
		WHERE basename = ?
	`, basename)

	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrVideoNotFound
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video %q: %w", basename, err)
	}
	return &v, nil
}

// GetTranscript returns the ordered segments of one video, in source
// subtitle order. The video must exist; a matched-but-empty video
// yields an empty slice.
func (d *Database) GetTranscript(basename string) ([]Segment, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_transcript", start, err) }()

	video, err := d.GetVideoByBasename(basename)
	if err != nil {
		return nil, err
	}

	rows, err := d.db.Query(`
		SELECT id, video_id, seq, start_ms, end_ms, text, search_text
		FROM segments
		WHERE video_id = ?
		ORDER BY seq
	`, video.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript for %q: %w", basename, err)
	}
	defer rows.Close()

	segments := []Segment{}
	for rows.Next() {
		var s Segment
		if err = rows.Scan(&s.ID, &s.VideoID, &s.Seq, &s.StartMS, &s.EndMS,
			&s.Text, &s.SearchText); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load transcript for %q: %w", basename, err)
	}
	return segments, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVideo(r rowScanner) (Video, error) {
	var v Video
	var hasSubtitle int
	var indexedAt int64
	err := r.Scan(&v.ID, &v.Basename, &v.RelPath, &v.Ext, &v.Size,
		&hasSubtitle, &v.SegmentCount, &indexedAt)
	if err != nil {
		return Video{}, err
	}
	v.HasSubtitle = hasSubtitle != 0
	v.IndexedAt = time.Unix(indexedAt, 0)
	return v, nil
}
