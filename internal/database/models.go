package database

import "time"

// Video is one indexed video file, identified by its basename.
type Video struct {
	ID           int64     `json:"id"`
	Basename     string    `json:"basename"`
	RelPath      string    `json:"relPath"`
	Ext          string    `json:"ext"`
	Size         int64     `json:"size"`
	HasSubtitle  bool      `json:"hasSubtitle"`
	SegmentCount int       `json:"segmentCount"`
	IndexedAt    time.Time `json:"indexedAt"`
}

// Segment is one timed subtitle cue belonging to a video. Seq is the
// zero-based position within the source subtitle file; segments are
// stored and returned in that order.
type Segment struct {
	ID         int64  `json:"-"`
	VideoID    int64  `json:"-"`
	Seq        int    `json:"seq"`
	StartMS    int    `json:"startMs"`
	EndMS      int    `json:"endMs"`
	Text       string `json:"text"`
	SearchText string `json:"-"`
}

// VideoWithSegments bundles a video and its ordered segments for
// ReplaceAll.
type VideoWithSegments struct {
	Video    Video
	Segments []Segment
}

// SearchOptions selects and paginates a segment search.
type SearchOptions struct {
	// Match is a compiled FTS5 MATCH expression (exact search only).
	Match string
	// Basename restricts results to one video when non-empty.
	Basename string
	Offset   int
	Limit    int
}

// SegmentHit is one search result row.
type SegmentHit struct {
	VideoBasename string
	RelPath       string
	Ext           string
	StartMS       int
	EndMS         int
	SearchText    string
}

// SearchResult carries one page of hits plus the total match count.
type SearchResult struct {
	Total int
	Hits  []SegmentHit
}

// IndexStats summarizes the current index contents.
type IndexStats struct {
	TotalVideos     int       `json:"totalVideos"`
	SubtitledVideos int       `json:"subtitledVideos"`
	TotalSegments   int       `json:"totalSegments"`
	LastIndexed     time.Time `json:"lastIndexed"`
	IndexDuration   string    `json:"indexDuration"`
}
