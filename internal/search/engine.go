package search

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wimjan123/srt-search/internal/database"
	"github.com/wimjan123/srt-search/internal/logging"
	"github.com/wimjan123/srt-search/internal/metrics"
	"github.com/wimjan123/srt-search/internal/srt"
)

// Pagination bounds.
const (
	DefaultLimit = 25
	MaxLimit     = 100
)

// ErrEmptyQuery is returned when the query is empty, or contains no
// usable terms, after trimming.
var ErrEmptyQuery = errors.New("search query is empty")

// Engine answers user-facing search requests against the index store.
// It is purely a read path and safe for concurrent use.
type Engine struct {
	db *database.Database
}

// New creates a search engine over the given store.
func New(db *database.Database) *Engine {
	return &Engine{db: db}
}

// Request is one user search.
type Request struct {
	Query  string
	File   string // optional basename filter
	Offset int
	Limit  int
	Fuzzy  bool
}

// Item is one rendered search hit.
type Item struct {
	VideoBasename string `json:"videoBasename"`
	RelPath       string `json:"relPath"`
	Ext           string `json:"ext"`
	StartMS       int    `json:"startMs"`
	EndMS         int    `json:"endMs"`
	Timecode      string `json:"timecode"`
	Snippet       string `json:"snippet"`
}

// Response is one page of search results.
type Response struct {
	Total int    `json:"total"`
	Items []Item `json:"items"`
	// Fuzzy reports whether the fuzzy fallback produced this page.
	Fuzzy bool `json:"fuzzy"`
}

// Search validates the request, runs the exact full-text search and,
// only when that returns nothing and fuzzy is enabled, falls back to
// approximate matching over the same filter and pagination window.
// Fuzzy results are never blended with exact ones.
func (e *Engine) Search(req Request) (*Response, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	query := Parse(req.Query)
	if query.IsEmpty() {
		return nil, ErrEmptyQuery
	}

	opts := database.SearchOptions{
		Match:    query.FTS(),
		Basename: e.resolveFilter(req.File),
		Offset:   req.Offset,
		Limit:    req.Limit,
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Limit > MaxLimit {
		opts.Limit = MaxLimit
	}

	start := time.Now()
	exact, err := e.db.SearchExact(opts)
	recordSearch("exact", start, err)
	if err != nil {
		return nil, fmt.Errorf("exact search failed: %w", err)
	}

	if exact.Total > 0 || !req.Fuzzy {
		return e.render(exact, query, false), nil
	}

	metrics.SearchFuzzyFallbacks.Inc()
	logging.Debug("No exact hits for %q, falling back to fuzzy", req.Query)

	start = time.Now()
	fuzzy, err := e.db.SearchFuzzy(query.Terms(), opts)
	recordSearch("fuzzy", start, err)
	if err != nil {
		return nil, fmt.Errorf("fuzzy search failed: %w", err)
	}
	return e.render(fuzzy, query, true), nil
}

// resolveFilter validates the file filter. An unknown basename makes
// the filter a no-op rather than an error.
func (e *Engine) resolveFilter(file string) string {
	if file == "" {
		return ""
	}
	if _, err := e.db.GetVideoByBasename(file); err != nil {
		if !errors.Is(err, database.ErrVideoNotFound) {
			logging.Warn("File filter lookup failed for %q: %v", file, err)
		}
		return ""
	}
	return file
}

func (e *Engine) render(result *database.SearchResult, query Query, fuzzy bool) *Response {
	resp := &Response{Total: result.Total, Items: []Item{}, Fuzzy: fuzzy}
	for _, hit := range result.Hits {
		resp.Items = append(resp.Items, Item{
			VideoBasename: hit.VideoBasename,
			RelPath:       hit.RelPath,
			Ext:           hit.Ext,
			StartMS:       hit.StartMS,
			EndMS:         hit.EndMS,
			Timecode:      srt.FormatTimecode(hit.StartMS),
			Snippet:       buildSnippet(hit.SearchText, query),
		})
	}
	return resp
}

// TranscriptSegment is one cue of a transcript response.
type TranscriptSegment struct {
	StartMS  int    `json:"startMs"`
	EndMS    int    `json:"endMs"`
	Timecode string `json:"timecode"`
	Text     string `json:"text"`
}

// Transcript is the full ordered cue list of one video.
type Transcript struct {
	VideoBasename string              `json:"videoBasename"`
	Segments      []TranscriptSegment `json:"segments"`
}

// GetTranscript returns the ordered transcript for a video.
func (e *Engine) GetTranscript(basename string) (*Transcript, error) {
	segments, err := e.db.GetTranscript(basename)
	if err != nil {
		return nil, err
	}

	t := &Transcript{VideoBasename: basename, Segments: []TranscriptSegment{}}
	for _, s := range segments {
		t.Segments = append(t.Segments, TranscriptSegment{
			StartMS:  s.StartMS,
			EndMS:    s.EndMS,
			Timecode: srt.FormatTimecode(s.StartMS),
			Text:     s.Text,
		})
	}
	return t, nil
}

// ListVideos returns every indexed video.
func (e *Engine) ListVideos() ([]database.Video, error) {
	return e.db.ListVideos()
}

func recordSearch(mode string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SearchQueriesTotal.WithLabelValues(mode, status).Inc()
	metrics.SearchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}
