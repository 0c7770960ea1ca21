package search

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wimjan123/srt-search/internal/database"
)

// newTestEngine builds an engine over a fresh seeded database.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	dataset := []database.VideoWithSegments{
		{
			Video: database.Video{Basename: "intro", RelPath: "a/intro.mp4", Ext: ".mp4", Size: 100, HasSubtitle: true},
			Segments: []database.Segment{
				{Seq: 0, StartMS: 1000, EndMS: 3500, Text: "Hello world", SearchText: "Hello world"},
				{Seq: 1, StartMS: 4000, EndMS: 5000, Text: "Goodbye", SearchText: "Goodbye"},
			},
		},
		{
			Video: database.Video{Basename: "outro", RelPath: "b/outro.mkv", Ext: ".mkv", Size: 200, HasSubtitle: true},
			Segments: []database.Segment{
				{Seq: 0, StartMS: 500, EndMS: 900, Text: "General Kenobi", SearchText: "General Kenobi"},
				{Seq: 1, StartMS: 1000, EndMS: 2000, Text: "hello there", SearchText: "hello there"},
			},
		},
	}
	if err := db.ReplaceAll(context.Background(), dataset); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	return New(db)
}

func TestSearchEmptyQuery(t *testing.T) {
	eng := newTestEngine(t)

	for _, q := range []string{"", "   ", "OR", `""`, "***"} {
		_, err := eng.Search(Request{Query: q})
		if !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("Search(%q) error = %v, want ErrEmptyQuery", q, err)
		}
	}
}

func TestSearchExactHit(t *testing.T) {
	eng := newTestEngine(t)

	resp, err := eng.Search(Request{Query: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
	if resp.Fuzzy {
		t.Error("exact results flagged as fuzzy")
	}

	// Equal relevance falls back to start time, then basename.
	item := resp.Items[0]
	if item.VideoBasename != "intro" || item.StartMS != 1000 {
		t.Errorf("first item = %+v", item)
	}
	if item.Timecode != "00:00:01" {
		t.Errorf("timecode = %q", item.Timecode)
	}
	if !strings.Contains(item.Snippet, "<mark>Hello</mark>") {
		t.Errorf("snippet = %q", item.Snippet)
	}
}

func TestSearchExactWinsDespiteFuzzyFlag(t *testing.T) {
	eng := newTestEngine(t)

	resp, err := eng.Search(Request{Query: "hello", Fuzzy: true})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Fuzzy {
		t.Error("fallback fired even though exact search had hits")
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
}

func TestSearchFuzzyFallback(t *testing.T) {
	eng := newTestEngine(t)

	// "kenobbi" has no stem in common with "Kenobi", so the exact pass
	// comes back empty and the edit-distance fallback takes over.
	resp, err := eng.Search(Request{Query: "kenobbi", Fuzzy: true})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Fuzzy {
		t.Fatal("expected fuzzy fallback results")
	}
	if resp.Total != 1 || resp.Items[0].VideoBasename != "outro" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestSearchFuzzyDisabled(t *testing.T) {
	eng := newTestEngine(t)

	resp, err := eng.Search(Request{Query: "kenobbi"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Fuzzy || resp.Total != 0 {
		t.Errorf("resp = %+v, want empty exact result", resp)
	}
	if resp.Items == nil {
		t.Error("items should be an empty slice, not nil")
	}
}

func TestSearchStemmedVariantIsExact(t *testing.T) {
	eng := newTestEngine(t)

	// The porter tokenizer stems "kenoby" and "Kenobi" to the same
	// token, so a trailing-y misspelling is an exact hit and must not
	// engage the fallback even when fuzzy is enabled.
	resp, err := eng.Search(Request{Query: "kenoby", Fuzzy: true})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Fuzzy {
		t.Error("stemmed match must be served by the exact pass")
	}
	if resp.Total != 1 || resp.Items[0].VideoBasename != "outro" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestSearchFileFilter(t *testing.T) {
	eng := newTestEngine(t)

	resp, err := eng.Search(Request{Query: "hello", File: "intro"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Items[0].VideoBasename != "intro" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestSearchUnknownFileFilterIsNoOp(t *testing.T) {
	eng := newTestEngine(t)

	resp, err := eng.Search(Request{Query: "hello", File: "no-such-video"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2 (filter ignored)", resp.Total)
	}
}

func TestSearchLimitClamping(t *testing.T) {
	eng := newTestEngine(t)

	// A limit above the cap must not error, just clamp.
	resp, err := eng.Search(Request{Query: "hello", Limit: 10000})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}

	resp, err = eng.Search(Request{Query: "hello", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Items) != 1 || resp.Total != 2 {
		t.Errorf("items = %d total = %d, want 1 and 2", len(resp.Items), resp.Total)
	}

	resp, err = eng.Search(Request{Query: "hello", Offset: -5})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Items) != 2 {
		t.Errorf("negative offset: got %d items, want 2", len(resp.Items))
	}
}

func TestGetTranscript(t *testing.T) {
	eng := newTestEngine(t)

	transcript, err := eng.GetTranscript("intro")
	if err != nil {
		t.Fatal(err)
	}
	if len(transcript.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(transcript.Segments))
	}
	first := transcript.Segments[0]
	if first.Text != "Hello world" || first.Timecode != "00:00:01" {
		t.Errorf("first segment = %+v", first)
	}

	if _, err := eng.GetTranscript("no-such-video"); !errors.Is(err, database.ErrVideoNotFound) {
		t.Errorf("error = %v, want ErrVideoNotFound", err)
	}
}

func TestListVideos(t *testing.T) {
	eng := newTestEngine(t)

	videos, err := eng.ListVideos()
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 2 || videos[0].Basename != "intro" {
		t.Errorf("videos = %+v", videos)
	}
}
