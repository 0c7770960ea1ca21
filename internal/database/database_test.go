package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// newTestDB opens a fresh database in a temporary directory.
func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return db
}

// fixtureDataset is a small two-video dataset used across tests.
func fixtureDataset() []VideoWithSegments {
	return []VideoWithSegments{
		{
			Video: Video{Basename: "intro", RelPath: "a/intro.mp4", Ext: ".mp4", Size: 100, HasSubtitle: true},
			Segments: []Segment{
				{Seq: 0, StartMS: 1000, EndMS: 3500, Text: "Hello world", SearchText: "Hello world"},
				{Seq: 1, StartMS: 4000, EndMS: 5000, Text: "Goodbye", SearchText: "Goodbye"},
			},
		},
		{
			Video: Video{Basename: "outro", RelPath: "b/outro.mkv", Ext: ".mkv", Size: 200, HasSubtitle: true},
			Segments: []Segment{
				{Seq: 0, StartMS: 500, EndMS: 900, Text: "General Kenobi", SearchText: "General Kenobi"},
				{Seq: 1, StartMS: 1000, EndMS: 2000, Text: "hello there", SearchText: "hello there"},
			},
		},
		{
			Video:    Video{Basename: "silent", RelPath: "c/silent.avi", Ext: ".avi", HasSubtitle: false},
			Segments: nil,
		},
	}
}

func seed(t *testing.T, db *Database) {
	t.Helper()
	if err := db.ReplaceAll(context.Background(), fixtureDataset()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
}

func TestReplaceAllAndListVideos(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	videos, err := db.ListVideos()
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 3 {
		t.Fatalf("got %d videos, want 3", len(videos))
	}

	// Ordered by basename.
	if videos[0].Basename != "intro" || videos[1].Basename != "outro" || videos[2].Basename != "silent" {
		t.Errorf("unexpected ordering: %v, %v, %v", videos[0].Basename, videos[1].Basename, videos[2].Basename)
	}

	intro := videos[0]
	if !intro.HasSubtitle || intro.SegmentCount != 2 || intro.RelPath != "a/intro.mp4" {
		t.Errorf("intro = %+v", intro)
	}
	if videos[2].HasSubtitle || videos[2].SegmentCount != 0 {
		t.Errorf("silent = %+v", videos[2])
	}
}

func TestReplaceAllReplacesNotAppends(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)
	seed(t, db)

	videos, err := db.ListVideos()
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 3 {
		t.Errorf("re-seeding duplicated rows: got %d videos, want 3", len(videos))
	}

	stats, err := db.CalculateStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSegments != 4 {
		t.Errorf("TotalSegments = %d, want 4", stats.TotalSegments)
	}
}

func TestGetVideoByBasename(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	v, err := db.GetVideoByBasename("intro")
	if err != nil {
		t.Fatal(err)
	}
	if v.Ext != ".mp4" || v.Size != 100 {
		t.Errorf("video = %+v", v)
	}

	_, err = db.GetVideoByBasename("missing")
	if !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("err = %v, want ErrVideoNotFound", err)
	}
}

func TestGetTranscriptOrder(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	segments, err := db.GetTranscript("intro")
	if err != nil {
		t.Fatal(err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].Text != "Hello world" || segments[0].StartMS != 1000 || segments[0].EndMS != 3500 {
		t.Errorf("first segment = %+v", segments[0])
	}
	if segments[1].Text != "Goodbye" || segments[1].Seq != 1 {
		t.Errorf("second segment = %+v", segments[1])
	}

	empty, err := db.GetTranscript("silent")
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("silent transcript has %d segments", len(empty))
	}

	if _, err := db.GetTranscript("missing"); !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("err = %v, want ErrVideoNotFound", err)
	}
}

func TestCalculateStats(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	stats, err := db.CalculateStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalVideos != 3 || stats.SubtitledVideos != 2 || stats.TotalSegments != 4 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStatsCache(t *testing.T) {
	db := newTestDB(t)

	stats := IndexStats{TotalVideos: 5, TotalSegments: 50}
	db.UpdateStats(stats)

	if got := db.GetStats(); got.TotalVideos != 5 || got.TotalSegments != 50 {
		t.Errorf("GetStats = %+v", got)
	}
}
