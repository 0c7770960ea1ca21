package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/wimjan123/srt-search/internal/database"
	"github.com/wimjan123/srt-search/internal/reindex"
	"github.com/wimjan123/srt-search/internal/search"
)

// stubPipeline lets tests pin the reindex state.
type stubPipeline struct {
	running    bool
	triggerErr error
	triggered  int
}

func (s *stubPipeline) TriggerAsync(context.Context) error {
	if s.triggerErr != nil {
		return s.triggerErr
	}
	s.triggered++
	return nil
}

func (s *stubPipeline) IsRunning() bool { return s.running }

func (s *stubPipeline) Status() reindex.Summary {
	if s.running {
		return reindex.Summary{State: reindex.StateParsing}
	}
	return reindex.Summary{State: reindex.StateIdle}
}

func newTestHandlers(t *testing.T, pipeline *stubPipeline) *Handlers {
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
			Video: database.Video{Basename: "intro", RelPath: "a/intro.mp4", Ext: ".mp4", HasSubtitle: true},
			Segments: []database.Segment{
				{Seq: 0, StartMS: 1000, EndMS: 3500, Text: "Hello world", SearchText: "Hello world"},
				{Seq: 1, StartMS: 4000, EndMS: 5000, Text: "Goodbye", SearchText: "Goodbye"},
			},
		},
	}
	if err := db.ReplaceAll(context.Background(), dataset); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	db.UpdateStats(database.IndexStats{TotalVideos: 1, SubtitledVideos: 1, TotalSegments: 2, LastIndexed: time.Now()})

	return &Handlers{
		db:        db,
		engine:    search.New(db),
		pipeline:  pipeline,
		mediaDir:  t.TempDir(),
		startTime: time.Now(),
	}
}

func newTestRouter(h *Handlers) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/search", h.Search).Methods("GET")
	router.HandleFunc("/api/files", h.ListFiles).Methods("GET")
	router.HandleFunc("/api/transcript/{basename}", h.GetTranscript).Methods("GET")
	router.HandleFunc("/api/reindex", h.TriggerReindex).Methods("POST")
	router.HandleFunc("/api/reindex/status", h.ReindexStatus).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	router.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	return router
}

func TestSearchHandler(t *testing.T) {
	h := newTestHandlers(t, &stubPipeline{})
	router := newTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=hello", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp search.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Items[0].VideoBasename != "intro" {
		t.Errorf("response = %+v", resp)
	}
}

func TestSearchHandlerMissingQuery(t *testing.T) {
	h := newTestHandlers(t, &stubPipeline{})
	router := newTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", rec.Code)
	}
}

func TestSearchHandlerFuzzyFallback(t *testing.T) {
	h := newTestHandlers(t, &stubPipeline{})
	router := newTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=helo", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var resp search.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Fuzzy || resp.Total != 1 {
		t.Errorf("response = %+v", resp)
	}

	// Explicitly disabled fuzzy must return an empty exact result.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=helo&fuzzy=false", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Fuzzy || resp.Total != 0 {
		t.Errorf("fuzzy=false response = %+v", resp)
	}
}

func TestListFilesHandler(t *testing.T) {
	h := newTestHandlers(t, &stubPipeline{})
	router := newTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}

	var resp FilesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Videos[0].Basename != "intro" {
		t.Errorf("response = %+v", resp)
	}
}

func TestGetTranscriptHandler(t *testing.T) {
	h := newTestHandlers(t, &stubPipeline{})
	router := newTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transcript/intro", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}

	var transcript search.Transcript
	if err := json.Unmarshal(rec.Body.Bytes(), &transcript); err != nil {
		t.Fatal(err)
	}
	if len(transcript.Segments) != 2 || transcript.Segments[0].Text != "Hello world" {
		t.Errorf("transcript = %+v", transcript)
	}
}

func TestGetTranscriptHandlerNotFound(t *testing.T) {
	h := newTestHandlers(t, &stubPipeline{})
	router := newTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transcript/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", rec.Code)
	}
}

func TestTriggerReindexHandler(t *testing.T) {
	pipeline := &stubPipeline{}
	h := newTestHandlers(t, pipeline)
	router := newTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reindex", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("code = %d, want 202", rec.Code)
	}
	if pipeline.triggered != 1 {
		t.Errorf("triggered = %d", pipeline.triggered)
	}
}

func TestTriggerReindexHandlerConflict(t *testing.T) {
	pipeline := &stubPipeline{triggerErr: reindex.ErrAlreadyRunning}
	h := newTestHandlers(t, pipeline)
	router := newTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reindex", nil))

	if rec.Code != http.StatusConflict {
		t.Errorf("code = %d, want 409", rec.Code)
	}
}

func TestReindexStatusHandler(t *testing.T) {
	h := newTestHandlers(t, &stubPipeline{running: true})
	router := newTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reindex/status", nil))

	var status reindex.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if status.State != reindex.StateParsing {
		t.Errorf("state = %q", status.State)
	}
}

func TestHealthCheckHandler(t *testing.T) {
	h := newTestHandlers(t, &stubPipeline{})
	router := newTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != statusHealthy || !resp.Ready {
		t.Errorf("response = %+v", resp)
	}
	if resp.TotalVideos != 1 || resp.TotalSegments != 2 {
		t.Errorf("index summary = %+v", resp)
	}
}

func TestReadinessHandler(t *testing.T) {
	h := newTestHandlers(t, &stubPipeline{})
	router := newTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", rec.Code)
	}
}

func TestReadinessHandlerNotReadyDuringInitialIndex(t *testing.T) {
	h := newTestHandlers(t, &stubPipeline{running: true})
	// Wipe the stats so no index has ever been built.
	h.db.UpdateStats(database.IndexStats{})
	router := newTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("code = %d, want 503", rec.Code)
	}
}

func TestLivenessHandler(t *testing.T) {
	h := newTestHandlers(t, &stubPipeline{})
	router := newTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	if rec.Code != http.StatusOK || rec.Body.Len() == 0 {
		t.Errorf("code = %d, body %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/livez", nil))
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("HEAD: code = %d, body %q", rec.Code, rec.Body.String())
	}
}

func TestServeMedia(t *testing.T) {
	h := newTestHandlers(t, &stubPipeline{})

	content := "fake video bytes"
	if err := os.MkdirAll(filepath.Join(h.mediaDir, "a"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(h.mediaDir, "a", "intro.mp4"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/media/a/intro.mp4", nil)
	req = mux.SetURLVars(req, map[string]string{"path": "a/intro.mp4"})
	rec := httptest.NewRecorder()
	h.ServeMedia(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if rec.Body.String() != content {
		t.Errorf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "video/mp4" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestServeMediaRejectsTraversal(t *testing.T) {
	h := newTestHandlers(t, &stubPipeline{})

	req := httptest.NewRequest(http.MethodGet, "/media/x", nil)
	req = mux.SetURLVars(req, map[string]string{"path": "../../etc/passwd"})
	rec := httptest.NewRecorder()
	h.ServeMedia(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", rec.Code)
	}
}

func TestIsSubPath(t *testing.T) {
	tests := []struct {
		parent string
		child  string
		want   bool
	}{
		{"/data/media", "/data/media/show/episode.mp4", true},
		{"/data/media", "/data/media", true},
		{"/data/media", "/data/media-private/secret.mp4", false},
		{"/data/media", "/data/mediafiles/a.mp4", false},
		{"/data/media", "/etc/passwd", false},
	}

	for _, tt := range tests {
		if got := isSubPath(tt.parent, tt.child); got != tt.want {
			t.Errorf("isSubPath(%q, %q) = %v, want %v", tt.parent, tt.child, got, tt.want)
		}
	}
}

func TestServeMediaMissingFile(t *testing.T) {
	h := newTestHandlers(t, &stubPipeline{})

	req := httptest.NewRequest(http.MethodGet, "/media/nope.mp4", nil)
	req = mux.SetURLVars(req, map[string]string{"path": "nope.mp4"})
	rec := httptest.NewRecorder()
	h.ServeMedia(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", rec.Code)
	}
}
