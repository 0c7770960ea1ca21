package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/wimjan123/srt-search/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status      string `json:"status"`
	Ready       bool   `json:"ready"`
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
	Indexing    bool   `json:"indexing"`
	LastIndexed string `json:"lastIndexed,omitempty"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`

	// Index summary
	TotalVideos     int `json:"totalVideos"`
	SubtitledVideos int `json:"subtitledVideos"`
	TotalSegments   int `json:"totalSegments"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	stats := h.db.GetStats()
	ready := h.isReady()

	response := HealthResponse{
		Ready:           ready,
		Version:         startup.Version,
		Uptime:          time.Since(h.startTime).Round(time.Second).String(),
		Indexing:        h.pipeline.IsRunning(),
		GoVersion:       runtime.Version(),
		NumCPU:          runtime.NumCPU(),
		NumGoroutine:    runtime.NumGoroutine(),
		TotalVideos:     stats.TotalVideos,
		SubtitledVideos: stats.SubtitledVideos,
		TotalSegments:   stats.TotalSegments,
	}

	if ready {
		response.Status = statusHealthy
	} else {
		response.Status = statusStarting
	}

	if !stats.LastIndexed.IsZero() {
		response.LastIndexed = stats.LastIndexed.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// ReadinessCheck returns 200 only when the service is ready to accept traffic
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if h.isReady() {
		writeJSONStatus(w, "ready")
	} else {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{"status": "not_ready"})
	}
}

// isReady reports whether searches can be answered. An index built at
// any point makes the service ready; otherwise readiness waits for the
// initial reindex to finish.
func (h *Handlers) isReady() bool {
	if !h.db.GetStats().LastIndexed.IsZero() {
		return true
	}
	return !h.pipeline.IsRunning()
}
