package handlers

import (
	"errors"
	"net/http"

	"github.com/wimjan123/srt-search/internal/reindex"
)

// TriggerReindex starts a background reindex, answering POST
// /api/reindex. A reindex already in flight yields 409 Conflict; the
// current index keeps serving searches either way.
func (h *Handlers) TriggerReindex(w http.ResponseWriter, r *http.Request) {
	if err := h.pipeline.TriggerAsync(r.Context()); err != nil {
		if errors.Is(err, reindex.ErrAlreadyRunning) {
			writeJSONError(w, "reindex already in progress", http.StatusConflict)
			return
		}
		writeJSONError(w, "failed to start reindex", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"status": "reindex started"})
}

// ReindexStatus reports the pipeline phase and the last run summary,
// answering GET /api/reindex/status.
func (h *Handlers) ReindexStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.pipeline.Status())
}
