package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wimjan123/srt-search/internal/database"
	"github.com/wimjan123/srt-search/internal/logging"
)

// GetTranscript returns the full ordered transcript of one video,
// answering GET /api/transcript/{basename}.
func (h *Handlers) GetTranscript(w http.ResponseWriter, r *http.Request) {
	basename := mux.Vars(r)["basename"]
	if basename == "" {
		writeJSONError(w, "basename is required", http.StatusBadRequest)
		return
	}

	transcript, err := h.engine.GetTranscript(basename)
	if err != nil {
		if errors.Is(err, database.ErrVideoNotFound) {
			writeJSONError(w, "video not found", http.StatusNotFound)
			return
		}
		logging.Error("GetTranscript failed for %q: %v", basename, err)
		writeJSONError(w, "failed to load transcript", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, transcript)
}
