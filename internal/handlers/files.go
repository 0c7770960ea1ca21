package handlers

import (
	"net/http"

	"github.com/wimjan123/srt-search/internal/database"
	"github.com/wimjan123/srt-search/internal/logging"
)

// FilesResponse is the payload of GET /api/files.
type FilesResponse struct {
	Total  int              `json:"total"`
	Videos []database.Video `json:"videos"`
}

// ListFiles returns every indexed video ordered by basename.
func (h *Handlers) ListFiles(w http.ResponseWriter, _ *http.Request) {
	videos, err := h.engine.ListVideos()
	if err != nil {
		logging.Error("ListFiles failed: %v", err)
		writeJSONError(w, "failed to list videos", http.StatusInternalServerError)
		return
	}

	if videos == nil {
		videos = []database.Video{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, FilesResponse{Total: len(videos), Videos: videos})
}
