package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wimjan123/srt-search/internal/mediatypes"
)

// ServeMedia streams a file from the media tree, answering
// GET /media/{path}. Range requests are handled by http.ServeFile so
// players can seek.
func (h *Handlers) ServeMedia(w http.ResponseWriter, r *http.Request) {
	filePath := mux.Vars(r)["path"]
	if filePath == "" {
		writeJSONError(w, "path is required", http.StatusBadRequest)
		return
	}

	fullPath := filepath.Join(h.mediaDir, filePath)

	// Security check
	absPath, err := filepath.Abs(fullPath)
	if err != nil || !isSubPath(h.mediaDir, absPath) {
		writeJSONError(w, "invalid path", http.StatusBadRequest)
		return
	}

	info, err := os.Stat(absPath)
	if err != nil || info.IsDir() {
		writeJSONError(w, "file not found", http.StatusNotFound)
		return
	}

	ext := filepath.Ext(absPath)
	w.Header().Set("Content-Type", mediatypes.GetMimeType(ext))

	http.ServeFile(w, r, absPath)
}

// isSubPath reports whether child resolves inside parent. The
// separator check keeps sibling directories sharing a name prefix
// (e.g. /data/media-private next to /data/media) outside.
func isSubPath(parent, child string) bool {
	parent, _ = filepath.Abs(parent)
	child, _ = filepath.Abs(child)
	if child == parent {
		return true
	}
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}
