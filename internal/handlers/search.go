package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/wimjan123/srt-search/internal/logging"
	"github.com/wimjan123/srt-search/internal/search"
)

// Search answers GET /api/search. Query parameters:
//
//	q      the query string (required)
//	file   restrict results to one video basename
//	offset pagination offset
//	limit  page size, capped server-side
//	fuzzy  enable typo-tolerant fallback (default true)
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	req := search.Request{
		Query: r.URL.Query().Get("q"),
		File:  r.URL.Query().Get("file"),
		Fuzzy: true,
	}

	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		req.Offset = offset
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		req.Limit = limit
	}
	if fuzzy, err := strconv.ParseBool(r.URL.Query().Get("fuzzy")); err == nil {
		req.Fuzzy = fuzzy
	}

	result, err := h.engine.Search(req)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			writeJSONError(w, "query parameter 'q' is required", http.StatusBadRequest)
			return
		}
		logging.Error("Search failed for %q: %v", req.Query, err)
		writeJSONError(w, "search failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, result)
}
