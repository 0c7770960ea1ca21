package metrics

// InitializeMetrics pre-populates expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, mode := range []string{"exact", "fuzzy"} {
		SearchQueriesTotal.WithLabelValues(mode, "success")
		SearchQueriesTotal.WithLabelValues(mode, "error")
		SearchDuration.WithLabelValues(mode)
	}

	for _, status := range []string{"success", "error", "rejected"} {
		ReindexRunsTotal.WithLabelValues(status)
	}

	for _, op := range []string{"initialize_schema", "replace_all", "search_exact",
		"search_fuzzy", "list_videos", "get_video", "get_transcript", "stats"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	for _, subtitled := range []string{"yes", "no"} {
		IndexedVideosTotal.WithLabelValues(subtitled)
	}
}
