package metrics

import (
	"time"

	"github.com/wimjan123/srt-search/internal/logging"
)

// StatsProvider supplies current index statistics for export.
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the index statistics exported as gauges.
type Stats struct {
	TotalVideos     int
	SubtitledVideos int
	TotalSegments   int
}

// Collector periodically collects and updates index metrics.
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector.
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop.
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection.
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	IndexedVideosTotal.WithLabelValues("yes").Set(float64(stats.SubtitledVideos))
	IndexedVideosTotal.WithLabelValues("no").Set(float64(stats.TotalVideos - stats.SubtitledVideos))
	IndexedSegmentsTotal.Set(float64(stats.TotalSegments))

	logging.Debug("Metrics collected: videos=%d, subtitled=%d, segments=%d",
		stats.TotalVideos, stats.SubtitledVideos, stats.TotalSegments)
}
