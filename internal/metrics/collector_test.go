package metrics

import (
	"sync"
	"testing"
	"time"
)

type mockStatsProvider struct {
	mu    sync.Mutex
	stats Stats
	calls int
}

func (m *mockStatsProvider) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.stats
}

func (m *mockStatsProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestCollectorCollect(t *testing.T) {
	provider := &mockStatsProvider{stats: Stats{
		TotalVideos:     10,
		SubtitledVideos: 7,
		TotalSegments:   1234,
	}}

	c := NewCollector(provider, time.Hour)

	// Must not panic and must consult the provider.
	c.collect()

	if provider.callCount() != 1 {
		t.Errorf("provider consulted %d times, want 1", provider.callCount())
	}
}

func TestCollectorNilProvider(t *testing.T) {
	c := NewCollector(nil, time.Hour)
	// Must not panic.
	c.collect()
}

func TestCollectorStartStop(t *testing.T) {
	provider := &mockStatsProvider{}
	c := NewCollector(provider, 10*time.Millisecond)

	c.Start()
	time.Sleep(35 * time.Millisecond)
	c.Stop()

	// One immediate collection plus at least one tick.
	if provider.callCount() < 2 {
		t.Errorf("provider consulted %d times, want at least 2", provider.callCount())
	}
}

func TestInitializeMetrics(t *testing.T) {
	// Must not panic on repeated calls.
	InitializeMetrics()
	InitializeMetrics()
}
