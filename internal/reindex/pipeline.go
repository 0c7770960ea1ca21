package reindex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/wimjan123/srt-search/internal/database"
	"github.com/wimjan123/srt-search/internal/logging"
	"github.com/wimjan123/srt-search/internal/matcher"
	"github.com/wimjan123/srt-search/internal/metrics"
	"github.com/wimjan123/srt-search/internal/srt"
	"github.com/wimjan123/srt-search/internal/workers"
)

// maxParseWorkers caps the subtitle parsing pool.
const maxParseWorkers = 16

// ErrAlreadyRunning is returned when a reindex is triggered while one
// is still in progress.
var ErrAlreadyRunning = errors.New("reindex already in progress")

// State is the current phase of the reindex pipeline.
type State string

const (
	StateIdle       State = "idle"
	StateScanning   State = "scanning"
	StateParsing    State = "parsing"
	StateCommitting State = "committing"
	StateFailed     State = "failed"
)

// Summary describes the outcome of the most recent reindex run.
type Summary struct {
	State         State     `json:"state"`
	Videos        int       `json:"videos"`
	Subtitled     int       `json:"subtitled"`
	Segments      int       `json:"segments"`
	Warnings      int       `json:"warnings"`
	SkippedBlocks int       `json:"skippedBlocks"`
	Elapsed       string    `json:"elapsed,omitempty"`
	FinishedAt    time.Time `json:"finishedAt,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// Pipeline rebuilds the subtitle index from the media tree. Runs are
// single-flight: a trigger while one is active fails fast instead of
// queueing. Searches keep serving the previous index until the new
// dataset commits.
type Pipeline struct {
	db       *database.Database
	mediaDir string

	mu      sync.Mutex
	running bool
	state   State
	last    Summary
}

// New creates a reindex pipeline over the given store and media root.
func New(db *database.Database, mediaDir string) *Pipeline {
	return &Pipeline{
		db:       db,
		mediaDir: mediaDir,
		state:    StateIdle,
	}
}

// IsRunning reports whether a reindex is currently in progress.
func (p *Pipeline) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Status returns the current phase and the summary of the last
// completed run.
func (p *Pipeline) Status() Summary {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return Summary{State: p.state}
	}
	return p.last
}

// TriggerAsync starts a reindex in the background. It fails fast with
// ErrAlreadyRunning when one is active. The run outlives the caller's
// context: cancelling an HTTP request must not abort the rebuild.
func (p *Pipeline) TriggerAsync(ctx context.Context) error {
	if !p.tryStart() {
		metrics.ReindexRunsTotal.WithLabelValues("rejected").Inc()
		return ErrAlreadyRunning
	}

	go func() {
		if _, err := p.run(context.WithoutCancel(ctx)); err != nil {
			logging.Error("Reindex failed: %v", err)
		}
	}()
	return nil
}

// Run performs a full reindex synchronously. It fails fast with
// ErrAlreadyRunning when one is active.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	if !p.tryStart() {
		metrics.ReindexRunsTotal.WithLabelValues("rejected").Inc()
		return Summary{}, ErrAlreadyRunning
	}
	return p.run(ctx)
}

// run executes the scan, parse and commit phases. The caller must have
// acquired the run slot via tryStart; run releases it.
func (p *Pipeline) run(ctx context.Context) (Summary, error) {
	start := time.Now()

	metrics.ReindexIsRunning.Set(1)
	defer metrics.ReindexIsRunning.Set(0)

	logging.Info("Starting reindex of %s", p.mediaDir)

	p.setState(StateScanning)
	scan, err := matcher.Scan(p.mediaDir)
	if err != nil {
		return p.fail(fmt.Errorf("media scan failed: %w", err))
	}
	logging.Info("Scan found %d videos (%d warnings)", len(scan.Matches), scan.Warnings)

	p.setState(StateParsing)
	parsed, err := p.parseAll(ctx, scan.Matches)
	if err != nil {
		return p.fail(err)
	}

	p.setState(StateCommitting)
	if err := p.db.ReplaceAll(ctx, parsed.dataset); err != nil {
		return p.fail(fmt.Errorf("index commit failed: %w", err))
	}

	elapsed := time.Since(start)
	warnings := scan.Warnings + parsed.warnings

	summary := Summary{
		State:         StateIdle,
		Videos:        len(parsed.dataset),
		Subtitled:     parsed.subtitled,
		Segments:      parsed.segments,
		Warnings:      warnings,
		SkippedBlocks: parsed.skippedBlocks,
		Elapsed:       elapsed.Round(time.Millisecond).String(),
		FinishedAt:    time.Now(),
	}
	p.finish(summary)

	p.db.UpdateStats(database.IndexStats{
		TotalVideos:     summary.Videos,
		SubtitledVideos: summary.Subtitled,
		TotalSegments:   summary.Segments,
		LastIndexed:     summary.FinishedAt,
		IndexDuration:   elapsed.Round(time.Millisecond).String(),
	})

	metrics.ReindexRunsTotal.WithLabelValues("success").Inc()
	metrics.ReindexLastRunTimestamp.Set(float64(summary.FinishedAt.Unix()))
	metrics.ReindexLastRunDuration.Set(elapsed.Seconds())
	metrics.ReindexWarningsTotal.Add(float64(warnings + summary.SkippedBlocks))
	metrics.IndexedVideosTotal.WithLabelValues("yes").Set(float64(summary.Subtitled))
	metrics.IndexedVideosTotal.WithLabelValues("no").Set(float64(summary.Videos - summary.Subtitled))
	metrics.IndexedSegmentsTotal.Set(float64(summary.Segments))

	logging.Info("Reindex complete: %d videos, %d segments, %d warnings in %v",
		summary.Videos, summary.Segments, warnings, elapsed.Round(time.Millisecond))

	return summary, nil
}

// parseResult aggregates the parsing phase output.
type parseResult struct {
	dataset       []database.VideoWithSegments
	subtitled     int
	segments      int
	skippedBlocks int
	warnings      int
}

// parsedEntry is one video's parsing outcome.
type parsedEntry struct {
	entry         database.VideoWithSegments
	skippedBlocks int
	warning       bool
}

// parseAll parses every matched subtitle with a bounded worker pool.
// A subtitle that cannot be read or yields no cues downgrades its
// video to unsubtitled with a warning instead of failing the run.
func (p *Pipeline) parseAll(ctx context.Context, matches []matcher.Match) (parseResult, error) {
	slots := make([]parsedEntry, len(matches))

	numWorkers := workers.ForIO(maxParseWorkers)
	logging.Debug("Parsing %d subtitles with %d workers", len(matches), numWorkers)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				slots[i] = p.parseOne(matches[i])
			}
		}()
	}

	done := ctx.Err() != nil
	for i := range matches {
		if ctx.Err() != nil {
			done = true
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if done {
		return parseResult{}, fmt.Errorf("reindex cancelled: %w", ctx.Err())
	}

	var result parseResult
	result.dataset = make([]database.VideoWithSegments, 0, len(slots))
	for _, s := range slots {
		result.dataset = append(result.dataset, s.entry)
		if s.entry.Video.HasSubtitle {
			result.subtitled++
		}
		result.segments += len(s.entry.Segments)
		result.skippedBlocks += s.skippedBlocks
		if s.warning {
			result.warnings++
		}
	}
	return result, nil
}

// parseOne converts one matched video into its index entry. It never
// returns an error, only a degraded entry.
func (p *Pipeline) parseOne(m matcher.Match) parsedEntry {
	video := database.Video{
		Basename:    m.Basename,
		RelPath:     m.RelPath,
		Ext:         m.Ext,
		Size:        m.Size,
		HasSubtitle: m.HasSubtitle,
	}

	out := parsedEntry{entry: database.VideoWithSegments{Video: video}}

	if !m.HasSubtitle {
		return out
	}

	data, err := os.ReadFile(m.SubtitlePath)
	if err != nil {
		logging.Warn("Failed to read subtitle %s: %v", m.SubtitlePath, err)
		out.entry.Video.HasSubtitle = false
		out.warning = true
		return out
	}

	parsed := srt.Parse(data)
	out.skippedBlocks = parsed.Skipped

	if len(parsed.Cues) == 0 {
		logging.Warn("Subtitle %s contains no usable cues", m.SubtitlePath)
		out.entry.Video.HasSubtitle = false
		out.warning = true
		return out
	}

	segments := make([]database.Segment, 0, len(parsed.Cues))
	for seq, cue := range parsed.Cues {
		segments = append(segments, database.Segment{
			Seq:        seq,
			StartMS:    cue.StartMS,
			EndMS:      cue.EndMS,
			Text:       cue.Text,
			SearchText: cue.SearchText,
		})
	}
	out.entry.Segments = segments
	return out
}

// tryStart attempts to claim the single run slot.
func (p *Pipeline) tryStart() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return false
	}
	p.running = true
	p.state = StateScanning
	return true
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// finish records a successful run and releases the run slot.
func (p *Pipeline) finish(summary Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.running = false
	p.state = StateIdle
	p.last = summary
}

// fail records a failed run, releases the run slot and passes the
// error through.
func (p *Pipeline) fail(err error) (Summary, error) {
	metrics.ReindexRunsTotal.WithLabelValues("error").Inc()

	p.mu.Lock()
	p.running = false
	p.state = StateIdle
	p.last = Summary{
		State:      StateFailed,
		FinishedAt: time.Now(),
		Error:      err.Error(),
	}
	summary := p.last
	p.mu.Unlock()

	return summary, err
}
