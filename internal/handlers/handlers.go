package handlers

import (
	"context"
	"time"

	"github.com/wimjan123/srt-search/internal/database"
	"github.com/wimjan123/srt-search/internal/reindex"
	"github.com/wimjan123/srt-search/internal/search"
	"github.com/wimjan123/srt-search/internal/startup"
)

// reindexPipeline is the slice of the reindex pipeline the handlers use.
type reindexPipeline interface {
	TriggerAsync(ctx context.Context) error
	IsRunning() bool
	Status() reindex.Summary
}

type Handlers struct {
	db        *database.Database
	engine    *search.Engine
	pipeline  reindexPipeline
	mediaDir  string
	startTime time.Time
}

func New(db *database.Database, engine *search.Engine, pipeline *reindex.Pipeline, config *startup.Config) *Handlers {
	return &Handlers{
		db:        db,
		engine:    engine,
		pipeline:  pipeline,
		mediaDir:  config.MediaDir,
		startTime: time.Now(),
	}
}
