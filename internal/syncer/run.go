package syncer

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Run is the run-scoped context threaded through the pipeline: a unique
// run ID, the run's start time, and a structured logger carrying the ID
// on every event. Lifecycle is exactly one sync run; no state survives
// the process.
type Run struct {
	ID        string
	StartedAt time.Time
	Logger    *slog.Logger
}

// NewRun starts a new run context.
func NewRun(logger *slog.Logger) *Run {
	id := uuid.New().String()
	return &Run{
		ID:        id,
		StartedAt: time.Now(),
		Logger:    logger.With("run_id", id),
	}
}
