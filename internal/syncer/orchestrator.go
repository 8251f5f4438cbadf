// Package syncer drives the synchronization run: it resets the remote
// session, attempts the all-or-nothing bulk transfer, falls back to the
// chunked legacy transfer on any bulk failure, and reconciles the
// per-table outcomes into a single terminal verdict.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/safaedu/schoolsync/internal/batch"
	"github.com/safaedu/schoolsync/internal/payload"
	"github.com/safaedu/schoolsync/internal/record"
	"github.com/safaedu/schoolsync/internal/session"
	"github.com/safaedu/schoolsync/internal/transport"
)

// Ingestion service endpoints driven by the orchestrator.
const (
	BulkSyncPath   = "/api/bulk-sync/"
	LegacySyncPath = "/api/sync/"
)

// ErrRetriesExhausted marks a batch that failed every delivery attempt.
// It is fatal for the run: remaining batches and tables are not tried.
var ErrRetriesExhausted = errors.New("syncer: delivery attempts exhausted")

// validationErrorLogLimit caps how many row-level rejections a single
// response contributes to the log.
const validationErrorLogLimit = 5

// Config holds the orchestrator's sync parameters.
type Config struct {
	// Database is the target-database identifier sent in every payload.
	Database string `toml:"database"`
	// BatchSize caps legacy-path batches. Must be positive.
	BatchSize int `toml:"batch_size"`
}

// DefaultConfig returns the deployed service's sync parameters.
func DefaultConfig() Config {
	return Config{
		Database:  "safa",
		BatchSize: 3000,
	}
}

// Orchestrator is one execution instance of the sync pipeline. A single
// logical thread drives it: extraction, encoding, and transmission are
// sequential with no overlap between tables or batches.
type Orchestrator struct {
	run      *Run
	config   Config
	client   *transport.Client
	session  *session.Controller
	retry    transport.RetryPolicy
	timeouts transport.Timeouts
	logger   *slog.Logger

	state  State
	tables []record.Table
	result *Result

	// now is the payload timestamp source, replaceable in tests.
	now func() time.Time

	// Optional state recorder for testing
	recorder *StateRecorder
}

// New creates an orchestrator for one run.
func New(
	run *Run,
	config Config,
	client *transport.Client,
	sessionController *session.Controller,
	retry transport.RetryPolicy,
	timeouts transport.Timeouts,
) *Orchestrator {
	return &Orchestrator{
		run:      run,
		config:   config,
		client:   client,
		session:  sessionController,
		retry:    retry,
		timeouts: timeouts,
		logger:   run.Logger,
		state:    &IdleState{},
		now:      time.Now,
	}
}

// Sync runs the pipeline over the extracted tables and returns the
// run's terminal result. Tables must already be fully in memory and are
// treated as read-only.
func (o *Orchestrator) Sync(ctx context.Context, tables []record.Table) *Result {
	o.tables = tables
	o.result = &Result{Mode: ModeNone}

	for {
		switch s := o.state.(type) {
		case *IdleState:
			o.transitionTo(s.ToSessionReset())
		case *SessionResetState:
			o.runSessionReset(ctx, s)
		case *BulkAttemptState:
			o.runBulkAttempt(ctx, s)
		case *LegacyAttemptState:
			o.runLegacyAttempt(ctx, s)
		case *DoneState:
			o.runDone(s)
			return o.result
		default:
			o.logger.Error("unknown state type", "state", fmt.Sprintf("%T", o.state))
			o.result.Err = fmt.Errorf("syncer: unknown state %T", o.state)
			o.transitionTo(&DoneState{Success: false})
		}
	}
}

// transitionTo performs a state transition and logs it
func (o *Orchestrator) transitionTo(newState State) {
	oldStateName := o.state.Name()
	o.state = newState

	if o.recorder != nil {
		o.recorder.Record(newState)
	}

	o.logger.Info("state transition",
		"from", oldStateName,
		"to", newState.Name())
}

// runSessionReset issues the best-effort reset. Its outcome never
// changes the pipeline's course.
func (o *Orchestrator) runSessionReset(ctx context.Context, state *SessionResetState) {
	o.session.Reset(ctx)
	o.transitionTo(state.ToBulkAttempt())
}

// runBulkAttempt sends all tables in one payload. Exactly one attempt:
// any failure, transport or otherwise, falls through to the legacy
// path instead of retrying.
func (o *Orchestrator) runBulkAttempt(ctx context.Context, state *BulkAttemptState) {
	bulk := payload.NewBulkPayload(o.config.Database, o.tables, o.now())

	body, err := bulk.Encode()
	if err != nil {
		// Encoding failure is not a transfer failure: the legacy path
		// would encode the same records and fail identically, so the
		// run is rejected outright.
		o.logger.Error("bulk payload encoding failed", "error", err)
		o.result.Err = err
		o.transitionTo(state.ToDone(false))
		return
	}

	timeout := o.timeouts.Bulk(bulk.TotalRecords())
	o.logger.Info("attempting bulk sync",
		"total_records", bulk.TotalRecords(),
		"payload_bytes", len(body),
		"timeout", timeout.String())

	resp, err := o.client.Post(ctx, BulkSyncPath, body, timeout)
	if err != nil {
		o.logger.Warn("bulk sync transport failure, falling back to legacy mode", "error", err)
		o.result.BulkFailure = "transport error"
		o.transitionTo(state.ToLegacyAttempt())
		return
	}

	if !resp.OK() {
		o.logger.Warn("bulk sync rejected with http error, falling back to legacy mode",
			"status", resp.StatusCode,
			"error", resp.ErrorMessage())
		o.result.BulkFailure = fmt.Sprintf("http status %d", resp.StatusCode)
		o.transitionTo(state.ToLegacyAttempt())
		return
	}

	if !resp.Success() {
		o.logger.Warn("bulk sync rejected by server, falling back to legacy mode",
			"error", resp.ErrorMessage())
		for _, ve := range resp.ValidationErrors(validationErrorLogLimit) {
			o.logger.Warn("validation error", "row", ve.Row, "errors", ve.Errors)
		}
		o.result.BulkFailure = "rejected: " + resp.ErrorMessage()
		o.transitionTo(state.ToLegacyAttempt())
		return
	}

	counts := resp.TableCounts()
	for _, t := range o.tables {
		o.result.Tables = append(o.result.Tables, TableResult{
			Table:     t.Name,
			Records:   t.Count(),
			Processed: counts[t.Name],
			Synced:    true,
		})
	}
	o.result.Mode = ModeBulk
	o.logger.Info("bulk sync successful",
		"total_records", resp.TotalRecords(),
		"tables_processed", resp.TablesProcessed())
	o.transitionTo(state.ToDone(true))
}

// runLegacyAttempt delivers each table batch by batch, in declared
// order, under the retry policy. The first batch to exhaust its
// attempts fails the run; later batches and tables are not tried.
func (o *Orchestrator) runLegacyAttempt(ctx context.Context, state *LegacyAttemptState) {
	o.result.Mode = ModeLegacy
	o.logger.Info("starting legacy batch sync", "batch_size", o.config.BatchSize)

	for _, table := range o.tables {
		if table.Count() == 0 {
			o.logger.Info("table skipped, no records", "table", table.Name)
			o.result.Tables = append(o.result.Tables, TableResult{
				Table:   table.Name,
				Synced:  true,
				Skipped: true,
			})
			continue
		}

		batches, err := batch.Chunk(table.Records, o.config.BatchSize)
		if err != nil {
			o.logger.Error("invalid batch configuration", "error", err)
			o.result.Err = err
			o.result.Tables = append(o.result.Tables, TableResult{Table: table.Name})
			o.transitionTo(state.ToDone(false))
			return
		}

		o.logger.Info("syncing table",
			"table", table.Name,
			"records", table.Count(),
			"batches", len(batches))

		for _, b := range batches {
			if err := o.deliverBatch(ctx, table.Name, b); err != nil {
				o.logger.Error("batch delivery failed, aborting run",
					"table", table.Name,
					"batch", b.Index+1,
					"batches", b.Count,
					"error", err)
				o.result.Err = err
				o.result.Tables = append(o.result.Tables, TableResult{
					Table:   table.Name,
					Records: table.Count(),
					Batches: b.Index,
				})
				o.transitionTo(state.ToDone(false))
				return
			}
		}

		o.logger.Info("table synced",
			"table", table.Name,
			"records", table.Count())
		o.result.Tables = append(o.result.Tables, TableResult{
			Table:   table.Name,
			Records: table.Count(),
			Batches: len(batches),
			Synced:  true,
		})
	}

	o.transitionTo(state.ToDone(true))
}

// deliverBatch sends one batch under the retry policy. An application
// rejection consumes an attempt like any other failure; the service
// contract treats every non-success response uniformly inside the
// retry loop.
func (o *Orchestrator) deliverBatch(ctx context.Context, table string, b batch.Batch) error {
	body, err := payload.NewBatchPayload(o.config.Database, table, b).Encode()
	if err != nil {
		return err
	}

	err = o.retry.Do(ctx, func(attempt int) error {
		o.logger.Debug("sending batch",
			"table", table,
			"batch", b.Index+1,
			"batches", b.Count,
			"attempt", attempt)

		resp, err := o.client.Post(ctx, LegacySyncPath, body, o.timeouts.Batch)
		if err != nil {
			o.logger.Warn("batch transport failure",
				"table", table,
				"batch", b.Index+1,
				"attempt", attempt,
				"error", err)
			return err
		}
		if !resp.OK() {
			o.logger.Warn("batch rejected with http error",
				"table", table,
				"batch", b.Index+1,
				"attempt", attempt,
				"status", resp.StatusCode)
			return fmt.Errorf("http status %d", resp.StatusCode)
		}
		if !resp.Success() {
			o.logger.Warn("batch rejected by server",
				"table", table,
				"batch", b.Index+1,
				"attempt", attempt,
				"error", resp.ErrorMessage())
			return fmt.Errorf("%w: %s", transport.ErrRejected, resp.ErrorMessage())
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: table %s batch %d/%d: %v",
			ErrRetriesExhausted, table, b.Index+1, b.Count, err)
	}
	return nil
}

// runDone records the terminal verdict.
func (o *Orchestrator) runDone(state *DoneState) {
	o.result.Success = state.Success
	if state.Success {
		o.logger.Info("sync completed successfully",
			"mode", string(o.result.Mode),
			"elapsed", time.Since(o.run.StartedAt).Round(time.Millisecond).String())
	} else {
		o.logger.Error("sync failed",
			"mode", string(o.result.Mode),
			"error", o.result.Err)
	}
}
