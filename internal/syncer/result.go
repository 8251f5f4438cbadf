package syncer

// Mode names the strategy that produced the run's verdict.
type Mode string

const (
	// ModeNone - no strategy completed (encoding or configuration
	// failure before any transfer finished).
	ModeNone Mode = "none"
	// ModeBulk - the single-request transfer succeeded.
	ModeBulk Mode = "bulk"
	// ModeLegacy - the per-batch fallback produced the verdict.
	ModeLegacy Mode = "legacy"
)

// TableResult is the per-table reconciliation for the run. In bulk mode
// Processed carries the server-reported count; in legacy mode Batches
// counts the delivered batches and Skipped marks zero-record tables.
type TableResult struct {
	Table     string
	Records   int
	Processed int
	Batches   int
	Synced    bool
	Skipped   bool
}

// Result is the run's terminal outcome. Exactly one is produced per
// invocation; nothing is persisted beyond the run log.
type Result struct {
	Success bool
	Mode    Mode
	// BulkFailure names why the bulk path fell through to legacy,
	// empty when bulk succeeded or was never reached.
	BulkFailure string
	Tables      []TableResult
	Err         error
}
