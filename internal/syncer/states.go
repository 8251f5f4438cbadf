package syncer

// State is the interface all pipeline states implement. Transitions are
// enforced by the type system: each state exposes only the moves the
// pipeline allows from it.
type State interface {
	Name() string
}

// IdleState - run created, nothing sent yet
type IdleState struct{}

func (s *IdleState) Name() string { return "idle" }
func (s *IdleState) ToSessionReset() *SessionResetState {
	return &SessionResetState{}
}

// SessionResetState - best-effort reset of prior staged state
type SessionResetState struct{}

func (s *SessionResetState) Name() string { return "session_reset" }
func (s *SessionResetState) ToBulkAttempt() *BulkAttemptState {
	return &BulkAttemptState{}
}

// BulkAttemptState - single-request transfer of all tables
type BulkAttemptState struct{}

func (s *BulkAttemptState) Name() string { return "bulk_attempt" }
func (s *BulkAttemptState) ToDone(success bool) *DoneState {
	return &DoneState{Success: success}
}
func (s *BulkAttemptState) ToLegacyAttempt() *LegacyAttemptState {
	return &LegacyAttemptState{}
}

// LegacyAttemptState - per-table, per-batch fallback transfer
type LegacyAttemptState struct{}

func (s *LegacyAttemptState) Name() string { return "legacy_attempt" }
func (s *LegacyAttemptState) ToDone(success bool) *DoneState {
	return &DoneState{Success: success}
}

// DoneState - terminal verdict
type DoneState struct {
	Success bool
}

func (s *DoneState) Name() string { return "done" }

// StateRecorder tracks state transitions for testing.
type StateRecorder struct {
	path []string
}

func NewStateRecorder() *StateRecorder {
	return &StateRecorder{path: make([]string, 0)}
}

func (r *StateRecorder) Record(state State) {
	r.path = append(r.path, state.Name())
}

func (r *StateRecorder) Path() []string {
	return r.path
}
