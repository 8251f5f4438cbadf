package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/safaedu/schoolsync/internal/testutil"
	"github.com/safaedu/schoolsync/internal/transport"
)

func newController(rt *testutil.ScriptedTransport, logger *testutil.TestLogger) *Controller {
	client := transport.NewClient("http://example.test", logger.Logger()).WithRoundTripper(rt)
	return NewController(client, 30*time.Second, logger.Logger())
}

// TestController_Reset_Success verifies a 200 response reports true.
func TestController_Reset_Success(t *testing.T) {
	rt := testutil.NewScriptedTransport().
		Script(ResetPath, testutil.ScriptedReply{Status: 200, Body: `{}`})
	logger := testutil.NewTestLogger()

	if !newController(rt, logger).Reset(context.Background()) {
		t.Error("expected reset to report success")
	}
	if logger.HasWarning() {
		t.Error("successful reset must not warn")
	}
}

// TestController_Reset_NonOKIsNonFatal verifies a non-200 response warns
// and reports false without erroring.
func TestController_Reset_NonOKIsNonFatal(t *testing.T) {
	rt := testutil.NewScriptedTransport().
		Script(ResetPath, testutil.ScriptedReply{Status: 503, Body: `busy`})
	logger := testutil.NewTestLogger()

	if newController(rt, logger).Reset(context.Background()) {
		t.Error("expected reset to report failure")
	}
	if !logger.HasWarning() {
		t.Error("failed reset must log a warning")
	}
}

// TestController_Reset_TransportErrorIsNonFatal verifies a connection
// failure warns and reports false.
func TestController_Reset_TransportErrorIsNonFatal(t *testing.T) {
	rt := testutil.NewScriptedTransport().
		Script(ResetPath, testutil.ScriptedReply{Err: errors.New("connection refused")})
	logger := testutil.NewTestLogger()

	if newController(rt, logger).Reset(context.Background()) {
		t.Error("expected reset to report failure")
	}
	if !logger.HasWarning() {
		t.Error("failed reset must log a warning")
	}
}

// TestController_Reset_SendsEmptyBody verifies the reset call carries no
// payload.
func TestController_Reset_SendsEmptyBody(t *testing.T) {
	rt := testutil.NewScriptedTransport().
		Script(ResetPath, testutil.ScriptedReply{Status: 200, Body: `{}`})
	logger := testutil.NewTestLogger()

	newController(rt, logger).Reset(context.Background())

	calls := rt.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	if len(calls[0].Body) != 0 {
		t.Errorf("reset body: got %q, want empty", calls[0].Body)
	}
}
