package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/safaedu/schoolsync/internal/testutil"
)

// =============================================================================
// Client Tests
// =============================================================================

// TestClient_Post_ReturnsStatusAndBody verifies the client surfaces the
// raw response regardless of status code.
func TestClient_Post_ReturnsStatusAndBody(t *testing.T) {
	rt := testutil.NewScriptedTransport().
		Script("/api/sync/", testutil.ScriptedReply{Status: 200, Body: `{"success":true}`})
	logger := testutil.NewTestLogger()
	client := NewClient("http://example.test", logger.Logger()).WithRoundTripper(rt)

	resp, err := client.Post(context.Background(), "/api/sync/", []byte(`{}`), time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != `{"success":true}` {
		t.Errorf("body: got %s", resp.Body)
	}
}

// TestClient_Post_NonOKIsNotTransportError verifies a 5xx response comes
// back as a Response, not an error; the caller classifies it.
func TestClient_Post_NonOKIsNotTransportError(t *testing.T) {
	rt := testutil.NewScriptedTransport().
		Script("/api/sync/", testutil.ScriptedReply{Status: 503, Body: `service unavailable`})
	logger := testutil.NewTestLogger()
	client := NewClient("http://example.test", logger.Logger()).WithRoundTripper(rt)

	resp, err := client.Post(context.Background(), "/api/sync/", []byte(`{}`), time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 503 {
		t.Errorf("status: got %d, want 503", resp.StatusCode)
	}
	if resp.OK() {
		t.Error("503 must not classify as OK")
	}
}

// TestClient_Post_TransportFailure verifies connection-level failures
// wrap ErrTransport.
func TestClient_Post_TransportFailure(t *testing.T) {
	rt := testutil.NewScriptedTransport().
		Script("/api/sync/", testutil.ScriptedReply{Err: errors.New("connection refused")})
	logger := testutil.NewTestLogger()
	client := NewClient("http://example.test", logger.Logger()).WithRoundTripper(rt)

	_, err := client.Post(context.Background(), "/api/sync/", []byte(`{}`), time.Minute)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("got %v, want ErrTransport", err)
	}
}

// TestClient_Post_SendsBody verifies the request body and path reach the
// wire unchanged.
func TestClient_Post_SendsBody(t *testing.T) {
	rt := testutil.NewScriptedTransport().
		Script("/api/bulk-sync/", testutil.ScriptedReply{Status: 200, Body: `{}`})
	logger := testutil.NewTestLogger()
	client := NewClient("http://example.test", logger.Logger()).WithRoundTripper(rt)

	body := []byte(`{"database":"safa"}`)
	if _, err := client.Post(context.Background(), "/api/bulk-sync/", body, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := rt.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	if calls[0].Path != "/api/bulk-sync/" {
		t.Errorf("path: got %s", calls[0].Path)
	}
	if string(calls[0].Body) != string(body) {
		t.Errorf("body: got %s, want %s", calls[0].Body, body)
	}
}

// =============================================================================
// Response Classification Tests
// =============================================================================

// TestResponse_Success verifies the application-level success flag.
func TestResponse_Success(t *testing.T) {
	cases := []struct {
		body string
		want bool
	}{
		{`{"success":true}`, true},
		{`{"success":false}`, false},
		{`{}`, false},
		{`not json`, false},
	}
	for _, tc := range cases {
		r := &Response{StatusCode: 200, Body: []byte(tc.body)}
		if r.Success() != tc.want {
			t.Errorf("body %q: got %v, want %v", tc.body, r.Success(), tc.want)
		}
	}
}

// TestResponse_ErrorMessage verifies error extraction with a fallback.
func TestResponse_ErrorMessage(t *testing.T) {
	r := &Response{Body: []byte(`{"success":false,"error":"bad database"}`)}
	if got := r.ErrorMessage(); got != "bad database" {
		t.Errorf("got %q", got)
	}

	r = &Response{Body: []byte(`{}`)}
	if got := r.ErrorMessage(); got != "unknown error" {
		t.Errorf("got %q, want placeholder", got)
	}
}

// TestResponse_ValidationErrors verifies row-level rejection extraction
// and the limit.
func TestResponse_ValidationErrors(t *testing.T) {
	body := `{"success":false,"error":"validation failed","validation_errors":[
		{"row":1,"errors":{"mark":"invalid"}},
		{"row":7,"errors":{"grade":"missing"}},
		{"row":9,"errors":{"term":"unknown"}}]}`
	r := &Response{Body: []byte(body)}

	errs := r.ValidationErrors(2)
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}
	if errs[0].Row != 1 || errs[1].Row != 7 {
		t.Errorf("rows: got %d,%d", errs[0].Row, errs[1].Row)
	}
}

// TestResponse_TableCounts verifies the bulk reconciliation parse.
func TestResponse_TableCounts(t *testing.T) {
	body := `{"success":true,"total_records":42,"tables_processed":2,
		"results":{"acc_users":{"records_processed":40},"personel":{"records_processed":2}}}`
	r := &Response{StatusCode: 200, Body: []byte(body)}

	counts := r.TableCounts()
	if counts["acc_users"] != 40 || counts["personel"] != 2 {
		t.Errorf("counts: got %v", counts)
	}
	if r.TotalRecords() != 42 {
		t.Errorf("total: got %d", r.TotalRecords())
	}
	if r.TablesProcessed() != 2 {
		t.Errorf("tables: got %d", r.TablesProcessed())
	}
}
