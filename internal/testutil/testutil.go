// Package testutil provides shared test doubles: a log-capturing slog
// handler and a scripted HTTP round tripper for exercising the sync
// pipeline without a real service.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
)

// TestLogger provides a logger that captures logs for testing
type TestLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

func NewTestLogger() *TestLogger {
	return &TestLogger{
		entries: make([]LogEntry, 0),
	}
}

func (l *TestLogger) log(level, msg string, fields ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Level:   level,
		Message: msg,
		Fields:  make(map[string]interface{}),
	}

	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			key := fmt.Sprintf("%v", fields[i])
			entry.Fields[key] = fields[i+1]
		}
	}

	l.entries = append(l.entries, entry)
}

func (l *TestLogger) GetEntries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]LogEntry, len(l.entries))
	copy(result, l.entries)
	return result
}

func (l *TestLogger) GetEntriesByLevel(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]LogEntry, 0)
	for _, entry := range l.entries {
		if entry.Level == level {
			result = append(result, entry)
		}
	}
	return result
}

func (l *TestLogger) HasError() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, entry := range l.entries {
		if entry.Level == "ERROR" {
			return true
		}
	}
	return false
}

func (l *TestLogger) HasWarning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, entry := range l.entries {
		if entry.Level == "WARN" {
			return true
		}
	}
	return false
}

// Logger returns a *slog.Logger that writes to this TestLogger
func (l *TestLogger) Logger() *slog.Logger {
	return slog.New(&testLogHandler{logger: l})
}

// testLogHandler implements slog.Handler for TestLogger
type testLogHandler struct {
	logger *TestLogger
	attrs  []slog.Attr
	groups []string
}

func (h *testLogHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *testLogHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]interface{}, 0, r.NumAttrs()*2)
	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, a.Key, a.Value.Any())
		return true
	})
	for _, attr := range h.attrs {
		fields = append(fields, attr.Key, attr.Value.Any())
	}

	h.logger.log(r.Level.String(), r.Message, fields...)
	return nil
}

func (h *testLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	return &testLogHandler{
		logger: h.logger,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *testLogHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups[len(h.groups)] = name
	return &testLogHandler{
		logger: h.logger,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

// ScriptedCall is one request observed by a ScriptedTransport.
type ScriptedCall struct {
	Path string
	Body []byte
}

// ScriptedReply is one response a ScriptedTransport hands out. Err, when
// set, simulates a transport-level failure instead of a response.
type ScriptedReply struct {
	Status int
	Body   string
	Err    error
}

// ScriptedTransport is an http.RoundTripper that matches requests by
// URL path and replies from per-path scripts, recording every call.
// When a path's script runs out, its last reply repeats.
type ScriptedTransport struct {
	mu      sync.Mutex
	scripts map[string][]ScriptedReply
	served  map[string]int
	calls   []ScriptedCall
}

func NewScriptedTransport() *ScriptedTransport {
	return &ScriptedTransport{
		scripts: make(map[string][]ScriptedReply),
		served:  make(map[string]int),
	}
}

// Script appends replies to the script for a path.
func (t *ScriptedTransport) Script(path string, replies ...ScriptedReply) *ScriptedTransport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scripts[path] = append(t.scripts[path], replies...)
	return t
}

// Calls returns the requests observed so far.
func (t *ScriptedTransport) Calls() []ScriptedCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	result := make([]ScriptedCall, len(t.calls))
	copy(result, t.calls)
	return result
}

// CallsTo returns the number of requests observed for a path.
func (t *ScriptedTransport) CallsTo(path string) int {
	n := 0
	for _, c := range t.Calls() {
		if c.Path == path {
			n++
		}
	}
	return n
}

func (t *ScriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
		body = b
	}

	t.mu.Lock()
	t.calls = append(t.calls, ScriptedCall{Path: req.URL.Path, Body: body})
	script := t.scripts[req.URL.Path]
	if len(script) == 0 {
		t.mu.Unlock()
		return nil, fmt.Errorf("testutil: no scripted reply for %s", req.URL.Path)
	}
	idx := t.served[req.URL.Path]
	if idx >= len(script) {
		idx = len(script) - 1
	}
	t.served[req.URL.Path]++
	reply := script[idx]
	t.mu.Unlock()

	if reply.Err != nil {
		return nil, reply.Err
	}
	return &http.Response{
		StatusCode: reply.Status,
		Body:       io.NopCloser(bytes.NewReader([]byte(reply.Body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Request:    req,
	}, nil
}
