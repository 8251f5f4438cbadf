// Package transport performs the network requests against the remote
// ingestion service and classifies their outcomes: transport-level
// failure, HTTP-level failure, or an application-level rejection inside
// a 2xx response.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
)

// Standard errors
var (
	// ErrTransport marks connection-level failures (refused, DNS,
	// timeout). These are retryable in the legacy path.
	ErrTransport = errors.New("transport: request failed")
	// ErrRejected marks a 2xx response whose body carries success=false.
	// Retrying the identical payload cannot fix it.
	ErrRejected = errors.New("transport: payload rejected")
)

// Client posts JSON bodies to the ingestion service. The timeout is
// per-call because the bulk path scales it with data volume.
type Client struct {
	base   string
	rt     http.RoundTripper
	logger *slog.Logger
}

// NewClient creates a client for the service at base.
func NewClient(base string, logger *slog.Logger) *Client {
	return &Client{base: base, logger: logger}
}

// WithRoundTripper returns a copy of the client using rt for the
// underlying HTTP exchange. Tests inject scripted round trippers here.
func (c *Client) WithRoundTripper(rt http.RoundTripper) *Client {
	clone := *c
	clone.rt = rt
	return &clone
}

// Post sends body to path and returns the raw response regardless of
// status code. A non-nil error always wraps ErrTransport; HTTP-level
// and application-level failures are left to the caller to classify
// from the Response.
func (c *Client) Post(ctx context.Context, path string, body []byte, timeout time.Duration) (*Response, error) {
	httpClient := &http.Client{Timeout: timeout, Transport: c.rt}

	var resp Response
	builder := requests.
		URL(c.base).
		Path(path).
		Post().
		ContentType("application/json").
		Client(httpClient).
		AddValidator(nil).
		Handle(func(res *http.Response) error {
			resp.StatusCode = res.StatusCode
			b, err := io.ReadAll(res.Body)
			if err != nil {
				return err
			}
			resp.Body = b
			return nil
		})
	if body != nil {
		builder = builder.BodyBytes(body)
	}

	start := time.Now()
	if err := builder.Fetch(ctx); err != nil {
		return nil, fmt.Errorf("%w: POST %s: %v", ErrTransport, path, err)
	}

	c.logger.Debug("request completed",
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start).Round(time.Millisecond).String())
	return &resp, nil
}
