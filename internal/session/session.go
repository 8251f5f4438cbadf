// Package session issues the best-effort reset call that clears prior
// staged state on the ingestion service before a transfer begins.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/safaedu/schoolsync/internal/transport"
)

// ResetPath is the session reset endpoint on the ingestion service.
const ResetPath = "/api/reset-sync-session/"

// Controller performs the pre-transfer session reset.
type Controller struct {
	client  *transport.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewController creates a controller using the given client and reset
// timeout budget.
func NewController(client *transport.Client, timeout time.Duration, logger *slog.Logger) *Controller {
	return &Controller{client: client, timeout: timeout, logger: logger}
}

// Reset asks the service to drop any partial state from earlier runs.
// Best effort: a non-200 response or transport failure is logged as a
// warning and reported as false, never aborting the sync. The service
// treats a subsequent upload as authoritative either way.
func (c *Controller) Reset(ctx context.Context) bool {
	c.logger.Info("resetting sync session", "path", ResetPath)

	resp, err := c.client.Post(ctx, ResetPath, nil, c.timeout)
	if err != nil {
		c.logger.Warn("could not reset sync session", "error", err)
		return false
	}
	if resp.StatusCode != 200 {
		c.logger.Warn("could not reset sync session", "status", resp.StatusCode)
		return false
	}

	c.logger.Info("sync session reset")
	return true
}
