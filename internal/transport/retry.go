package transport

import (
	"context"
	"time"
)

// RetryPolicy bounds delivery attempts for one unit of work and fixes
// the pause between them. It is injected into the legacy sync path so
// retry behavior is testable without real network calls or sleeps.
type RetryPolicy struct {
	MaxAttempts int
	Pause       time.Duration

	// Sleep is the pause implementation. Left nil, a context-aware
	// time.Sleep equivalent is used. Tests substitute a recorder.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy mirrors the service contract: 3 attempts with a
// 2 second pause between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Pause: 2 * time.Second}
}

// Do runs fn up to MaxAttempts times, pausing between attempts. fn
// returning nil stops the loop. When all attempts fail, the last error
// is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if attempt < p.MaxAttempts {
			if err := sleep(ctx, p.Pause); err != nil {
				return err
			}
		}
	}
	return lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
