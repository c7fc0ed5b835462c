package hris

import (
	"context"
	"time"
)

// RetryPolicy declares opt-in retry behavior for a single call. The zero
// value disables retries. MaxRetries counts retries, not attempts: a
// policy of 3 yields at most 4 attempts. The delay between attempts is
// constant; retries stop early when the context is done.
//
// Retries apply to network failures and 5xx responses only. A 4xx is a
// definitive answer and is never retried here; the separate 401
// refresh-and-replay path composes with this one, so a request can both
// retry on flakiness and still get its single silent token refresh.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
}

// retryable reports whether the failure class is worth another attempt.
func retryable(err error) bool {
	apiErr, ok := err.(*Error)
	if !ok {
		return false
	}
	return apiErr.Kind == KindNetwork || apiErr.StatusCode >= 500
}

// sleep waits for the policy delay or the context, whichever ends first.
func (p RetryPolicy) sleep(ctx context.Context) error {
	if p.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
