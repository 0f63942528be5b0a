package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBackoff is used when an API signals throttling without a delay.
const DefaultBackoff = 5 * time.Second

// Throttle paces outgoing API calls with a token bucket and an optional
// backoff window set after the API reports throttling.
type Throttle struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewThrottle creates a throttle allowing perSecond calls with the given burst.
func NewThrottle(perSecond float64, burst int) *Throttle {
	if burst < 1 {
		burst = 1
	}
	return &Throttle{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Wait blocks until a call may be made, honouring any active backoff.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	retryAt := t.retryAt
	t.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return t.limiter.Wait(ctx)
}

// Backoff blocks calls until retryAfter has elapsed.
// A non-positive retryAfter uses DefaultBackoff. An earlier deadline never
// shortens an active backoff.
func (t *Throttle) Backoff(retryAfter time.Duration) {
	if retryAfter <= 0 {
		retryAfter = DefaultBackoff
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if until := time.Now().Add(retryAfter); until.After(t.retryAt) {
		t.retryAt = until
	}
}

// RetryAt returns the end of the current backoff window.
func (t *Throttle) RetryAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.retryAt
}
