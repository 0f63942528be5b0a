package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottle_WaitAllowsBurst(t *testing.T) {
	th := NewThrottle(1, 3)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, th.Wait(ctx))
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestThrottle_BackoffBlocksUntilDeadline(t *testing.T) {
	th := NewThrottle(100, 10)
	th.Backoff(150 * time.Millisecond)

	start := time.Now()
	require.NoError(t, th.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestThrottle_BackoffRespectsContext(t *testing.T) {
	th := NewThrottle(100, 10)
	th.Backoff(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := th.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestThrottle_BackoffDefaultsAndNeverShortens(t *testing.T) {
	th := NewThrottle(1, 1)

	th.Backoff(0)
	first := th.RetryAt()
	assert.WithinDuration(t, time.Now().Add(DefaultBackoff), first, time.Second)

	th.Backoff(time.Millisecond)
	assert.Equal(t, first, th.RetryAt())

	th.Backoff(time.Minute)
	assert.True(t, th.RetryAt().After(first))
}

func TestThrottle_ZeroBurst(t *testing.T) {
	th := NewThrottle(1000, 0)
	assert.NoError(t, th.Wait(context.Background()))
}
