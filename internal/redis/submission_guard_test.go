package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(t *testing.T, ttl time.Duration) (*SubmissionGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSubmissionGuard(client, ttl), mr
}

func TestSubmissionGuard_RejectsWhileInFlight(t *testing.T) {
	guard, _ := newTestGuard(t, time.Minute)
	ctx := context.Background()

	release, err := guard.Acquire(ctx, "10.0.0.1")
	require.NoError(t, err)

	_, err = guard.Acquire(ctx, "10.0.0.1")
	assert.ErrorIs(t, err, ErrBusy)

	busy, err := guard.Busy(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, busy)

	// Other clients are unaffected
	otherRelease, err := guard.Acquire(ctx, "10.0.0.2")
	require.NoError(t, err)
	otherRelease()

	release()
	busy, err = guard.Busy(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, busy)

	again, err := guard.Acquire(ctx, "10.0.0.1")
	require.NoError(t, err)
	again()
}

func TestSubmissionGuard_ExpiresAfterTTL(t *testing.T) {
	guard, mr := newTestGuard(t, 5*time.Second)
	ctx := context.Background()

	_, err := guard.Acquire(ctx, "client")
	require.NoError(t, err)

	mr.FastForward(6 * time.Second)

	release, err := guard.Acquire(ctx, "client")
	require.NoError(t, err)
	release()
}

func TestSubmissionGuard_StaleReleaseKeepsNewFlag(t *testing.T) {
	guard, mr := newTestGuard(t, 5*time.Second)
	ctx := context.Background()

	staleRelease, err := guard.Acquire(ctx, "client")
	require.NoError(t, err)
	mr.FastForward(6 * time.Second)

	_, err = guard.Acquire(ctx, "client")
	require.NoError(t, err)

	staleRelease()
	busy, err := guard.Busy(ctx, "client")
	require.NoError(t, err)
	assert.True(t, busy, "release of an expired flag must not clear the newer one")
}

func TestSubmissionGuard_ReleaseSurvivesCancelledContext(t *testing.T) {
	guard, _ := newTestGuard(t, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	release, err := guard.Acquire(ctx, "client")
	require.NoError(t, err)
	cancel()
	release()

	busy, err := guard.Busy(context.Background(), "client")
	require.NoError(t, err)
	assert.False(t, busy)
}

func TestSubmissionGuard_RedisDown(t *testing.T) {
	guard, mr := newTestGuard(t, time.Minute)
	mr.Close()

	_, err := guard.Acquire(context.Background(), "client")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBusy)
}
