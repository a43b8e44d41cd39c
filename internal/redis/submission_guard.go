package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fakhrymubarak/parade-weather/internal/config"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

// ErrBusy is returned when the client already has a submission in flight.
var ErrBusy = errors.New("a submission is already in progress")

const submissionKeyPrefix = "submission:"

// releaseScript deletes the key only if it still holds our token, so a release
// after TTL expiry cannot drop another submission's flag.
var releaseScript = redisv9.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SubmissionGuard is the per-client busy flag: at most one submission in
// flight per client key. It does not queue or cancel; a second submission is
// simply refused until the first releases or the TTL lapses.
type SubmissionGuard struct {
	client redisv9.Cmdable
	ttl    time.Duration
}

func NewSubmissionGuard(client redisv9.Cmdable, ttl time.Duration) *SubmissionGuard {
	if client == nil {
		client = GetClient()
	}
	if ttl <= 0 {
		ttl = config.GetSubmissionLockTTL()
	}
	return &SubmissionGuard{client: client, ttl: ttl}
}

// Acquire marks clientKey busy. The returned release func is safe to call once
// the submission finishes, even if ctx has been cancelled.
func (g *SubmissionGuard) Acquire(ctx context.Context, clientKey string) (release func(), err error) {
	key := submissionKeyPrefix + clientKey
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire submission flag: %w", err)
	}
	if !ok {
		return nil, ErrBusy
	}

	releaseCtx := context.WithoutCancel(ctx)
	return func() {
		if err := releaseScript.Run(releaseCtx, g.client, []string{key}, token).Err(); err != nil {
			config.GetLogger().Warnw("Failed to release submission flag", "key", key, "error", err)
		}
	}, nil
}

// Busy reports whether clientKey currently has a submission in flight.
func (g *SubmissionGuard) Busy(ctx context.Context, clientKey string) (bool, error) {
	n, err := g.client.Exists(ctx, submissionKeyPrefix+clientKey).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
