package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Throttle counts failed attempts per client within a sliding window to
// blunt credential guessing. Successful logins are never counted.
type Throttle interface {
	// Allow reports whether the client may attempt the action.
	Allow(ctx context.Context, scope, client string) (bool, error)
	// Record counts one attempt against the client. Login flows record
	// failures only; the submission limiter records every accepted request.
	Record(ctx context.Context, scope, client string) error
}

// RedisThrottle implements Throttle on redis counters with TTL-based
// windows. When redis is unreachable it fails open: an outage of the
// throttle backend must not lock reporters out of their cases.
type RedisThrottle struct {
	client *redis.Client
	logger *zap.Logger
	max    int
	window time.Duration
}

// NewRedisThrottle builds a throttle allowing max attempts per window.
func NewRedisThrottle(client *redis.Client, logger *zap.Logger, max int, window time.Duration) *RedisThrottle {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisThrottle{client: client, logger: logger, max: max, window: window}
}

func (t *RedisThrottle) key(scope, client string) string {
	return fmt.Sprintf("throttle:%s:%s", scope, client)
}

// Allow checks the current failure count for the client.
func (t *RedisThrottle) Allow(ctx context.Context, scope, client string) (bool, error) {
	if t.client == nil {
		return true, nil
	}
	count, err := t.client.Get(ctx, t.key(scope, client)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		t.logger.Warn("throttle backend unavailable, failing open", zap.Error(err))
		return true, nil
	}
	return count < t.max, nil
}

// Record increments the counter, starting the window on the first hit.
func (t *RedisThrottle) Record(ctx context.Context, scope, client string) error {
	if t.client == nil {
		return nil
	}
	key := t.key(scope, client)
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		t.logger.Warn("throttle backend unavailable, attempt not recorded", zap.Error(err))
	}
	return nil
}
