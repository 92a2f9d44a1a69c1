package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/recordsdesk/triage/internal/shared/biztime"
	"github.com/recordsdesk/triage/internal/shared/constants"
)

// RedisRateLimiter counts requests in fixed windows. Each window gets its own key, which
// expires shortly after the window closes. The TTL is relative so a skewed clock cannot
// expire a live window early.
type RedisRateLimiter struct {
	client *redis.Client
	clock  biztime.Clock
}

func NewRedisRateLimiter(client *redis.Client, clock biztime.Clock) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		clock:  biztime.OrSystem(clock),
	}
}

var _ RateLimiter = (*RedisRateLimiter)(nil)

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, config RateLimitConfig) (Decision, error) {
	if config.Limit <= 0 || config.Window <= 0 {
		return Decision{Allowed: true}, nil
	}

	now := l.clock()
	start := now.Truncate(config.Window)
	resetAt := start.Add(config.Window)
	redisKey := l.windowKey(key, start)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, resetAt.Sub(now)+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	count := incr.Val()
	remaining := int64(config.Limit) - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= int64(config.Limit),
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	pattern := constants.RateLimitKeyPrefix + key + ":*"

	iter := l.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := l.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}
	return nil
}

func (l *RedisRateLimiter) windowKey(key string, start time.Time) string {
	return fmt.Sprintf("%s%s:%d", constants.RateLimitKeyPrefix, key, start.Unix())
}
