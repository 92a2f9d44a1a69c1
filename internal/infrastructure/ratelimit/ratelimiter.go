package ratelimit

import (
	"context"
	"time"
)

// RateLimitConfig allows Limit requests per key inside each fixed Window.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, config RateLimitConfig) (Decision, error)
	Reset(ctx context.Context, key string) error
}
