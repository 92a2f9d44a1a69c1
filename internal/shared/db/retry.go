package db

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy bounds how often a unit of work is re-run after a version conflict.
type RetryPolicy struct {
	MaxElapsed      time.Duration
	MaxTries        uint
	InitialInterval time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxElapsed:      2 * time.Second,
		MaxTries:        5,
		InitialInterval: 25 * time.Millisecond,
	}
}

// RetryOnConflict re-runs op while isConflict reports true for its error. Any other error
// stops the loop at once. On exhaustion the last conflict is returned.
func RetryOnConflict[T any](ctx context.Context, policy RetryPolicy, isConflict func(error) bool, onRetry func(), op func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		b.InitialInterval = policy.InitialInterval
	}

	opts := []backoff.RetryOption{backoff.WithBackOff(b)}
	if policy.MaxElapsed > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(policy.MaxElapsed))
	}
	if policy.MaxTries > 0 {
		opts = append(opts, backoff.WithMaxTries(policy.MaxTries))
	}
	if onRetry != nil {
		opts = append(opts, backoff.WithNotify(func(error, time.Duration) { onRetry() }))
	}

	return backoff.Retry(ctx, func() (T, error) {
		res, err := op()
		if err != nil && !isConflict(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}, opts...)
}
