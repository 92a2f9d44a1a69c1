package usecases

import (
	"context"
	"errors"

	"github.com/recordsdesk/triage/internal/domain/assignment"
	"github.com/recordsdesk/triage/internal/domain/staff"
	"github.com/recordsdesk/triage/internal/shared/db"
)

type RetryPolicy = db.RetryPolicy

func DefaultRetryPolicy() RetryPolicy {
	return db.DefaultRetryPolicy()
}

func isVersionConflict(err error) bool {
	return errors.Is(err, staff.ErrVersionConflict) || errors.Is(err, assignment.ErrVersionConflict)
}

func retryOnConflict[T any](ctx context.Context, policy RetryPolicy, onRetry func(), op func() (T, error)) (T, error) {
	return db.RetryOnConflict(ctx, policy, isVersionConflict, onRetry, op)
}
