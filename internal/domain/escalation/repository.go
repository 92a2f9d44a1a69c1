package escalation

import (
	"context"
	"time"
)

// Repository returns (nil, nil) from GetByID when the event does not exist.
type Repository interface {
	Create(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id uint) (*Event, error)
	// ListByAssignment returns every event of the assignment, newest first.
	ListByAssignment(ctx context.Context, assignmentID uint) ([]*Event, error)
	// ListPending returns unacknowledged, unresolved events addressed to userID, newest first.
	ListPending(ctx context.Context, userID uint) ([]*Event, error)
	CountSince(ctx context.Context, assignmentID uint, since time.Time) (int64, error)
}
