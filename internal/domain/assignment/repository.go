package assignment

import (
	"context"
	"time"

	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
)

// Repository persists assignments. GetByID and GetActiveByWorkItem return (nil, nil)
// when nothing matches.
type Repository interface {
	Create(ctx context.Context, a *Assignment) error
	Update(ctx context.Context, a *Assignment) error
	GetByID(ctx context.Context, id uint) (*Assignment, error)
	GetActiveByWorkItem(ctx context.Context, workItemID string) (*Assignment, error)
	List(ctx context.Context, filter Filter) ([]*Assignment, int64, error)

	CountActiveByAssignee(ctx context.Context, assigneeID uint) (int, error)

	// FindBreached returns sweepable rows whose deadline is before now, oldest deadline first.
	FindBreached(ctx context.Context, now time.Time, containerID *string) ([]*Assignment, error)
	// MarkOverdueBatch flips every breached row to overdue in one statement and tags it with sweepID.
	MarkOverdueBatch(ctx context.Context, now time.Time, containerID *string, sweepID string) (int64, error)
	ListBySweepID(ctx context.Context, sweepID string) ([]*Assignment, error)
}

type Filter struct {
	AssigneeID  *uint
	ContainerID *string
	WorkItemID  *string
	Statuses    []vo.Status
	Page        int
	PageSize    int
}
