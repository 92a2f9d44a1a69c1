package usecases

import (
	"context"

	"github.com/recordsdesk/triage/internal/application/assignment/dto"
	"github.com/recordsdesk/triage/internal/domain/staff"
)

// CapacityCounter is the slice of the capacity tracker the router needs. The Commit methods
// return staff.ErrVersionConflict unchanged when the profile moved since it was read.
type CapacityCounter interface {
	Profile(ctx context.Context, userID uint) (*staff.Profile, error)
	CommitIncrement(ctx context.Context, p *staff.Profile) error
	CommitDecrement(ctx context.Context, p *staff.Profile) error
}

// Metrics receives router outcomes. A nil Metrics is allowed.
type Metrics interface {
	AssignmentCreated(manual bool)
	AssignmentRejected(reason string)
	ConflictRetried()
}

type AssignWorkItemExecutor interface {
	Execute(ctx context.Context, cmd AssignWorkItemCommand) (*AssignWorkItemResult, error)
}

type ManualOverrideExecutor interface {
	Execute(ctx context.Context, cmd ManualOverrideCommand) (*AssignWorkItemResult, error)
}

type StartAssignmentExecutor interface {
	Execute(ctx context.Context, cmd TransitionCommand) (*dto.AssignmentDTO, error)
}

type CompleteAssignmentExecutor interface {
	Execute(ctx context.Context, cmd TransitionCommand) (*dto.AssignmentDTO, error)
}

type ReassignExecutor interface {
	Execute(ctx context.Context, cmd ReassignCommand) (*ReassignResult, error)
}

type GetAssignmentExecutor interface {
	Execute(ctx context.Context, query GetAssignmentQuery) (*dto.AssignmentDTO, error)
}

type ListAssignmentsExecutor interface {
	Execute(ctx context.Context, query ListAssignmentsQuery) (*ListAssignmentsResult, error)
}

type nopMetrics struct{}

func (nopMetrics) AssignmentCreated(bool)    {}
func (nopMetrics) AssignmentRejected(string) {}
func (nopMetrics) ConflictRetried()          {}

func metricsOrNop(m Metrics) Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
