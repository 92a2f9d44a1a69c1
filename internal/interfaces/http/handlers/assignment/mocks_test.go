package assignment

import (
	"context"

	"github.com/recordsdesk/triage/internal/application/assignment/dto"
	"github.com/recordsdesk/triage/internal/application/assignment/usecases"
)

type mockAssign struct {
	executeFunc func(ctx context.Context, cmd usecases.AssignWorkItemCommand) (*usecases.AssignWorkItemResult, error)
}

func (m *mockAssign) Execute(ctx context.Context, cmd usecases.AssignWorkItemCommand) (*usecases.AssignWorkItemResult, error) {
	return m.executeFunc(ctx, cmd)
}

type mockOverride struct {
	executeFunc func(ctx context.Context, cmd usecases.ManualOverrideCommand) (*usecases.AssignWorkItemResult, error)
}

func (m *mockOverride) Execute(ctx context.Context, cmd usecases.ManualOverrideCommand) (*usecases.AssignWorkItemResult, error) {
	return m.executeFunc(ctx, cmd)
}

type mockGet struct {
	executeFunc func(ctx context.Context, query usecases.GetAssignmentQuery) (*dto.AssignmentDTO, error)
}

func (m *mockGet) Execute(ctx context.Context, query usecases.GetAssignmentQuery) (*dto.AssignmentDTO, error) {
	return m.executeFunc(ctx, query)
}

type mockList struct {
	executeFunc func(ctx context.Context, query usecases.ListAssignmentsQuery) (*usecases.ListAssignmentsResult, error)
}

func (m *mockList) Execute(ctx context.Context, query usecases.ListAssignmentsQuery) (*usecases.ListAssignmentsResult, error) {
	return m.executeFunc(ctx, query)
}

type mockTransition struct {
	executeFunc func(ctx context.Context, cmd usecases.TransitionCommand) (*dto.AssignmentDTO, error)
}

func (m *mockTransition) Execute(ctx context.Context, cmd usecases.TransitionCommand) (*dto.AssignmentDTO, error) {
	return m.executeFunc(ctx, cmd)
}

type mockReassign struct {
	executeFunc func(ctx context.Context, cmd usecases.ReassignCommand) (*usecases.ReassignResult, error)
}

func (m *mockReassign) Execute(ctx context.Context, cmd usecases.ReassignCommand) (*usecases.ReassignResult, error) {
	return m.executeFunc(ctx, cmd)
}
