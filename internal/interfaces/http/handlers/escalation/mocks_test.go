package escalation

import (
	"context"

	"github.com/recordsdesk/triage/internal/application/escalation/dto"
	"github.com/recordsdesk/triage/internal/application/escalation/usecases"
)

type mockEscalate struct {
	executeFunc func(ctx context.Context, cmd usecases.EscalateCommand) (*dto.EscalationDTO, error)
}

func (m *mockEscalate) Execute(ctx context.Context, cmd usecases.EscalateCommand) (*dto.EscalationDTO, error) {
	return m.executeFunc(ctx, cmd)
}

type mockAcknowledge struct {
	executeFunc func(ctx context.Context, cmd usecases.AcknowledgeCommand) (*dto.EscalationDTO, error)
}

func (m *mockAcknowledge) Execute(ctx context.Context, cmd usecases.AcknowledgeCommand) (*dto.EscalationDTO, error) {
	return m.executeFunc(ctx, cmd)
}

type mockResolve struct {
	executeFunc func(ctx context.Context, cmd usecases.ResolveCommand) (*dto.EscalationDTO, error)
}

func (m *mockResolve) Execute(ctx context.Context, cmd usecases.ResolveCommand) (*dto.EscalationDTO, error) {
	return m.executeFunc(ctx, cmd)
}

type mockHistory struct {
	executeFunc func(ctx context.Context, query usecases.HistoryQuery) ([]*dto.EscalationDTO, error)
}

func (m *mockHistory) Execute(ctx context.Context, query usecases.HistoryQuery) ([]*dto.EscalationDTO, error) {
	return m.executeFunc(ctx, query)
}

type mockPending struct {
	executeFunc func(ctx context.Context, query usecases.PendingQuery) ([]*dto.EscalationDTO, error)
}

func (m *mockPending) Execute(ctx context.Context, query usecases.PendingQuery) ([]*dto.EscalationDTO, error) {
	return m.executeFunc(ctx, query)
}
