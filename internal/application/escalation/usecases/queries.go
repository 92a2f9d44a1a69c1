package usecases

import (
	"context"

	"github.com/recordsdesk/triage/internal/application/escalation/dto"
	"github.com/recordsdesk/triage/internal/domain/assignment"
	"github.com/recordsdesk/triage/internal/domain/escalation"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
	"github.com/recordsdesk/triage/internal/shared/services/markdown"
)

type HistoryQuery struct {
	AssignmentID uint
}

type PendingQuery struct {
	UserID uint
}

type EscalationHistoryUseCase struct {
	assignmentRepo assignment.Repository
	escalationRepo escalation.Repository
	renderer       markdown.Renderer
	logger         logger.Interface
}

func NewEscalationHistoryUseCase(
	assignmentRepo assignment.Repository,
	escalationRepo escalation.Repository,
	renderer markdown.Renderer,
	logger logger.Interface,
) *EscalationHistoryUseCase {
	return &EscalationHistoryUseCase{
		assignmentRepo: assignmentRepo,
		escalationRepo: escalationRepo,
		renderer:       renderer,
		logger:         logger,
	}
}

// Execute lists the escalations of one assignment, newest first.
func (uc *EscalationHistoryUseCase) Execute(ctx context.Context, query HistoryQuery) ([]*dto.EscalationDTO, error) {
	if query.AssignmentID == 0 {
		return nil, apperrors.NewValidationError("assignment_id is required")
	}

	a, err := uc.assignmentRepo.GetByID(ctx, query.AssignmentID)
	if err != nil {
		uc.logger.Errorw("failed to load assignment", "assignment_id", query.AssignmentID, "error", err)
		return nil, apperrors.NewInternalError("failed to load escalation history")
	}
	if a == nil {
		return nil, apperrors.NewNotFoundError("assignment not found")
	}

	events, err := uc.escalationRepo.ListByAssignment(ctx, query.AssignmentID)
	if err != nil {
		uc.logger.Errorw("failed to list escalations", "assignment_id", query.AssignmentID, "error", err)
		return nil, apperrors.NewInternalError("failed to load escalation history")
	}
	return renderAll(events, uc.renderer, uc.logger), nil
}

type PendingEscalationsUseCase struct {
	escalationRepo escalation.Repository
	renderer       markdown.Renderer
	logger         logger.Interface
}

func NewPendingEscalationsUseCase(
	escalationRepo escalation.Repository,
	renderer markdown.Renderer,
	logger logger.Interface,
) *PendingEscalationsUseCase {
	return &PendingEscalationsUseCase{
		escalationRepo: escalationRepo,
		renderer:       renderer,
		logger:         logger,
	}
}

func (uc *PendingEscalationsUseCase) Execute(ctx context.Context, query PendingQuery) ([]*dto.EscalationDTO, error) {
	if query.UserID == 0 {
		return nil, apperrors.NewValidationError("user_id is required")
	}

	events, err := uc.escalationRepo.ListPending(ctx, query.UserID)
	if err != nil {
		uc.logger.Errorw("failed to list pending escalations", "user_id", query.UserID, "error", err)
		return nil, apperrors.NewInternalError("failed to list pending escalations")
	}
	return renderAll(events, uc.renderer, uc.logger), nil
}
