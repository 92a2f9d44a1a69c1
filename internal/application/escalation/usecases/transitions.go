package usecases

import (
	"context"
	"errors"

	"github.com/recordsdesk/triage/internal/application/escalation/dto"
	"github.com/recordsdesk/triage/internal/domain/audit"
	"github.com/recordsdesk/triage/internal/domain/escalation"
	"github.com/recordsdesk/triage/internal/shared/biztime"
	"github.com/recordsdesk/triage/internal/shared/db"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
	"github.com/recordsdesk/triage/internal/shared/services/markdown"
)

type AcknowledgeCommand struct {
	EscalationID uint
	UserID       uint
}

type ResolveCommand struct {
	EscalationID uint
	UserID       uint
	Notes        *string
}

func loadEvent(ctx context.Context, repo escalation.Repository, log logger.Interface, id uint) (*escalation.Event, error) {
	e, err := repo.GetByID(ctx, id)
	if err != nil {
		log.Errorw("failed to load escalation", "escalation_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to load escalation")
	}
	if e == nil {
		return nil, apperrors.NewNotFoundError("escalation not found")
	}
	return e, nil
}

func eventError(err error) error {
	switch {
	case errors.Is(err, escalation.ErrNotRecipient):
		return apperrors.NewForbiddenError("only the escalation recipient may do this")
	case errors.Is(err, escalation.ErrAlreadyResolved):
		return apperrors.NewConflictError("escalation is already resolved")
	}
	return err
}

func eventFinalError(log logger.Interface, op string, id uint, err error) error {
	if isVersionConflict(err) {
		return apperrors.NewConflictError("escalation was modified concurrently, try again")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	log.Errorw("failed to "+op+" escalation", "escalation_id", id, "error", err)
	return apperrors.NewInternalError("failed to " + op + " escalation")
}

func auditEvent(ctx context.Context, repo audit.Repository, log logger.Interface, action audit.Action, e *escalation.Event, actorID uint, at biztime.Clock) {
	entry, err := audit.NewEntry(action, &actorID, audit.SubjectEscalation, e.ID(), at())
	if err != nil {
		log.Warnw("failed to build escalation audit entry", "escalation_id", e.ID(), "error", err)
		return
	}
	entry.WithDetail("assignment_id", e.AssignmentID())
	if err := repo.Append(ctx, entry); err != nil {
		log.Errorw("failed to write escalation audit entry", "escalation_id", e.ID(), "action", action, "error", err)
	}
}

type AcknowledgeEscalationUseCase struct {
	escalationRepo escalation.Repository
	auditRepo      audit.Repository
	renderer       markdown.Renderer
	retry          db.RetryPolicy
	clock          biztime.Clock
	logger         logger.Interface
}

func NewAcknowledgeEscalationUseCase(
	escalationRepo escalation.Repository,
	auditRepo audit.Repository,
	renderer markdown.Renderer,
	retry db.RetryPolicy,
	clock biztime.Clock,
	logger logger.Interface,
) *AcknowledgeEscalationUseCase {
	return &AcknowledgeEscalationUseCase{
		escalationRepo: escalationRepo,
		auditRepo:      auditRepo,
		renderer:       renderer,
		retry:          retry,
		clock:          biztime.OrSystem(clock),
		logger:         logger,
	}
}

// Execute is idempotent: acknowledging twice returns the first acknowledgment unchanged.
func (uc *AcknowledgeEscalationUseCase) Execute(ctx context.Context, cmd AcknowledgeCommand) (*dto.EscalationDTO, error) {
	type outcome struct {
		event   *escalation.Event
		changed bool
	}

	out, err := retryOnConflict(ctx, uc.retry, func() (*outcome, error) {
		e, err := loadEvent(ctx, uc.escalationRepo, uc.logger, cmd.EscalationID)
		if err != nil {
			return nil, err
		}
		changed, err := e.Acknowledge(cmd.UserID, uc.clock())
		if err != nil {
			return nil, eventError(err)
		}
		if changed {
			if err := uc.escalationRepo.Update(ctx, e); err != nil {
				return nil, err
			}
		}
		return &outcome{event: e, changed: changed}, nil
	})
	if err != nil {
		return nil, eventFinalError(uc.logger, "acknowledge", cmd.EscalationID, err)
	}

	if out.changed {
		uc.logger.Infow("escalation acknowledged", "escalation_id", out.event.ID(), "user_id", cmd.UserID)
		auditEvent(ctx, uc.auditRepo, uc.logger, audit.ActionEscalationAcknowledged, out.event, cmd.UserID, uc.clock)
	}
	return renderNotes(dto.ToEscalationDTO(out.event), uc.renderer, uc.logger), nil
}

type ResolveEscalationUseCase struct {
	escalationRepo escalation.Repository
	auditRepo      audit.Repository
	renderer       markdown.Renderer
	retry          db.RetryPolicy
	clock          biztime.Clock
	logger         logger.Interface
}

func NewResolveEscalationUseCase(
	escalationRepo escalation.Repository,
	auditRepo audit.Repository,
	renderer markdown.Renderer,
	retry db.RetryPolicy,
	clock biztime.Clock,
	logger logger.Interface,
) *ResolveEscalationUseCase {
	return &ResolveEscalationUseCase{
		escalationRepo: escalationRepo,
		auditRepo:      auditRepo,
		renderer:       renderer,
		retry:          retry,
		clock:          biztime.OrSystem(clock),
		logger:         logger,
	}
}

// Execute closes the escalation. It does not require an earlier acknowledgment.
func (uc *ResolveEscalationUseCase) Execute(ctx context.Context, cmd ResolveCommand) (*dto.EscalationDTO, error) {
	notes := sanitizeNotes(cmd.Notes)

	e, err := retryOnConflict(ctx, uc.retry, func() (*escalation.Event, error) {
		e, err := loadEvent(ctx, uc.escalationRepo, uc.logger, cmd.EscalationID)
		if err != nil {
			return nil, err
		}
		if err := e.Resolve(cmd.UserID, notes, uc.clock()); err != nil {
			return nil, eventError(err)
		}
		if err := uc.escalationRepo.Update(ctx, e); err != nil {
			return nil, err
		}
		return e, nil
	})
	if err != nil {
		return nil, eventFinalError(uc.logger, "resolve", cmd.EscalationID, err)
	}

	uc.logger.Infow("escalation resolved", "escalation_id", e.ID(), "user_id", cmd.UserID)
	auditEvent(ctx, uc.auditRepo, uc.logger, audit.ActionEscalationResolved, e, cmd.UserID, uc.clock)
	return renderNotes(dto.ToEscalationDTO(e), uc.renderer, uc.logger), nil
}
