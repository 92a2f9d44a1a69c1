package usecases

import (
	"context"
	"time"

	"github.com/recordsdesk/triage/internal/application/escalation/dto"
	"github.com/recordsdesk/triage/internal/domain/assignment"
	"github.com/recordsdesk/triage/internal/domain/audit"
	"github.com/recordsdesk/triage/internal/domain/escalation"
	"github.com/recordsdesk/triage/internal/domain/notification"
	"github.com/recordsdesk/triage/internal/shared/biztime"
	"github.com/recordsdesk/triage/internal/shared/db"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
	"github.com/recordsdesk/triage/internal/shared/services/markdown"
	"github.com/recordsdesk/triage/internal/shared/utils"
)

const (
	defaultStormLimit  = 5
	defaultStormWindow = 10 * time.Minute
)

// EscalateCommand raises an assignment to the next person in its assignee's chain.
// ActorID is nil when the system escalates on its own.
type EscalateCommand struct {
	AssignmentID uint
	Reason       string
	Notes        *string
	ActorID      *uint
}

// EngineConfig holds the escalation tunables.
type EngineConfig struct {
	// StormLimit is how many escalations one assignment may receive inside StormWindow.
	StormLimit  int
	StormWindow time.Duration
	Retry       db.RetryPolicy
}

type EscalateUseCase struct {
	assignmentRepo assignment.Repository
	escalationRepo escalation.Repository
	auditRepo      audit.Repository
	resolver       RecipientResolver
	notifier       Notifier
	renderer       markdown.Renderer
	txManager      db.Transactor
	config         EngineConfig
	metrics        Metrics
	clock          biztime.Clock
	logger         logger.Interface
}

func NewEscalateUseCase(
	assignmentRepo assignment.Repository,
	escalationRepo escalation.Repository,
	auditRepo audit.Repository,
	resolver RecipientResolver,
	notifier Notifier,
	renderer markdown.Renderer,
	txManager db.Transactor,
	config EngineConfig,
	metrics Metrics,
	clock biztime.Clock,
	logger logger.Interface,
) *EscalateUseCase {
	if config.StormLimit <= 0 {
		config.StormLimit = defaultStormLimit
	}
	if config.StormWindow <= 0 {
		config.StormWindow = defaultStormWindow
	}
	return &EscalateUseCase{
		assignmentRepo: assignmentRepo,
		escalationRepo: escalationRepo,
		auditRepo:      auditRepo,
		resolver:       resolver,
		notifier:       notifier,
		renderer:       renderer,
		txManager:      txManager,
		config:         config,
		metrics:        metricsOrNop(metrics),
		clock:          biztime.OrSystem(clock),
		logger:         logger,
	}
}

// escalated is what one committed escalation produced.
type escalated struct {
	event      *escalation.Event
	assignment *assignment.Assignment
}

func (uc *EscalateUseCase) Execute(ctx context.Context, cmd EscalateCommand) (*dto.EscalationDTO, error) {
	uc.logger.Infow("executing escalate use case",
		"assignment_id", cmd.AssignmentID,
		"reason", cmd.Reason,
	)

	reason, err := escalation.NewReason(cmd.Reason)
	if err != nil {
		uc.metrics.EscalationRejected("validation")
		return nil, apperrors.NewValidationError("invalid escalation reason", err.Error())
	}
	notes := sanitizeNotes(cmd.Notes)

	out, err := retryOnConflict(ctx, uc.config.Retry, func() (*escalated, error) {
		var res *escalated
		txErr := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
			var err error
			res, err = uc.escalateInTx(txCtx, cmd.AssignmentID, reason, notes)
			return err
		})
		return res, txErr
	})
	if err != nil {
		return nil, uc.finalError(cmd.AssignmentID, err)
	}

	uc.metrics.EscalationCreated(reason.String())
	uc.logger.Infow("assignment escalated",
		"assignment_id", out.assignment.ID(),
		"escalation_id", out.event.ID(),
		"from", out.event.EscalatedFromID(),
		"to", out.event.EscalatedToID(),
		"reason", reason,
	)

	result := renderNotes(dto.ToEscalationDTO(out.event), uc.renderer, uc.logger)
	uc.notify(ctx, out, result.NotesHTML)
	uc.audit(ctx, out, cmd.ActorID)
	return result, nil
}

func (uc *EscalateUseCase) escalateInTx(ctx context.Context, assignmentID uint, reason escalation.Reason, notes *string) (*escalated, error) {
	a, err := uc.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		uc.logger.Errorw("failed to load assignment", "assignment_id", assignmentID, "error", err)
		return nil, apperrors.NewInternalError("failed to load assignment")
	}
	if a == nil {
		return nil, apperrors.NewNotFoundError("assignment not found")
	}
	if a.IsTerminal() {
		return nil, apperrors.NewValidationError("cannot escalate a closed assignment", a.Status().String())
	}

	now := uc.clock()
	recent, err := uc.escalationRepo.CountSince(ctx, a.ID(), now.Add(-uc.config.StormWindow))
	if err != nil {
		uc.logger.Errorw("failed to count recent escalations", "assignment_id", a.ID(), "error", err)
		return nil, apperrors.NewInternalError("failed to escalate assignment")
	}
	if recent >= int64(uc.config.StormLimit) {
		uc.logger.Warnw("escalation storm rejected",
			"assignment_id", a.ID(),
			"recent", recent,
			"limit", uc.config.StormLimit,
		)
		return nil, apperrors.NewTooManyRequestsError("too many escalations for this assignment",
			"retry after "+uc.config.StormWindow.String())
	}

	recipient, err := uc.resolver.ResolveRecipient(ctx, a.AssigneeID())
	if err != nil {
		return nil, err
	}

	event, err := escalation.NewEvent(a.ID(), a.AssigneeID(), recipient.UserID(), reason, notes, now)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid escalation", err.Error())
	}
	if err := uc.escalationRepo.Create(ctx, event); err != nil {
		uc.logger.Errorw("failed to create escalation", "assignment_id", a.ID(), "error", err)
		return nil, apperrors.NewInternalError("failed to escalate assignment")
	}

	if err := a.RecordEscalation(recipient.UserID(), now); err != nil {
		return nil, apperrors.NewValidationError("cannot escalate a closed assignment", err.Error())
	}
	if err := uc.assignmentRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	return &escalated{event: event, assignment: a}, nil
}

func (uc *EscalateUseCase) finalError(assignmentID uint, err error) error {
	if isVersionConflict(err) {
		uc.metrics.EscalationRejected("conflict")
		return apperrors.NewConflictError("assignment was modified concurrently, try again")
	}
	if appErr := apperrors.GetAppError(err); appErr != nil {
		uc.metrics.EscalationRejected(string(appErr.Type))
		return err
	}
	uc.metrics.EscalationRejected("internal")
	uc.logger.Errorw("failed to escalate assignment", "assignment_id", assignmentID, "error", err)
	return apperrors.NewInternalError("failed to escalate assignment")
}

// notify tells the recipient and the assignee. Failures are logged by the notifier.
func (uc *EscalateUseCase) notify(ctx context.Context, out *escalated, notesHTML string) {
	if uc.notifier == nil {
		return
	}
	e, a := out.event, out.assignment
	id := e.ID()

	payload := func() map[string]interface{} {
		p := map[string]interface{}{
			"assignment_id":     a.ID(),
			"work_item_id":      a.WorkItemID(),
			"work_item_type":    a.WorkItemType().String(),
			"priority":          a.Priority().String(),
			"reason":            e.Reason().String(),
			"escalated_at":      e.EscalatedAt(),
			"sla_deadline":      a.SLADeadline(),
			"escalated_from_id": e.EscalatedFromID(),
			"escalated_to_id":   e.EscalatedToID(),
		}
		if e.Notes() != nil {
			p["notes"] = *e.Notes()
			p["notes_html"] = notesHTML
		}
		return p
	}

	targets := []struct {
		kind      notification.Kind
		recipient uint
	}{
		{notification.KindEscalationReceived, e.EscalatedToID()},
		{notification.KindEscalationRaised, e.EscalatedFromID()},
	}
	for _, target := range targets {
		intent, err := notification.NewIntent(target.kind, target.recipient, a.ID(), &id, a.ContainerID(), payload(), e.EscalatedAt())
		if err != nil {
			uc.logger.Warnw("failed to build escalation notification", "escalation_id", id, "kind", target.kind, "error", err)
			continue
		}
		_, _ = uc.notifier.Notify(ctx, intent)
	}
}

func (uc *EscalateUseCase) audit(ctx context.Context, out *escalated, actorID *uint) {
	e := out.event
	entry, err := audit.NewEntry(audit.ActionEscalationCreated, actorID, audit.SubjectEscalation, e.ID(), uc.clock())
	if err != nil {
		uc.logger.Warnw("failed to build escalation audit entry", "escalation_id", e.ID(), "error", err)
		return
	}
	entry.WithDetail("assignment_id", e.AssignmentID()).
		WithDetail("escalated_from_id", e.EscalatedFromID()).
		WithDetail("escalated_to_id", e.EscalatedToID()).
		WithDetail("reason", e.Reason().String())
	if err := uc.auditRepo.Append(ctx, entry); err != nil {
		uc.logger.Errorw("failed to write escalation audit entry", "escalation_id", e.ID(), "error", err)
	}
}

// sanitizeNotes strips markup. Blank notes become nil.
func sanitizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	clean := utils.SanitizeText(*notes)
	if clean == "" {
		return nil
	}
	return &clean
}
