package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/recordsdesk/triage/internal/domain/assignment"
	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
	"github.com/recordsdesk/triage/internal/domain/audit"
	"github.com/recordsdesk/triage/internal/domain/sla"
	"github.com/recordsdesk/triage/internal/shared/biztime"
	"github.com/recordsdesk/triage/internal/shared/constants"
	"github.com/recordsdesk/triage/internal/shared/db"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
	"github.com/recordsdesk/triage/internal/shared/utils"
)

// AssignWorkItemCommand opens an assignment. AssignedBy set means a manual override.
type AssignWorkItemCommand struct {
	WorkItemID     string
	WorkItemType   string
	AssigneeID     uint
	Priority       string
	AssignedBy     *uint
	OverrideReason *string
	ContainerID    *string
	ContextOwnerID *uint
}

type AssignWorkItemResult struct {
	AssignmentID     uint      `json:"assignment_id"`
	WorkItemID       string    `json:"work_item_id"`
	AssigneeID       uint      `json:"assignee_id"`
	Status           string    `json:"status"`
	AssignedAt       time.Time `json:"assigned_at"`
	SLADeadline      time.Time `json:"sla_deadline"`
	IsManualOverride bool      `json:"is_manual_override"`
	CapacityWarning  *string   `json:"capacity_warning,omitempty"`
}

// RouterConfig holds the router tunables.
type RouterConfig struct {
	MinOverrideReasonLen int
	Retry                RetryPolicy
}

// assignInput is a validated command.
type assignInput struct {
	workItemID     string
	workItemType   vo.WorkItemType
	assigneeID     uint
	priority       vo.Priority
	assignedBy     *uint
	overrideReason *string
	containerID    *string
	contextOwnerID *uint
}

func (in assignInput) manual() bool { return in.assignedBy != nil }

// assignOutcome is what one successful insert produced.
type assignOutcome struct {
	assignment *assignment.Assignment
	warning    *string
	capacity   audit.CapacitySnapshot
}

func (o *assignOutcome) result() *AssignWorkItemResult {
	a := o.assignment
	return &AssignWorkItemResult{
		AssignmentID:     a.ID(),
		WorkItemID:       a.WorkItemID(),
		AssigneeID:       a.AssigneeID(),
		Status:           a.Status().String(),
		AssignedAt:       a.AssignedAt(),
		SLADeadline:      a.SLADeadline(),
		IsManualOverride: a.IsManualOverride(),
		CapacityWarning:  o.warning,
	}
}

// AssignWorkItemUseCase is the assignment router. It applies the SLA table and the
// assignee's WIP limit and writes the assignment plus the counter bump in one transaction.
type AssignWorkItemUseCase struct {
	assignmentRepo assignment.Repository
	slaRepo        sla.Repository
	auditRepo      audit.Repository
	capacity       CapacityCounter
	txManager      db.Transactor
	config         RouterConfig
	metrics        Metrics
	clock          biztime.Clock
	logger         logger.Interface
}

func NewAssignWorkItemUseCase(
	assignmentRepo assignment.Repository,
	slaRepo sla.Repository,
	auditRepo audit.Repository,
	capacity CapacityCounter,
	txManager db.Transactor,
	config RouterConfig,
	metrics Metrics,
	clock biztime.Clock,
	logger logger.Interface,
) *AssignWorkItemUseCase {
	if config.MinOverrideReasonLen <= 0 {
		config.MinOverrideReasonLen = constants.MinOverrideReasonLen
	}
	return &AssignWorkItemUseCase{
		assignmentRepo: assignmentRepo,
		slaRepo:        slaRepo,
		auditRepo:      auditRepo,
		capacity:       capacity,
		txManager:      txManager,
		config:         config,
		metrics:        metricsOrNop(metrics),
		clock:          biztime.OrSystem(clock),
		logger:         logger,
	}
}

func (uc *AssignWorkItemUseCase) Execute(ctx context.Context, cmd AssignWorkItemCommand) (*AssignWorkItemResult, error) {
	uc.logger.Infow("executing assign work item use case",
		"work_item_id", cmd.WorkItemID,
		"work_item_type", cmd.WorkItemType,
		"assignee_id", cmd.AssigneeID,
		"manual", cmd.AssignedBy != nil,
	)

	in, err := uc.validateCommand(cmd)
	if err != nil {
		uc.metrics.AssignmentRejected("validation")
		return nil, err
	}

	cfg, err := uc.lookupSLA(ctx, in.workItemType, in.priority)
	if err != nil {
		return nil, err
	}

	assignee, err := uc.capacity.Profile(ctx, in.assigneeID)
	if err != nil {
		return nil, err
	}
	if !assignee.IsActive() {
		return nil, apperrors.NewValidationError("assignee is deactivated")
	}

	var outcome *assignOutcome
	_, err = retryOnConflict(ctx, uc.config.Retry, uc.metrics.ConflictRetried, func() (struct{}, error) {
		return struct{}{}, uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
			var txErr error
			outcome, txErr = uc.assignInTx(txCtx, in, cfg)
			return txErr
		})
	})
	if err != nil {
		return nil, uc.finalError(err, in)
	}

	if in.manual() {
		uc.auditOverride(ctx, outcome, in)
	}
	uc.metrics.AssignmentCreated(in.manual())

	uc.logger.Infow("work item assigned",
		"assignment_id", outcome.assignment.ID(),
		"work_item_id", in.workItemID,
		"assignee_id", in.assigneeID,
		"sla_deadline", outcome.assignment.SLADeadline(),
	)
	return outcome.result(), nil
}

func (uc *AssignWorkItemUseCase) finalError(err error, in assignInput) error {
	if isVersionConflict(err) {
		uc.logger.Warnw("assignment gave up after repeated version conflicts",
			"work_item_id", in.workItemID,
			"assignee_id", in.assigneeID,
		)
		uc.metrics.AssignmentRejected("conflict")
		return apperrors.NewConflictError("workload changed concurrently, retry")
	}
	if appErr := apperrors.GetAppError(err); appErr != nil {
		uc.metrics.AssignmentRejected(string(appErr.Type))
		return appErr
	}
	uc.logger.Errorw("failed to assign work item", "work_item_id", in.workItemID, "error", err)
	uc.metrics.AssignmentRejected("internal")
	return apperrors.NewInternalError("failed to assign work item")
}

// assignInTx runs inside the caller's transaction. It re-reads the assignee so the capacity
// decision and the counter bump see the same version.
func (uc *AssignWorkItemUseCase) assignInTx(ctx context.Context, in assignInput, cfg *sla.Config) (*assignOutcome, error) {
	existing, err := uc.assignmentRepo.GetActiveByWorkItem(ctx, in.workItemID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("work item already has an active assignment")
	}

	profile, err := uc.capacity.Profile(ctx, in.assigneeID)
	if err != nil {
		return nil, err
	}
	if !profile.IsActive() {
		return nil, apperrors.NewValidationError("assignee is deactivated")
	}

	var warning *string
	if profile.IsOverCapacity() {
		if !in.manual() {
			return nil, apperrors.NewCapacityExceededError("assignee is at capacity", profile.CapacityWarning())
		}
		w := profile.CapacityWarning()
		warning = &w
	}
	before := profile.CurrentCount()

	a, err := assignment.NewAssignment(assignment.NewAssignmentParams{
		WorkItemID:     in.workItemID,
		WorkItemType:   in.workItemType,
		AssigneeID:     in.assigneeID,
		Priority:       in.priority,
		AssignedBy:     in.assignedBy,
		OverrideReason: in.overrideReason,
		ContainerID:    in.containerID,
		ContextOwnerID: in.contextOwnerID,
		AssignedAt:     uc.clock(),
		DeadlineHours:  cfg.DeadlineHours(),
	})
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.assignmentRepo.Create(ctx, a); err != nil {
		if errors.Is(err, assignment.ErrActiveAssignmentExists) {
			return nil, apperrors.NewConflictError("work item already has an active assignment")
		}
		return nil, err
	}

	if err := uc.capacity.CommitIncrement(ctx, profile); err != nil {
		return nil, err
	}

	return &assignOutcome{
		assignment: a,
		warning:    warning,
		capacity: audit.CapacitySnapshot{
			Before: before,
			After:  profile.CurrentCount(),
			Limit:  profile.WIPLimit(),
		},
	}, nil
}

func (uc *AssignWorkItemUseCase) lookupSLA(ctx context.Context, t vo.WorkItemType, p vo.Priority) (*sla.Config, error) {
	cfg, err := uc.slaRepo.Get(ctx, t, p)
	if err != nil {
		uc.logger.Errorw("failed to read SLA table", "key", sla.Key(t, p), "error", err)
		return nil, apperrors.NewInternalError("failed to read SLA configuration")
	}
	if cfg == nil {
		uc.logger.Warnw("no SLA configured", "key", sla.Key(t, p))
		return nil, apperrors.NewConfigNotFoundError("no SLA configured for work item type and priority", sla.Key(t, p))
	}
	return cfg, nil
}

func (uc *AssignWorkItemUseCase) auditOverride(ctx context.Context, outcome *assignOutcome, in assignInput) {
	entry, err := audit.NewEntry(audit.ActionManualOverride, in.assignedBy, audit.SubjectAssignment, outcome.assignment.ID(), uc.clock())
	if err != nil {
		uc.logger.Warnw("failed to build override audit entry", "assignment_id", outcome.assignment.ID(), "error", err)
		return
	}
	entry.WithCapacity(outcome.capacity).
		WithDetail("work_item_id", in.workItemID).
		WithDetail("assignee_id", in.assigneeID)
	if in.overrideReason != nil {
		entry.WithDetail("override_reason", *in.overrideReason)
	}
	if outcome.warning != nil {
		entry.WithDetail("capacity_warning", *outcome.warning)
	}
	if err := uc.auditRepo.Append(ctx, entry); err != nil {
		uc.logger.Errorw("failed to write override audit entry", "assignment_id", outcome.assignment.ID(), "error", err)
	}
}

func (uc *AssignWorkItemUseCase) validateCommand(cmd AssignWorkItemCommand) (assignInput, error) {
	in := assignInput{
		workItemID:     cmd.WorkItemID,
		assigneeID:     cmd.AssigneeID,
		assignedBy:     cmd.AssignedBy,
		containerID:    cmd.ContainerID,
		contextOwnerID: cmd.ContextOwnerID,
	}
	if err := validateWorkItemID(in.workItemID); err != nil {
		return in, err
	}
	if cmd.AssigneeID == 0 {
		return in, apperrors.NewValidationError("assignee ID is required")
	}
	if cmd.AssignedBy != nil && *cmd.AssignedBy == 0 {
		return in, apperrors.NewValidationError("assigned by ID is invalid")
	}

	var err error
	if in.workItemType, err = vo.NewWorkItemType(cmd.WorkItemType); err != nil {
		return in, apperrors.NewValidationError(err.Error())
	}
	if in.priority, err = vo.NewPriority(cmd.Priority); err != nil {
		return in, apperrors.NewValidationError(err.Error())
	}

	if in.containerID != nil && *in.containerID == "" {
		in.containerID = nil
	}

	if in.manual() {
		reason, err := uc.sanitizeReason(cmd.OverrideReason)
		if err != nil {
			return in, err
		}
		in.overrideReason = &reason
	}
	return in, nil
}

// maxWorkItemIDLen matches the work_item_id column.
const maxWorkItemIDLen = 64

// validateWorkItemID checks the external reference without rewriting it; the id is opaque
// and must round-trip unchanged.
func validateWorkItemID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewValidationError("work item ID is required")
	}
	if len(id) > maxWorkItemIDLen {
		return apperrors.NewValidationError("work item ID is too long",
			fmt.Sprintf("at most %d bytes allowed", maxWorkItemIDLen))
	}
	for _, r := range id {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return apperrors.NewValidationError("work item ID must not contain whitespace or control characters")
		}
	}
	return nil
}

func (uc *AssignWorkItemUseCase) sanitizeReason(raw *string) (string, error) {
	if raw == nil {
		return "", apperrors.NewValidationError("override reason is required for manual assignment")
	}
	reason := utils.SanitizeText(*raw)
	if utils.TextLength(reason) < uc.config.MinOverrideReasonLen {
		return "", apperrors.NewValidationError("override reason is too short",
			fmt.Sprintf("at least %d characters required", uc.config.MinOverrideReasonLen))
	}
	return reason, nil
}
