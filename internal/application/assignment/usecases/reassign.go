package usecases

import (
	"context"

	"github.com/recordsdesk/triage/internal/application/assignment/dto"
	"github.com/recordsdesk/triage/internal/domain/assignment"
	"github.com/recordsdesk/triage/internal/domain/audit"
	"github.com/recordsdesk/triage/internal/domain/staff"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

type ReassignCommand struct {
	AssignmentID  uint
	NewAssigneeID uint
	ActorID       uint
	Reason        string
}

type ReassignResult struct {
	Previous *dto.AssignmentDTO    `json:"previous"`
	Current  *AssignWorkItemResult `json:"current"`
}

// ReassignUseCase retires an assignment as reassigned and opens a manual successor for the
// same work item. Both rows and both counters change in one transaction.
type ReassignUseCase struct {
	router    *AssignWorkItemUseCase
	staffRepo staff.Repository
	logger    logger.Interface
}

func NewReassignUseCase(router *AssignWorkItemUseCase, staffRepo staff.Repository, logger logger.Interface) *ReassignUseCase {
	return &ReassignUseCase{
		router:    router,
		staffRepo: staffRepo,
		logger:    logger,
	}
}

func (uc *ReassignUseCase) Execute(ctx context.Context, cmd ReassignCommand) (*ReassignResult, error) {
	uc.logger.Infow("executing reassign use case",
		"assignment_id", cmd.AssignmentID,
		"new_assignee_id", cmd.NewAssigneeID,
		"actor_id", cmd.ActorID,
	)

	if cmd.AssignmentID == 0 || cmd.NewAssigneeID == 0 {
		return nil, apperrors.NewValidationError("assignment ID and new assignee ID are required")
	}
	reason, err := uc.router.sanitizeReason(&cmd.Reason)
	if err != nil {
		return nil, err
	}

	r := uc.router
	var (
		previous *assignment.Assignment
		outcome  *assignOutcome
		in       assignInput
	)
	_, err = retryOnConflict(ctx, r.config.Retry, r.metrics.ConflictRetried, func() (struct{}, error) {
		return struct{}{}, r.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
			old, err := loadAssignment(txCtx, r.assignmentRepo, uc.logger, cmd.AssignmentID)
			if err != nil {
				return err
			}
			if old.IsTerminal() {
				return apperrors.NewConflictError("assignment is already closed")
			}
			if old.AssigneeID() == cmd.NewAssigneeID {
				return apperrors.NewValidationError("new assignee is the current assignee")
			}
			if err := authorizeOverride(txCtx, uc.staffRepo, uc.logger, cmd.ActorID, old.AssigneeID()); err != nil {
				return err
			}
			if err := authorizeOverride(txCtx, uc.staffRepo, uc.logger, cmd.ActorID, cmd.NewAssigneeID); err != nil {
				return err
			}

			cfg, err := r.lookupSLA(txCtx, old.WorkItemType(), old.Priority())
			if err != nil {
				return err
			}

			if err := old.CloseAsReassigned(r.clock()); err != nil {
				return transitionError(err)
			}
			if err := r.assignmentRepo.Update(txCtx, old); err != nil {
				return err
			}
			oldProfile, err := r.capacity.Profile(txCtx, old.AssigneeID())
			if err != nil {
				return err
			}
			if err := r.capacity.CommitDecrement(txCtx, oldProfile); err != nil {
				return err
			}

			actorID := cmd.ActorID
			in = assignInput{
				workItemID:     old.WorkItemID(),
				workItemType:   old.WorkItemType(),
				assigneeID:     cmd.NewAssigneeID,
				priority:       old.Priority(),
				assignedBy:     &actorID,
				overrideReason: &reason,
				containerID:    old.ContainerID(),
				contextOwnerID: old.ContextOwnerID(),
			}
			outcome, err = r.assignInTx(txCtx, in, cfg)
			if err != nil {
				return err
			}
			previous = old
			return nil
		})
	})
	if err != nil {
		return nil, finishError(uc.logger, "reassign assignment", cmd.AssignmentID, err)
	}

	uc.auditReassign(ctx, previous, outcome, cmd.ActorID, reason)
	r.auditOverride(ctx, outcome, in)
	r.metrics.AssignmentCreated(true)

	uc.logger.Infow("assignment reassigned",
		"previous_assignment_id", previous.ID(),
		"assignment_id", outcome.assignment.ID(),
		"from_assignee_id", previous.AssigneeID(),
		"to_assignee_id", cmd.NewAssigneeID,
	)
	return &ReassignResult{
		Previous: dto.ToAssignmentDTO(previous),
		Current:  outcome.result(),
	}, nil
}

func (uc *ReassignUseCase) auditReassign(ctx context.Context, previous *assignment.Assignment, outcome *assignOutcome, actorID uint, reason string) {
	entry, err := audit.NewEntry(audit.ActionAssignmentReassigned, &actorID, audit.SubjectAssignment, previous.ID(), uc.router.clock())
	if err != nil {
		uc.logger.Warnw("failed to build reassign audit entry", "assignment_id", previous.ID(), "error", err)
		return
	}
	entry.WithDetail("from_assignee_id", previous.AssigneeID()).
		WithDetail("to_assignee_id", outcome.assignment.AssigneeID()).
		WithDetail("successor_assignment_id", outcome.assignment.ID()).
		WithDetail("reason", reason)
	if err := uc.router.auditRepo.Append(ctx, entry); err != nil {
		uc.logger.Errorw("failed to write reassign audit entry", "assignment_id", previous.ID(), "error", err)
	}
}
