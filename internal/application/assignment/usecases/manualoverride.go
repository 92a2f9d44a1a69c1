package usecases

import (
	"context"

	"github.com/recordsdesk/triage/internal/domain/staff"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

// ManualOverrideCommand is an assignment made by a supervisor or admin on behalf of the router.
type ManualOverrideCommand struct {
	ActorID        uint
	WorkItemID     string
	WorkItemType   string
	AssigneeID     uint
	Priority       string
	OverrideReason string
	ContainerID    *string
	ContextOwnerID *uint
}

// ManualOverrideUseCase checks the actor's authority over the assignee and then routes the
// assignment through the manual path, which tolerates an exhausted WIP limit.
type ManualOverrideUseCase struct {
	router    AssignWorkItemExecutor
	staffRepo staff.Repository
	logger    logger.Interface
}

func NewManualOverrideUseCase(
	router AssignWorkItemExecutor,
	staffRepo staff.Repository,
	logger logger.Interface,
) *ManualOverrideUseCase {
	return &ManualOverrideUseCase{
		router:    router,
		staffRepo: staffRepo,
		logger:    logger,
	}
}

func (uc *ManualOverrideUseCase) Execute(ctx context.Context, cmd ManualOverrideCommand) (*AssignWorkItemResult, error) {
	uc.logger.Infow("executing manual override use case",
		"actor_id", cmd.ActorID,
		"work_item_id", cmd.WorkItemID,
		"assignee_id", cmd.AssigneeID,
	)

	if cmd.ActorID == 0 {
		return nil, apperrors.NewUnauthorizedError("actor is required")
	}
	if cmd.AssigneeID == 0 {
		return nil, apperrors.NewValidationError("assignee ID is required")
	}

	if err := authorizeOverride(ctx, uc.staffRepo, uc.logger, cmd.ActorID, cmd.AssigneeID); err != nil {
		return nil, err
	}

	actorID := cmd.ActorID
	reason := cmd.OverrideReason
	return uc.router.Execute(ctx, AssignWorkItemCommand{
		WorkItemID:     cmd.WorkItemID,
		WorkItemType:   cmd.WorkItemType,
		AssigneeID:     cmd.AssigneeID,
		Priority:       cmd.Priority,
		AssignedBy:     &actorID,
		OverrideReason: &reason,
		ContainerID:    cmd.ContainerID,
		ContextOwnerID: cmd.ContextOwnerID,
	})
}

// authorizeOverride requires an active supervisor or admin actor. Supervisors are limited to
// staff of their own unit. A missing assignee is left for the router to report as NotFound.
func authorizeOverride(ctx context.Context, staffRepo staff.Repository, log logger.Interface, actorID, assigneeID uint) error {
	profiles, err := staffRepo.GetByUserIDs(ctx, []uint{actorID, assigneeID})
	if err != nil {
		log.Errorw("failed to load staff profiles", "actor_id", actorID, "assignee_id", assigneeID, "error", err)
		return apperrors.NewInternalError("failed to load staff profiles")
	}

	actor := profiles[actorID]
	if actor == nil || !actor.IsActive() || !actor.Role().CanOverride() {
		log.Warnw("override rejected: actor lacks override role", "actor_id", actorID)
		return apperrors.NewForbiddenError("only supervisors and admins can override assignments")
	}

	assignee := profiles[assigneeID]
	if assignee == nil {
		return nil
	}
	if !actor.CanManage(assignee) {
		log.Warnw("override rejected: assignee outside actor's unit",
			"actor_id", actorID,
			"actor_unit", actor.UnitID(),
			"assignee_unit", assignee.UnitID(),
		)
		return apperrors.NewForbiddenError("supervisors can only assign staff of their own unit")
	}
	return nil
}
