package usecases

import (
	"context"
	"errors"

	"github.com/recordsdesk/triage/internal/application/assignment/dto"
	"github.com/recordsdesk/triage/internal/domain/assignment"
	"github.com/recordsdesk/triage/internal/domain/staff"
	"github.com/recordsdesk/triage/internal/shared/biztime"
	"github.com/recordsdesk/triage/internal/shared/db"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

// TransitionCommand moves one assignment along its lifecycle on behalf of ActorID.
type TransitionCommand struct {
	AssignmentID uint
	ActorID      uint
}

func loadAssignment(ctx context.Context, repo assignment.Repository, log logger.Interface, id uint) (*assignment.Assignment, error) {
	a, err := repo.GetByID(ctx, id)
	if err != nil {
		log.Errorw("failed to load assignment", "assignment_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to load assignment")
	}
	if a == nil {
		return nil, apperrors.NewNotFoundError("assignment not found")
	}
	return a, nil
}

func transitionError(err error) error {
	if errors.Is(err, assignment.ErrTerminal) {
		return apperrors.NewConflictError("assignment is already closed", err.Error())
	}
	if errors.Is(err, assignment.ErrInvalidTransition) {
		return apperrors.NewValidationError("invalid status transition", err.Error())
	}
	return err
}

type StartAssignmentUseCase struct {
	assignmentRepo assignment.Repository
	retry          RetryPolicy
	clock          biztime.Clock
	logger         logger.Interface
}

func NewStartAssignmentUseCase(
	assignmentRepo assignment.Repository,
	retry RetryPolicy,
	clock biztime.Clock,
	logger logger.Interface,
) *StartAssignmentUseCase {
	return &StartAssignmentUseCase{
		assignmentRepo: assignmentRepo,
		retry:          retry,
		clock:          biztime.OrSystem(clock),
		logger:         logger,
	}
}

// Execute lets only the assignee start work.
func (uc *StartAssignmentUseCase) Execute(ctx context.Context, cmd TransitionCommand) (*dto.AssignmentDTO, error) {
	a, err := retryOnConflict(ctx, uc.retry, nil, func() (*assignment.Assignment, error) {
		a, err := loadAssignment(ctx, uc.assignmentRepo, uc.logger, cmd.AssignmentID)
		if err != nil {
			return nil, err
		}
		if a.AssigneeID() != cmd.ActorID {
			return nil, apperrors.NewForbiddenError("only the assignee can start work")
		}
		if err := a.Start(uc.clock()); err != nil {
			return nil, transitionError(err)
		}
		if err := uc.assignmentRepo.Update(ctx, a); err != nil {
			return nil, err
		}
		return a, nil
	})
	if err != nil {
		return nil, finishError(uc.logger, "start assignment", cmd.AssignmentID, err)
	}

	uc.logger.Infow("assignment started", "assignment_id", a.ID(), "assignee_id", a.AssigneeID())
	return dto.ToAssignmentDTO(a), nil
}

// CompleteAssignmentUseCase closes an assignment and releases the assignee's capacity in the
// same transaction.
type CompleteAssignmentUseCase struct {
	assignmentRepo assignment.Repository
	staffRepo      staff.Repository
	capacity       CapacityCounter
	txManager      db.Transactor
	retry          RetryPolicy
	clock          biztime.Clock
	logger         logger.Interface
}

func NewCompleteAssignmentUseCase(
	assignmentRepo assignment.Repository,
	staffRepo staff.Repository,
	capacity CapacityCounter,
	txManager db.Transactor,
	retry RetryPolicy,
	clock biztime.Clock,
	logger logger.Interface,
) *CompleteAssignmentUseCase {
	return &CompleteAssignmentUseCase{
		assignmentRepo: assignmentRepo,
		staffRepo:      staffRepo,
		capacity:       capacity,
		txManager:      txManager,
		retry:          retry,
		clock:          biztime.OrSystem(clock),
		logger:         logger,
	}
}

func (uc *CompleteAssignmentUseCase) Execute(ctx context.Context, cmd TransitionCommand) (*dto.AssignmentDTO, error) {
	uc.logger.Infow("executing complete assignment use case",
		"assignment_id", cmd.AssignmentID,
		"actor_id", cmd.ActorID,
	)

	a, err := retryOnConflict(ctx, uc.retry, nil, func() (*assignment.Assignment, error) {
		var done *assignment.Assignment
		err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
			a, err := loadAssignment(txCtx, uc.assignmentRepo, uc.logger, cmd.AssignmentID)
			if err != nil {
				return err
			}
			if err := uc.authorize(txCtx, a, cmd.ActorID); err != nil {
				return err
			}
			if err := a.Complete(uc.clock()); err != nil {
				return transitionError(err)
			}
			if err := uc.assignmentRepo.Update(txCtx, a); err != nil {
				return err
			}

			profile, err := uc.capacity.Profile(txCtx, a.AssigneeID())
			if err != nil {
				return err
			}
			if err := uc.capacity.CommitDecrement(txCtx, profile); err != nil {
				return err
			}
			done = a
			return nil
		})
		return done, err
	})
	if err != nil {
		return nil, finishError(uc.logger, "complete assignment", cmd.AssignmentID, err)
	}

	uc.logger.Infow("assignment completed", "assignment_id", a.ID(), "assignee_id", a.AssigneeID())
	return dto.ToAssignmentDTO(a), nil
}

// authorize admits the assignee, an admin, or a supervisor of the assignee's unit.
func (uc *CompleteAssignmentUseCase) authorize(ctx context.Context, a *assignment.Assignment, actorID uint) error {
	if a.AssigneeID() == actorID {
		return nil
	}
	profiles, err := uc.staffRepo.GetByUserIDs(ctx, []uint{actorID, a.AssigneeID()})
	if err != nil {
		return err
	}
	actor, assignee := profiles[actorID], profiles[a.AssigneeID()]
	if actor != nil && actor.Role().IsAdmin() && actor.IsActive() {
		return nil
	}
	if actor != nil && actor.CanManage(assignee) {
		return nil
	}
	return apperrors.NewForbiddenError("only the assignee or a responsible supervisor can complete this assignment")
}

// finishError turns what escaped a retried unit of work into an AppError.
func finishError(log logger.Interface, op string, assignmentID uint, err error) error {
	if isVersionConflict(err) {
		log.Warnw(op+" gave up after repeated version conflicts", "assignment_id", assignmentID)
		return apperrors.NewConflictError("assignment changed concurrently, retry")
	}
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr
	}
	log.Errorw("failed to "+op, "assignment_id", assignmentID, "error", err)
	return apperrors.NewInternalError("failed to " + op)
}
