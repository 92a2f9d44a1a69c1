package usecases

import (
	"context"
	"errors"

	"github.com/recordsdesk/triage/internal/application/staff/dto"
	"github.com/recordsdesk/triage/internal/domain/staff"
	"github.com/recordsdesk/triage/internal/shared/authorization"
	"github.com/recordsdesk/triage/internal/shared/biztime"
	"github.com/recordsdesk/triage/internal/shared/db"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

// UpsertProfileCommand carries the directory-owned attributes of a staff member.
type UpsertProfileCommand struct {
	UserID          uint
	UnitID          string
	Role            string
	WIPLimit        int
	EscalationChain []uint
	Active          bool
}

type UpsertProfileExecutor interface {
	Execute(ctx context.Context, cmd UpsertProfileCommand) (*dto.StaffProfileDTO, error)
}

type GetProfileExecutor interface {
	Execute(ctx context.Context, userID uint) (*dto.StaffProfileDTO, error)
}

// UpsertProfileUseCase syncs a profile from the staff directory. It never touches the
// in-flight assignment count, which only the engine maintains.
type UpsertProfileUseCase struct {
	staffRepo staff.Repository
	retry     db.RetryPolicy
	clock     biztime.Clock
	logger    logger.Interface
}

func NewUpsertProfileUseCase(
	staffRepo staff.Repository,
	retry db.RetryPolicy,
	clock biztime.Clock,
	logger logger.Interface,
) *UpsertProfileUseCase {
	return &UpsertProfileUseCase{
		staffRepo: staffRepo,
		retry:     retry,
		clock:     biztime.OrSystem(clock),
		logger:    logger,
	}
}

func (uc *UpsertProfileUseCase) Execute(ctx context.Context, cmd UpsertProfileCommand) (*dto.StaffProfileDTO, error) {
	uc.logger.Infow("executing upsert staff profile use case",
		"user_id", cmd.UserID,
		"unit_id", cmd.UnitID,
		"role", cmd.Role,
	)

	role := authorization.Role(cmd.Role)
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("invalid role", cmd.Role)
	}

	p, err := db.RetryOnConflict(ctx, uc.retry, isConflict, nil, func() (*staff.Profile, error) {
		return uc.upsert(ctx, cmd, role)
	})
	if err != nil {
		if isConflict(err) {
			return nil, apperrors.NewConflictError("staff profile was modified concurrently, try again")
		}
		if apperrors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to save staff profile", "user_id", cmd.UserID, "error", err)
		return nil, apperrors.NewInternalError("failed to save staff profile")
	}

	uc.logger.Infow("staff profile synced",
		"user_id", p.UserID(),
		"unit_id", p.UnitID(),
		"active", p.IsActive(),
		"version", p.Version(),
	)
	return dto.ToStaffProfileDTO(p), nil
}

func (uc *UpsertProfileUseCase) upsert(ctx context.Context, cmd UpsertProfileCommand, role authorization.Role) (*staff.Profile, error) {
	now := uc.clock()
	existing, err := uc.staffRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if err := existing.UpdateDirectory(cmd.UnitID, role, cmd.WIPLimit, cmd.EscalationChain, cmd.Active, now); err != nil {
			return nil, apperrors.NewValidationError("invalid staff profile", err.Error())
		}
		if err := uc.staffRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	p, err := staff.NewProfile(cmd.UserID, cmd.UnitID, role, cmd.WIPLimit, cmd.EscalationChain, now)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid staff profile", err.Error())
	}
	if !cmd.Active {
		if err := p.UpdateDirectory(cmd.UnitID, role, cmd.WIPLimit, cmd.EscalationChain, false, now); err != nil {
			return nil, apperrors.NewValidationError("invalid staff profile", err.Error())
		}
	}
	if err := uc.staffRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func isConflict(err error) bool {
	return errors.Is(err, staff.ErrVersionConflict)
}

type GetProfileUseCase struct {
	staffRepo staff.Repository
	logger    logger.Interface
}

func NewGetProfileUseCase(staffRepo staff.Repository, logger logger.Interface) *GetProfileUseCase {
	return &GetProfileUseCase{staffRepo: staffRepo, logger: logger}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uint) (*dto.StaffProfileDTO, error) {
	p, err := uc.staffRepo.GetByUserID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to load staff profile", "user_id", userID, "error", err)
		return nil, apperrors.NewInternalError("failed to load staff profile")
	}
	if p == nil {
		return nil, apperrors.NewNotFoundError("staff profile not found")
	}
	return dto.ToStaffProfileDTO(p), nil
}
