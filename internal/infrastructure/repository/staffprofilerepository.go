package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/recordsdesk/triage/internal/domain/staff"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/mappers"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
	"github.com/recordsdesk/triage/internal/shared/authorization"
	"github.com/recordsdesk/triage/internal/shared/db"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

type StaffProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.StaffProfileMapper
	logger logger.Interface
}

func NewStaffProfileRepository(gdb *gorm.DB, log logger.Interface) *StaffProfileRepositoryImpl {
	return &StaffProfileRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewStaffProfileMapper(),
		logger: log,
	}
}

func (r *StaffProfileRepositoryImpl) Create(ctx context.Context, p *staff.Profile) error {
	model := r.mapper.ToModel(p)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateError(err) {
			return staff.ErrVersionConflict
		}
		r.logger.Errorw("failed to create staff profile", "user_id", p.UserID(), "error", err)
		return fmt.Errorf("failed to create staff profile: %w", err)
	}
	return nil
}

// Update applies optimistic locking on the version column. Counter changes and directory
// changes share the same version so neither can overwrite the other.
func (r *StaffProfileRepositoryImpl) Update(ctx context.Context, p *staff.Profile) error {
	model := r.mapper.ToModel(p)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.StaffProfileModel{}).
		Where("user_id = ? AND version = ?", model.UserID, model.Version-1).
		Updates(map[string]any{
			"unit_id":                  model.UnitID,
			"role":                     model.Role,
			"individual_wip_limit":     model.IndividualWIPLimit,
			"current_assignment_count": model.CurrentAssignmentCount,
			"escalation_chain":         model.EscalationChain,
			"active":                   model.Active,
			"updated_at":               model.UpdatedAt,
			"version":                  model.Version,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update staff profile", "user_id", model.UserID, "error", result.Error)
		return fmt.Errorf("failed to update staff profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return staff.ErrVersionConflict
	}
	return nil
}

func (r *StaffProfileRepositoryImpl) GetByUserID(ctx context.Context, userID uint) (*staff.Profile, error) {
	var model models.StaffProfileModel
	err := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get staff profile: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *StaffProfileRepositoryImpl) GetByUserIDs(ctx context.Context, userIDs []uint) (map[uint]*staff.Profile, error) {
	out := make(map[uint]*staff.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []models.StaffProfileModel
	if err := db.GetTxFromContext(ctx, r.db).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get staff profiles: %w", err)
	}
	for i := range rows {
		p, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out[p.UserID()] = p
	}
	return out, nil
}

func (r *StaffProfileRepositoryImpl) ListActiveByRole(ctx context.Context, role authorization.Role, unitID string) ([]*staff.Profile, error) {
	query := db.GetTxFromContext(ctx, r.db).Where("role = ? AND active = ?", role.String(), true)
	if unitID != "" {
		query = query.Where("unit_id = ?", unitID)
	}

	var rows []models.StaffProfileModel
	if err := query.Order("user_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list staff profiles by role: %w", err)
	}

	out := make([]*staff.Profile, 0, len(rows))
	for i := range rows {
		p, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *StaffProfileRepositoryImpl) ListUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := db.GetTxFromContext(ctx, r.db).Model(&models.StaffProfileModel{}).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list staff user IDs: %w", err)
	}
	return ids, nil
}

var _ staff.Repository = (*StaffProfileRepositoryImpl)(nil)
