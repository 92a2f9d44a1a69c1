package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/recordsdesk/triage/internal/domain/escalation"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/mappers"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
	"github.com/recordsdesk/triage/internal/shared/db"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

type EscalationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.EscalationEventMapper
	logger logger.Interface
}

func NewEscalationRepository(gdb *gorm.DB, log logger.Interface) *EscalationRepositoryImpl {
	return &EscalationRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewEscalationEventMapper(),
		logger: log,
	}
}

func (r *EscalationRepositoryImpl) Create(ctx context.Context, e *escalation.Event) error {
	model := r.mapper.ToModel(e)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create escalation", "assignment_id", e.AssignmentID(), "error", err)
		return fmt.Errorf("failed to create escalation: %w", err)
	}
	return e.SetID(model.ID)
}

func (r *EscalationRepositoryImpl) Update(ctx context.Context, e *escalation.Event) error {
	model := r.mapper.ToModel(e)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.EscalationEventModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]any{
			"acknowledged_at":  model.AcknowledgedAt,
			"resolved_at":      model.ResolvedAt,
			"resolution_notes": model.ResolutionNotes,
			"updated_at":       model.UpdatedAt,
			"version":          model.Version,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update escalation", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update escalation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return escalation.ErrVersionConflict
	}
	return nil
}

func (r *EscalationRepositoryImpl) GetByID(ctx context.Context, id uint) (*escalation.Event, error) {
	var model models.EscalationEventModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get escalation: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *EscalationRepositoryImpl) ListByAssignment(ctx context.Context, assignmentID uint) ([]*escalation.Event, error) {
	var rows []models.EscalationEventModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("assignment_id = ?", assignmentID).
		Scopes(db.NewestFirst("escalated_at")).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list escalations: %w", err)
	}
	return r.mapper.ToDomainList(rows)
}

func (r *EscalationRepositoryImpl) ListPending(ctx context.Context, userID uint) ([]*escalation.Event, error) {
	var rows []models.EscalationEventModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("escalated_to_id = ? AND acknowledged_at IS NULL AND resolved_at IS NULL", userID).
		Scopes(db.NewestFirst("escalated_at")).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending escalations: %w", err)
	}
	return r.mapper.ToDomainList(rows)
}

func (r *EscalationRepositoryImpl) CountSince(ctx context.Context, assignmentID uint, since time.Time) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.EscalationEventModel{}).
		Where("assignment_id = ? AND escalated_at >= ?", assignmentID, since.UTC()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count recent escalations: %w", err)
	}
	return count, nil
}

var _ escalation.Repository = (*EscalationRepositoryImpl)(nil)
