package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/recordsdesk/triage/internal/domain/audit"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/mappers"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
	"github.com/recordsdesk/triage/internal/shared/db"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

// AuditRepositoryImpl is append-only.
type AuditRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AuditEntryMapper
	logger logger.Interface
}

func NewAuditRepository(gdb *gorm.DB, log logger.Interface) *AuditRepositoryImpl {
	return &AuditRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewAuditEntryMapper(),
		logger: log,
	}
}

func (r *AuditRepositoryImpl) Append(ctx context.Context, e *audit.Entry) error {
	model := r.mapper.ToModel(e)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to append audit entry",
			"action", e.Action(),
			"subject_type", e.SubjectType(),
			"subject_id", e.SubjectID(),
			"error", err,
		)
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	e.SetID(model.ID)
	return nil
}

func (r *AuditRepositoryImpl) ListBySubject(ctx context.Context, subjectType string, subjectID uint) ([]*audit.Entry, error) {
	var rows []models.AuditEntryModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("subject_type = ? AND subject_id = ?", subjectType, subjectID).
		Scopes(db.NewestFirst("created_at")).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	out := make([]*audit.Entry, 0, len(rows))
	for i := range rows {
		out = append(out, r.mapper.ToDomain(&rows[i]))
	}
	return out, nil
}

var _ audit.Repository = (*AuditRepositoryImpl)(nil)
