package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/recordsdesk/triage/internal/domain/notification"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/mappers"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
	"github.com/recordsdesk/triage/internal/shared/db"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

const maxIntentListLimit = 200

type NotificationIntentRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.NotificationIntentMapper
	logger logger.Interface
}

func NewNotificationIntentRepository(gdb *gorm.DB, log logger.Interface) *NotificationIntentRepositoryImpl {
	return &NotificationIntentRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewNotificationIntentMapper(),
		logger: log,
	}
}

// Save relies on the unique dedupe_key index; a second intent for the same key is dropped.
func (r *NotificationIntentRepositoryImpl) Save(ctx context.Context, i *notification.Intent) (bool, error) {
	model := r.mapper.ToModel(i)
	result := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		r.logger.Errorw("failed to save notification intent", "dedupe_key", i.DedupeKey(), "error", result.Error)
		return false, fmt.Errorf("failed to save notification intent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	i.SetID(model.ID)
	return true, nil
}

func (r *NotificationIntentRepositoryImpl) ListByRecipient(ctx context.Context, recipientID uint, limit int) ([]*notification.Intent, error) {
	if limit <= 0 || limit > maxIntentListLimit {
		limit = maxIntentListLimit
	}

	var rows []models.NotificationIntentModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("recipient_id = ?", recipientID).
		Scopes(db.NewestFirst("created_at")).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notification intents: %w", err)
	}

	out := make([]*notification.Intent, 0, len(rows))
	for i := range rows {
		out = append(out, r.mapper.ToDomain(&rows[i]))
	}
	return out, nil
}

var _ notification.IntentRepository = (*NotificationIntentRepositoryImpl)(nil)
