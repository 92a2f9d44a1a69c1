package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
	"github.com/recordsdesk/triage/internal/domain/sla"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/mappers"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
	"github.com/recordsdesk/triage/internal/shared/biztime"
	"github.com/recordsdesk/triage/internal/shared/db"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

type SLAConfigRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SLAConfigMapper
	logger logger.Interface
	clock  biztime.Clock
}

func NewSLAConfigRepository(gdb *gorm.DB, log logger.Interface) *SLAConfigRepositoryImpl {
	return &SLAConfigRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewSLAConfigMapper(),
		logger: log,
		clock:  biztime.NowUTC,
	}
}

func (r *SLAConfigRepositoryImpl) Get(ctx context.Context, workItemType vo.WorkItemType, priority vo.Priority) (*sla.Config, error) {
	var model models.SLAConfigModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("work_item_type = ? AND priority = ?", workItemType.String(), priority.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get SLA config: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *SLAConfigRepositoryImpl) List(ctx context.Context) ([]*sla.Config, error) {
	var rows []models.SLAConfigModel
	err := db.GetTxFromContext(ctx, r.db).
		Order("work_item_type ASC").
		Order("priority ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list SLA configs: %w", err)
	}

	out := make([]*sla.Config, 0, len(rows))
	for i := range rows {
		out = append(out, r.mapper.ToDomain(&rows[i]))
	}
	return out, nil
}

// Upsert inserts the row or overwrites deadline_hours of the existing (type, priority) pair.
func (r *SLAConfigRepositoryImpl) Upsert(ctx context.Context, c *sla.Config) error {
	model := r.mapper.ToModel(c)
	now := r.clock()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
	}
	model.UpdatedAt = now

	err := db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "work_item_type"}, {Name: "priority"}},
		DoUpdates: clause.AssignmentColumns([]string{"deadline_hours", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert SLA config", "key", sla.Key(c.WorkItemType(), c.Priority()), "error", err)
		return fmt.Errorf("failed to upsert SLA config: %w", err)
	}
	return nil
}

var _ sla.Repository = (*SLAConfigRepositoryImpl)(nil)

// durationOrDefault keeps zero-valued config from disabling expiry.
func durationOrDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
