package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/recordsdesk/triage/internal/domain/assignment"
	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/mappers"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
	"github.com/recordsdesk/triage/internal/shared/db"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

type AssignmentRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AssignmentMapper
	logger logger.Interface
}

func NewAssignmentRepository(gdb *gorm.DB, log logger.Interface) *AssignmentRepositoryImpl {
	return &AssignmentRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewAssignmentMapper(),
		logger: log,
	}
}

func statusStrings(statuses []vo.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

func (r *AssignmentRepositoryImpl) Create(ctx context.Context, a *assignment.Assignment) error {
	model := r.mapper.ToModel(a)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateError(err) {
			return assignment.ErrActiveAssignmentExists
		}
		r.logger.Errorw("failed to create assignment", "work_item_id", a.WorkItemID(), "error", err)
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	return a.SetID(model.ID)
}

// Update writes the mutable columns if the stored version is one behind the aggregate.
func (r *AssignmentRepositoryImpl) Update(ctx context.Context, a *assignment.Assignment) error {
	model := r.mapper.ToModel(a)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.AssignmentModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]any{
			"status":                  model.Status,
			"active_work_item_id":     model.ActiveWorkItemID,
			"escalated_at":            model.EscalatedAt,
			"escalation_recipient_id": model.EscalationRecipientID,
			"completed_at":            model.CompletedAt,
			"closed_at":               model.ClosedAt,
			"overdue_at":              model.OverdueAt,
			"overdue_sweep_id":        model.OverdueSweepID,
			"updated_at":              model.UpdatedAt,
			"version":                 model.Version,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update assignment", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return assignment.ErrVersionConflict
	}
	return nil
}

func (r *AssignmentRepositoryImpl) first(ctx context.Context, query func(*gorm.DB) *gorm.DB) (*assignment.Assignment, error) {
	var model models.AssignmentModel
	err := query(db.GetTxFromContext(ctx, r.db)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *AssignmentRepositoryImpl) GetByID(ctx context.Context, id uint) (*assignment.Assignment, error) {
	return r.first(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("id = ?", id)
	})
}

func (r *AssignmentRepositoryImpl) GetActiveByWorkItem(ctx context.Context, workItemID string) (*assignment.Assignment, error) {
	return r.first(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("active_work_item_id = ?", workItemID)
	})
}

func (r *AssignmentRepositoryImpl) List(ctx context.Context, filter assignment.Filter) ([]*assignment.Assignment, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.AssignmentModel{})

	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.ContainerID != nil {
		query = query.Where("container_id = ?", *filter.ContainerID)
	}
	if filter.WorkItemID != nil {
		query = query.Where("work_item_id = ?", *filter.WorkItemID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", statusStrings(filter.Statuses))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	var rows []models.AssignmentModel
	if err := query.Scopes(db.NewestFirst("assigned_at"), db.Paginate(filter.Page, filter.PageSize)).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list assignments: %w", err)
	}

	list, err := r.mapper.ToDomainList(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *AssignmentRepositoryImpl) CountActiveByAssignee(ctx context.Context, assigneeID uint) (int, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.AssignmentModel{}).
		Where("assignee_id = ? AND status IN ?", assigneeID, statusStrings(vo.ActiveStatuses())).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active assignments: %w", err)
	}
	return int(count), nil
}

func (r *AssignmentRepositoryImpl) breachedScope(now time.Time, containerID *string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		q = q.Where("status IN ? AND sla_deadline < ?", statusStrings(vo.SweepableStatuses()), now.UTC())
		if containerID != nil {
			q = q.Where("container_id = ?", *containerID)
		}
		return q
	}
}

func (r *AssignmentRepositoryImpl) FindBreached(ctx context.Context, now time.Time, containerID *string) ([]*assignment.Assignment, error) {
	var rows []models.AssignmentModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(r.breachedScope(now, containerID)).
		Order("sla_deadline ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find breached assignments: %w", err)
	}
	return r.mapper.ToDomainList(rows)
}

// MarkOverdueBatch re-checks status and deadline in its own predicate, so rows completed or
// flagged by a concurrent sweep after selection are left untouched.
func (r *AssignmentRepositoryImpl) MarkOverdueBatch(ctx context.Context, now time.Time, containerID *string, sweepID string) (int64, error) {
	now = now.UTC()
	result := db.GetTxFromContext(ctx, r.db).Model(&models.AssignmentModel{}).
		Scopes(r.breachedScope(now, containerID)).
		Updates(map[string]any{
			"status":           vo.StatusOverdue.String(),
			"overdue_at":       now,
			"overdue_sweep_id": sweepID,
			"updated_at":       now,
			"version":          gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to mark assignments overdue", "sweep_id", sweepID, "error", result.Error)
		return 0, fmt.Errorf("failed to mark assignments overdue: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *AssignmentRepositoryImpl) ListBySweepID(ctx context.Context, sweepID string) ([]*assignment.Assignment, error) {
	var rows []models.AssignmentModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("overdue_sweep_id = ?", sweepID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list swept assignments: %w", err)
	}
	return r.mapper.ToDomainList(rows)
}

var _ assignment.Repository = (*AssignmentRepositoryImpl)(nil)
