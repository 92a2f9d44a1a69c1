package mappers

import (
	"gorm.io/datatypes"

	"github.com/recordsdesk/triage/internal/domain/audit"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
)

type AuditEntryMapper interface {
	ToModel(e *audit.Entry) *models.AuditEntryModel
	ToDomain(m *models.AuditEntryModel) *audit.Entry
}

type AuditEntryMapperImpl struct{}

func NewAuditEntryMapper() AuditEntryMapper {
	return &AuditEntryMapperImpl{}
}

func (m *AuditEntryMapperImpl) ToModel(e *audit.Entry) *models.AuditEntryModel {
	model := &models.AuditEntryModel{
		ID:          e.ID(),
		ActorID:     e.ActorID(),
		Action:      string(e.Action()),
		SubjectType: e.SubjectType(),
		SubjectID:   e.SubjectID(),
		Details:     datatypes.JSONMap(e.Details()),
		CreatedAt:   e.CreatedAt(),
	}
	if c := e.Capacity(); c != nil {
		model.CapacityBefore = intPtr(c.Before)
		model.CapacityAfter = intPtr(c.After)
		model.CapacityLimit = intPtr(c.Limit)
	}
	return model
}

func (m *AuditEntryMapperImpl) ToDomain(model *models.AuditEntryModel) *audit.Entry {
	if model == nil {
		return nil
	}
	var snapshot *audit.CapacitySnapshot
	if model.CapacityBefore != nil && model.CapacityAfter != nil && model.CapacityLimit != nil {
		snapshot = &audit.CapacitySnapshot{
			Before: *model.CapacityBefore,
			After:  *model.CapacityAfter,
			Limit:  *model.CapacityLimit,
		}
	}
	return audit.ReconstructEntry(
		model.ID,
		model.ActorID,
		audit.Action(model.Action),
		model.SubjectType,
		model.SubjectID,
		snapshot,
		map[string]interface{}(model.Details),
		model.CreatedAt.UTC(),
	)
}
