package mappers

import (
	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
	"github.com/recordsdesk/triage/internal/domain/sla"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
)

type SLAConfigMapper interface {
	ToModel(c *sla.Config) *models.SLAConfigModel
	ToDomain(m *models.SLAConfigModel) *sla.Config
}

type SLAConfigMapperImpl struct{}

func NewSLAConfigMapper() SLAConfigMapper {
	return &SLAConfigMapperImpl{}
}

func (m *SLAConfigMapperImpl) ToModel(c *sla.Config) *models.SLAConfigModel {
	return &models.SLAConfigModel{
		ID:            c.ID(),
		WorkItemType:  c.WorkItemType().String(),
		Priority:      c.Priority().String(),
		DeadlineHours: c.DeadlineHours(),
		CreatedAt:     c.CreatedAt(),
		UpdatedAt:     c.UpdatedAt(),
	}
}

func (m *SLAConfigMapperImpl) ToDomain(model *models.SLAConfigModel) *sla.Config {
	if model == nil {
		return nil
	}
	return sla.ReconstructConfig(
		model.ID,
		vo.WorkItemType(model.WorkItemType),
		vo.Priority(model.Priority),
		model.DeadlineHours,
		model.CreatedAt.UTC(),
		model.UpdatedAt.UTC(),
	)
}
