package mappers

import (
	"gorm.io/datatypes"

	"github.com/recordsdesk/triage/internal/domain/notification"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
)

type NotificationIntentMapper interface {
	ToModel(i *notification.Intent) *models.NotificationIntentModel
	ToDomain(m *models.NotificationIntentModel) *notification.Intent
}

type NotificationIntentMapperImpl struct{}

func NewNotificationIntentMapper() NotificationIntentMapper {
	return &NotificationIntentMapperImpl{}
}

func (m *NotificationIntentMapperImpl) ToModel(i *notification.Intent) *models.NotificationIntentModel {
	return &models.NotificationIntentModel{
		ID:           i.ID(),
		RecipientID:  i.RecipientID(),
		Kind:         string(i.Kind()),
		AssignmentID: i.AssignmentID(),
		EscalationID: i.EscalationID(),
		ContainerID:  i.ContainerID(),
		DedupeKey:    i.DedupeKey(),
		Payload:      datatypes.JSONMap(i.Payload()),
		CreatedAt:    i.CreatedAt(),
	}
}

func (m *NotificationIntentMapperImpl) ToDomain(model *models.NotificationIntentModel) *notification.Intent {
	if model == nil {
		return nil
	}
	return notification.ReconstructIntent(
		model.ID,
		model.RecipientID,
		notification.Kind(model.Kind),
		model.AssignmentID,
		model.EscalationID,
		model.ContainerID,
		model.DedupeKey,
		map[string]interface{}(model.Payload),
		model.CreatedAt.UTC(),
	)
}
