package mappers

import (
	"fmt"

	"github.com/recordsdesk/triage/internal/domain/assignment"
	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
)

// AssignmentMapper converts between the Assignment aggregate and its row.
type AssignmentMapper interface {
	ToModel(a *assignment.Assignment) *models.AssignmentModel
	ToDomain(m *models.AssignmentModel) (*assignment.Assignment, error)
	ToDomainList(ms []models.AssignmentModel) ([]*assignment.Assignment, error)
}

type AssignmentMapperImpl struct{}

func NewAssignmentMapper() AssignmentMapper {
	return &AssignmentMapperImpl{}
}

func (m *AssignmentMapperImpl) ToModel(a *assignment.Assignment) *models.AssignmentModel {
	return &models.AssignmentModel{
		ID:                    a.ID(),
		WorkItemID:            a.WorkItemID(),
		ActiveWorkItemID:      a.ActiveWorkItemID(),
		WorkItemType:          a.WorkItemType().String(),
		AssigneeID:            a.AssigneeID(),
		AssignedAt:            a.AssignedAt(),
		AssignedBy:            a.AssignedBy(),
		SLADeadline:           a.SLADeadline(),
		Priority:              a.Priority().String(),
		Status:                a.Status().String(),
		IsManualOverride:      a.IsManualOverride(),
		OverrideReason:        a.OverrideReason(),
		EscalatedAt:           a.EscalatedAt(),
		EscalationRecipientID: a.EscalationRecipientID(),
		ContainerID:           a.ContainerID(),
		ContextOwnerID:        a.ContextOwnerID(),
		CompletedAt:           a.CompletedAt(),
		ClosedAt:              a.ClosedAt(),
		OverdueAt:             a.OverdueAt(),
		OverdueSweepID:        a.OverdueSweepID(),
		Version:               a.Version(),
		CreatedAt:             a.CreatedAt(),
		UpdatedAt:             a.UpdatedAt(),
	}
}

func (m *AssignmentMapperImpl) ToDomain(model *models.AssignmentModel) (*assignment.Assignment, error) {
	if model == nil {
		return nil, nil
	}
	a, err := assignment.ReconstructAssignment(assignment.ReconstructAssignmentParams{
		ID:                    model.ID,
		WorkItemID:            model.WorkItemID,
		WorkItemType:          vo.WorkItemType(model.WorkItemType),
		AssigneeID:            model.AssigneeID,
		AssignedAt:            model.AssignedAt.UTC(),
		AssignedBy:            model.AssignedBy,
		SLADeadline:           model.SLADeadline.UTC(),
		Priority:              vo.Priority(model.Priority),
		Status:                vo.Status(model.Status),
		IsManualOverride:      model.IsManualOverride,
		OverrideReason:        model.OverrideReason,
		EscalatedAt:           utcPtr(model.EscalatedAt),
		EscalationRecipientID: model.EscalationRecipientID,
		ContainerID:           model.ContainerID,
		ContextOwnerID:        model.ContextOwnerID,
		CompletedAt:           utcPtr(model.CompletedAt),
		ClosedAt:              utcPtr(model.ClosedAt),
		OverdueAt:             utcPtr(model.OverdueAt),
		OverdueSweepID:        model.OverdueSweepID,
		Version:               model.Version,
		CreatedAt:             model.CreatedAt.UTC(),
		UpdatedAt:             model.UpdatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct assignment %d: %w", model.ID, err)
	}
	return a, nil
}

func (m *AssignmentMapperImpl) ToDomainList(ms []models.AssignmentModel) ([]*assignment.Assignment, error) {
	out := make([]*assignment.Assignment, 0, len(ms))
	for i := range ms {
		a, err := m.ToDomain(&ms[i])
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
