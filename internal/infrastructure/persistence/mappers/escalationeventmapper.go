package mappers

import (
	"fmt"

	"github.com/recordsdesk/triage/internal/domain/escalation"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
)

type EscalationEventMapper interface {
	ToModel(e *escalation.Event) *models.EscalationEventModel
	ToDomain(m *models.EscalationEventModel) (*escalation.Event, error)
	ToDomainList(ms []models.EscalationEventModel) ([]*escalation.Event, error)
}

type EscalationEventMapperImpl struct{}

func NewEscalationEventMapper() EscalationEventMapper {
	return &EscalationEventMapperImpl{}
}

func (m *EscalationEventMapperImpl) ToModel(e *escalation.Event) *models.EscalationEventModel {
	return &models.EscalationEventModel{
		ID:              e.ID(),
		AssignmentID:    e.AssignmentID(),
		EscalatedFromID: e.EscalatedFromID(),
		EscalatedToID:   e.EscalatedToID(),
		Reason:          e.Reason().String(),
		EscalatedAt:     e.EscalatedAt(),
		AcknowledgedAt:  e.AcknowledgedAt(),
		ResolvedAt:      e.ResolvedAt(),
		Notes:           e.Notes(),
		ResolutionNotes: e.ResolutionNotes(),
		Version:         e.Version(),
		CreatedAt:       e.CreatedAt(),
		UpdatedAt:       e.UpdatedAt(),
	}
}

func (m *EscalationEventMapperImpl) ToDomain(model *models.EscalationEventModel) (*escalation.Event, error) {
	if model == nil {
		return nil, nil
	}
	e, err := escalation.ReconstructEvent(
		model.ID,
		model.AssignmentID,
		model.EscalatedFromID,
		model.EscalatedToID,
		escalation.Reason(model.Reason),
		model.EscalatedAt.UTC(),
		utcPtr(model.AcknowledgedAt),
		utcPtr(model.ResolvedAt),
		model.Notes,
		model.ResolutionNotes,
		model.Version,
		model.CreatedAt.UTC(),
		model.UpdatedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct escalation %d: %w", model.ID, err)
	}
	return e, nil
}

func (m *EscalationEventMapperImpl) ToDomainList(ms []models.EscalationEventModel) ([]*escalation.Event, error) {
	out := make([]*escalation.Event, 0, len(ms))
	for i := range ms {
		e, err := m.ToDomain(&ms[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
