package mappers

import (
	"fmt"

	"gorm.io/datatypes"

	"github.com/recordsdesk/triage/internal/domain/staff"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
	"github.com/recordsdesk/triage/internal/shared/authorization"
)

type StaffProfileMapper interface {
	ToModel(p *staff.Profile) *models.StaffProfileModel
	ToDomain(m *models.StaffProfileModel) (*staff.Profile, error)
}

type StaffProfileMapperImpl struct{}

func NewStaffProfileMapper() StaffProfileMapper {
	return &StaffProfileMapperImpl{}
}

func (m *StaffProfileMapperImpl) ToModel(p *staff.Profile) *models.StaffProfileModel {
	return &models.StaffProfileModel{
		UserID:                 p.UserID(),
		UnitID:                 p.UnitID(),
		Role:                   p.Role().String(),
		IndividualWIPLimit:     p.WIPLimit(),
		CurrentAssignmentCount: p.CurrentCount(),
		EscalationChain:        datatypes.NewJSONSlice(p.EscalationChain()),
		Active:                 p.IsActive(),
		Version:                p.Version(),
		CreatedAt:              p.CreatedAt(),
		UpdatedAt:              p.UpdatedAt(),
	}
}

func (m *StaffProfileMapperImpl) ToDomain(model *models.StaffProfileModel) (*staff.Profile, error) {
	if model == nil {
		return nil, nil
	}
	p, err := staff.ReconstructProfile(
		model.UserID,
		model.UnitID,
		authorization.Role(model.Role),
		model.IndividualWIPLimit,
		model.CurrentAssignmentCount,
		[]uint(model.EscalationChain),
		model.Active,
		model.Version,
		model.CreatedAt.UTC(),
		model.UpdatedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct staff profile %d: %w", model.UserID, err)
	}
	return p, nil
}
