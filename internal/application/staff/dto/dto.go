package dto

import (
	"time"

	"github.com/recordsdesk/triage/internal/domain/staff"
)

type StaffProfileDTO struct {
	UserID          uint      `json:"user_id"`
	UnitID          string    `json:"unit_id"`
	Role            string    `json:"role"`
	WIPLimit        int       `json:"wip_limit"`
	CurrentCount    int       `json:"current_assignment_count"`
	OverCapacity    bool      `json:"over_capacity"`
	EscalationChain []uint    `json:"escalation_chain"`
	Active          bool      `json:"active"`
	Version         int       `json:"version"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func ToStaffProfileDTO(p *staff.Profile) *StaffProfileDTO {
	if p == nil {
		return nil
	}
	chain := p.EscalationChain()
	if chain == nil {
		chain = []uint{}
	}
	return &StaffProfileDTO{
		UserID:          p.UserID(),
		UnitID:          p.UnitID(),
		Role:            p.Role().String(),
		WIPLimit:        p.WIPLimit(),
		CurrentCount:    p.CurrentCount(),
		OverCapacity:    p.IsOverCapacity(),
		EscalationChain: chain,
		Active:          p.IsActive(),
		Version:         p.Version(),
		UpdatedAt:       p.UpdatedAt(),
	}
}
