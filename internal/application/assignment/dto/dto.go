package dto

import (
	"time"

	"github.com/recordsdesk/triage/internal/domain/assignment"
)

type AssignmentDTO struct {
	ID                    uint       `json:"id"`
	WorkItemID            string     `json:"work_item_id"`
	WorkItemType          string     `json:"work_item_type"`
	AssigneeID            uint       `json:"assignee_id"`
	AssignedAt            time.Time  `json:"assigned_at"`
	AssignedBy            *uint      `json:"assigned_by"`
	SLADeadline           time.Time  `json:"sla_deadline"`
	Priority              string     `json:"priority"`
	Status                string     `json:"status"`
	IsManualOverride      bool       `json:"is_manual_override"`
	OverrideReason        *string    `json:"override_reason,omitempty"`
	EscalatedAt           *time.Time `json:"escalated_at"`
	EscalationRecipientID *uint      `json:"escalation_recipient_id"`
	ContainerID           *string    `json:"container_id"`
	ContextOwnerID        *uint      `json:"context_owner_id"`
	CompletedAt           *time.Time `json:"completed_at"`
	ClosedAt              *time.Time `json:"closed_at"`
	OverdueAt             *time.Time `json:"overdue_at"`
	Version               int        `json:"version"`
}

func ToAssignmentDTO(a *assignment.Assignment) *AssignmentDTO {
	if a == nil {
		return nil
	}
	return &AssignmentDTO{
		ID:                    a.ID(),
		WorkItemID:            a.WorkItemID(),
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
		Version:               a.Version(),
	}
}

func ToAssignmentDTOs(list []*assignment.Assignment) []*AssignmentDTO {
	out := make([]*AssignmentDTO, 0, len(list))
	for _, a := range list {
		out = append(out, ToAssignmentDTO(a))
	}
	return out
}
