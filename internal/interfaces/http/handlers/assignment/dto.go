package assignment

import (
	"github.com/recordsdesk/triage/internal/application/assignment/usecases"
)

type CreateAssignmentRequest struct {
	WorkItemID     string  `json:"work_item_id" validate:"notblank,max=64"`
	WorkItemType   string  `json:"work_item_type" validate:"notblank"`
	AssigneeID     uint    `json:"assignee_id" validate:"required,gt=0"`
	Priority       string  `json:"priority" validate:"notblank"`
	ContainerID    *string `json:"container_id,omitempty" validate:"omitempty,max=128"`
	ContextOwnerID *uint   `json:"context_owner_id,omitempty"`
}

func (r CreateAssignmentRequest) ToCommand() usecases.AssignWorkItemCommand {
	return usecases.AssignWorkItemCommand{
		WorkItemID:     r.WorkItemID,
		WorkItemType:   r.WorkItemType,
		AssigneeID:     r.AssigneeID,
		Priority:       r.Priority,
		ContainerID:    r.ContainerID,
		ContextOwnerID: r.ContextOwnerID,
	}
}

// ManualOverrideRequest leaves reason length to the use case, which counts runes after
// sanitizing.
type ManualOverrideRequest struct {
	CreateAssignmentRequest
	OverrideReason string `json:"override_reason" validate:"notblank"`
}

func (r ManualOverrideRequest) ToCommand(actorID uint) usecases.ManualOverrideCommand {
	return usecases.ManualOverrideCommand{
		ActorID:        actorID,
		WorkItemID:     r.WorkItemID,
		WorkItemType:   r.WorkItemType,
		AssigneeID:     r.AssigneeID,
		Priority:       r.Priority,
		OverrideReason: r.OverrideReason,
		ContainerID:    r.ContainerID,
		ContextOwnerID: r.ContextOwnerID,
	}
}

type ReassignRequest struct {
	NewAssigneeID uint   `json:"new_assignee_id" validate:"required,gt=0"`
	Reason        string `json:"reason" validate:"notblank"`
}
