// Package assignment holds the Assignment aggregate: one staff member's responsibility for
// one work item under an SLA deadline.
package assignment

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
	"github.com/recordsdesk/triage/internal/shared/biztime"
)

type Assignment struct {
	id                    uint
	workItemID            string
	workItemType          vo.WorkItemType
	assigneeID            uint
	assignedAt            time.Time
	assignedBy            *uint
	slaDeadline           time.Time
	priority              vo.Priority
	status                vo.Status
	isManualOverride      bool
	overrideReason        *string
	escalatedAt           *time.Time
	escalationRecipientID *uint
	containerID           *string
	contextOwnerID        *uint
	completedAt           *time.Time
	closedAt              *time.Time
	overdueAt             *time.Time
	overdueSweepID        *string
	version               int
	createdAt             time.Time
	updatedAt             time.Time
}

// NewAssignmentParams carries everything needed to open an assignment.
// AssignedBy set means a manual override and requires OverrideReason.
type NewAssignmentParams struct {
	WorkItemID     string
	WorkItemType   vo.WorkItemType
	AssigneeID     uint
	Priority       vo.Priority
	AssignedBy     *uint
	OverrideReason *string
	ContainerID    *string
	ContextOwnerID *uint
	AssignedAt     time.Time
	DeadlineHours  int
}

func NewAssignment(p NewAssignmentParams) (*Assignment, error) {
	if strings.TrimSpace(p.WorkItemID) == "" {
		return nil, fmt.Errorf("work item ID is required")
	}
	if !p.WorkItemType.IsValid() {
		return nil, fmt.Errorf("invalid work item type: %s", p.WorkItemType)
	}
	if !p.Priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", p.Priority)
	}
	if p.AssigneeID == 0 {
		return nil, fmt.Errorf("assignee ID is required")
	}
	if p.DeadlineHours <= 0 {
		return nil, fmt.Errorf("deadline hours must be positive")
	}
	if p.AssignedAt.IsZero() {
		return nil, fmt.Errorf("assigned at is required")
	}
	manual := p.AssignedBy != nil
	if manual && (p.OverrideReason == nil || strings.TrimSpace(*p.OverrideReason) == "") {
		return nil, fmt.Errorf("override reason is required for manual assignment")
	}

	containerID := p.ContainerID
	if containerID == nil && p.WorkItemType == vo.WorkItemDossier {
		id := p.WorkItemID
		containerID = &id
	}

	assignedAt := p.AssignedAt.UTC()
	a := &Assignment{
		workItemID:       p.WorkItemID,
		workItemType:     p.WorkItemType,
		assigneeID:       p.AssigneeID,
		assignedAt:       assignedAt,
		assignedBy:       p.AssignedBy,
		slaDeadline:      biztime.DeadlineAfter(assignedAt, p.DeadlineHours),
		priority:         p.Priority,
		status:           vo.StatusAssigned,
		isManualOverride: manual,
		containerID:      containerID,
		contextOwnerID:   p.ContextOwnerID,
		version:          1,
		createdAt:        assignedAt,
		updatedAt:        assignedAt,
	}
	if manual {
		a.overrideReason = p.OverrideReason
	}
	return a, nil
}

// ReconstructAssignmentParams mirrors the stored row.
type ReconstructAssignmentParams struct {
	ID                    uint
	WorkItemID            string
	WorkItemType          vo.WorkItemType
	AssigneeID            uint
	AssignedAt            time.Time
	AssignedBy            *uint
	SLADeadline           time.Time
	Priority              vo.Priority
	Status                vo.Status
	IsManualOverride      bool
	OverrideReason        *string
	EscalatedAt           *time.Time
	EscalationRecipientID *uint
	ContainerID           *string
	ContextOwnerID        *uint
	CompletedAt           *time.Time
	ClosedAt              *time.Time
	OverdueAt             *time.Time
	OverdueSweepID        *string
	Version               int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func ReconstructAssignment(p ReconstructAssignmentParams) (*Assignment, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("assignment ID cannot be zero")
	}
	if !p.WorkItemType.IsValid() {
		return nil, fmt.Errorf("invalid work item type: %s", p.WorkItemType)
	}
	if !p.Priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", p.Priority)
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", p.Status)
	}

	return &Assignment{
		id:                    p.ID,
		workItemID:            p.WorkItemID,
		workItemType:          p.WorkItemType,
		assigneeID:            p.AssigneeID,
		assignedAt:            p.AssignedAt,
		assignedBy:            p.AssignedBy,
		slaDeadline:           p.SLADeadline,
		priority:              p.Priority,
		status:                p.Status,
		isManualOverride:      p.IsManualOverride,
		overrideReason:        p.OverrideReason,
		escalatedAt:           p.EscalatedAt,
		escalationRecipientID: p.EscalationRecipientID,
		containerID:           p.ContainerID,
		contextOwnerID:        p.ContextOwnerID,
		completedAt:           p.CompletedAt,
		closedAt:              p.ClosedAt,
		overdueAt:             p.OverdueAt,
		overdueSweepID:        p.OverdueSweepID,
		version:               p.Version,
		createdAt:             p.CreatedAt,
		updatedAt:             p.UpdatedAt,
	}, nil
}

func (a *Assignment) ID() uint                      { return a.id }
func (a *Assignment) WorkItemID() string            { return a.workItemID }
func (a *Assignment) WorkItemType() vo.WorkItemType { return a.workItemType }
func (a *Assignment) AssigneeID() uint              { return a.assigneeID }
func (a *Assignment) AssignedAt() time.Time         { return a.assignedAt }
func (a *Assignment) AssignedBy() *uint             { return a.assignedBy }
func (a *Assignment) SLADeadline() time.Time        { return a.slaDeadline }
func (a *Assignment) Priority() vo.Priority         { return a.priority }
func (a *Assignment) Status() vo.Status             { return a.status }
func (a *Assignment) IsManualOverride() bool        { return a.isManualOverride }
func (a *Assignment) OverrideReason() *string       { return a.overrideReason }
func (a *Assignment) EscalatedAt() *time.Time       { return a.escalatedAt }
func (a *Assignment) EscalationRecipientID() *uint  { return a.escalationRecipientID }
func (a *Assignment) ContainerID() *string          { return a.containerID }
func (a *Assignment) ContextOwnerID() *uint         { return a.contextOwnerID }
func (a *Assignment) CompletedAt() *time.Time       { return a.completedAt }
func (a *Assignment) ClosedAt() *time.Time          { return a.closedAt }
func (a *Assignment) OverdueAt() *time.Time         { return a.overdueAt }
func (a *Assignment) OverdueSweepID() *string       { return a.overdueSweepID }
func (a *Assignment) Version() int                  { return a.version }
func (a *Assignment) CreatedAt() time.Time          { return a.createdAt }
func (a *Assignment) UpdatedAt() time.Time          { return a.updatedAt }

// ActiveWorkItemID is the value of the unique active-work-item key: the work item id
// while the assignment is open, nil once terminal.
func (a *Assignment) ActiveWorkItemID() *string {
	if a.status.IsTerminal() {
		return nil
	}
	id := a.workItemID
	return &id
}

func (a *Assignment) IsTerminal() bool {
	return a.status.IsTerminal()
}

// IsBreachedAt reports whether the deadline passed at now while the item is still sweepable.
func (a *Assignment) IsBreachedAt(now time.Time) bool {
	return a.status.IsSweepable() && a.slaDeadline.Before(now)
}

func (a *Assignment) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("assignment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("assignment ID cannot be zero")
	}
	a.id = id
	return nil
}

func (a *Assignment) transition(next vo.Status, at time.Time) error {
	if !a.status.CanTransitionTo(next) {
		if a.status.IsTerminal() {
			return fmt.Errorf("%w: %s", ErrTerminal, a.status)
		}
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, a.status, next)
	}
	a.status = next
	a.updatedAt = at.UTC()
	a.version++
	return nil
}

// Start moves an assigned item into progress.
func (a *Assignment) Start(at time.Time) error {
	return a.transition(vo.StatusInProgress, at)
}

// MarkOverdue flags a breached item and records which sweep run did it.
func (a *Assignment) MarkOverdue(at time.Time, sweepID string) error {
	if err := a.transition(vo.StatusOverdue, at); err != nil {
		return err
	}
	t := at.UTC()
	a.overdueAt = &t
	a.overdueSweepID = &sweepID
	return nil
}

func (a *Assignment) Complete(at time.Time) error {
	if err := a.transition(vo.StatusCompleted, at); err != nil {
		return err
	}
	t := at.UTC()
	a.completedAt = &t
	a.closedAt = &t
	return nil
}

// CloseAsReassigned retires the row; the successor assignment is created separately.
func (a *Assignment) CloseAsReassigned(at time.Time) error {
	if err := a.transition(vo.StatusReassigned, at); err != nil {
		return err
	}
	t := at.UTC()
	a.closedAt = &t
	return nil
}

// RecordEscalation notes who was alerted. The assignee stays responsible.
func (a *Assignment) RecordEscalation(recipientID uint, at time.Time) error {
	if a.status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrTerminal, a.status)
	}
	if recipientID == 0 {
		return fmt.Errorf("escalation recipient ID is required")
	}
	t := at.UTC()
	a.escalatedAt = &t
	a.escalationRecipientID = &recipientID
	a.updatedAt = t
	a.version++
	return nil
}
