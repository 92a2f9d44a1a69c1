// Package escalation records that responsibility for an assignment was raised to a
// supervisor or admin, and tracks that person's acknowledgment and resolution.
package escalation

import (
	"fmt"
	"time"
)

type Event struct {
	id              uint
	assignmentID    uint
	escalatedFromID uint
	escalatedToID   uint
	reason          Reason
	escalatedAt     time.Time
	acknowledgedAt  *time.Time
	resolvedAt      *time.Time
	notes           *string
	resolutionNotes *string
	version         int
	createdAt       time.Time
	updatedAt       time.Time
}

func NewEvent(assignmentID, fromID, toID uint, reason Reason, notes *string, at time.Time) (*Event, error) {
	if assignmentID == 0 {
		return nil, fmt.Errorf("assignment ID is required")
	}
	if fromID == 0 || toID == 0 {
		return nil, fmt.Errorf("escalation endpoints are required")
	}
	if fromID == toID {
		return nil, fmt.Errorf("cannot escalate to the current assignee")
	}
	if !reason.IsValid() {
		return nil, fmt.Errorf("invalid escalation reason: %s", reason)
	}

	t := at.UTC()
	return &Event{
		assignmentID:    assignmentID,
		escalatedFromID: fromID,
		escalatedToID:   toID,
		reason:          reason,
		escalatedAt:     t,
		notes:           notes,
		version:         1,
		createdAt:       t,
		updatedAt:       t,
	}, nil
}

func ReconstructEvent(
	id, assignmentID, fromID, toID uint,
	reason Reason,
	escalatedAt time.Time,
	acknowledgedAt, resolvedAt *time.Time,
	notes, resolutionNotes *string,
	version int,
	createdAt, updatedAt time.Time,
) (*Event, error) {
	if id == 0 {
		return nil, fmt.Errorf("escalation ID cannot be zero")
	}
	if !reason.IsValid() {
		return nil, fmt.Errorf("invalid escalation reason: %s", reason)
	}
	return &Event{
		id:              id,
		assignmentID:    assignmentID,
		escalatedFromID: fromID,
		escalatedToID:   toID,
		reason:          reason,
		escalatedAt:     escalatedAt,
		acknowledgedAt:  acknowledgedAt,
		resolvedAt:      resolvedAt,
		notes:           notes,
		resolutionNotes: resolutionNotes,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func (e *Event) ID() uint                   { return e.id }
func (e *Event) AssignmentID() uint         { return e.assignmentID }
func (e *Event) EscalatedFromID() uint      { return e.escalatedFromID }
func (e *Event) EscalatedToID() uint        { return e.escalatedToID }
func (e *Event) Reason() Reason             { return e.reason }
func (e *Event) EscalatedAt() time.Time     { return e.escalatedAt }
func (e *Event) AcknowledgedAt() *time.Time { return e.acknowledgedAt }
func (e *Event) ResolvedAt() *time.Time     { return e.resolvedAt }
func (e *Event) Notes() *string             { return e.notes }
func (e *Event) ResolutionNotes() *string   { return e.resolutionNotes }
func (e *Event) Version() int               { return e.version }
func (e *Event) CreatedAt() time.Time       { return e.createdAt }
func (e *Event) UpdatedAt() time.Time       { return e.updatedAt }

func (e *Event) IsAcknowledged() bool { return e.acknowledgedAt != nil }
func (e *Event) IsResolved() bool     { return e.resolvedAt != nil }

func (e *Event) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("escalation ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("escalation ID cannot be zero")
	}
	e.id = id
	return nil
}

// clamp keeps event timestamps monotonic when clocks skew slightly.
func clamp(at, floor time.Time) time.Time {
	at = at.UTC()
	if at.Before(floor) {
		return floor
	}
	return at
}

// Acknowledge marks the event seen by its recipient. It reports false when the event was
// already acknowledged, in which case nothing changes.
func (e *Event) Acknowledge(userID uint, at time.Time) (bool, error) {
	if userID != e.escalatedToID {
		return false, ErrNotRecipient
	}
	if e.IsResolved() {
		return false, ErrAlreadyResolved
	}
	if e.IsAcknowledged() {
		return false, nil
	}
	t := clamp(at, e.escalatedAt)
	e.acknowledgedAt = &t
	e.updatedAt = t
	e.version++
	return true, nil
}

// Resolve closes the event. Acknowledgment is not required first. The notes given at
// escalation time are kept; notes passed here are stored as the resolution notes.
func (e *Event) Resolve(userID uint, notes *string, at time.Time) error {
	if userID != e.escalatedToID {
		return ErrNotRecipient
	}
	if e.IsResolved() {
		return ErrAlreadyResolved
	}
	floor := e.escalatedAt
	if e.acknowledgedAt != nil {
		floor = *e.acknowledgedAt
	}
	t := clamp(at, floor)
	e.resolvedAt = &t
	e.resolutionNotes = notes
	e.updatedAt = t
	e.version++
	return nil
}
