// Package audit is the append-only trail of privileged engine actions.
package audit

import (
	"fmt"
	"time"
)

type Action string

const (
	ActionManualOverride         Action = "manual_override"
	ActionAssignmentReassigned   Action = "assignment_reassigned"
	ActionEscalationCreated      Action = "escalation_created"
	ActionEscalationAcknowledged Action = "escalation_acknowledged"
	ActionEscalationResolved     Action = "escalation_resolved"
	ActionCapacityReconciled     Action = "capacity_reconciled"
)

const (
	SubjectAssignment = "assignment"
	SubjectEscalation = "escalation"
	SubjectStaff      = "staff"
)

// CapacitySnapshot is the load around a privileged change.
type CapacitySnapshot struct {
	Before int
	After  int
	Limit  int
}

type Entry struct {
	id          uint
	actorID     *uint
	action      Action
	subjectType string
	subjectID   uint
	capacity    *CapacitySnapshot
	details     map[string]interface{}
	createdAt   time.Time
}

func NewEntry(action Action, actorID *uint, subjectType string, subjectID uint, at time.Time) (*Entry, error) {
	if action == "" {
		return nil, fmt.Errorf("audit action is required")
	}
	if subjectType == "" || subjectID == 0 {
		return nil, fmt.Errorf("audit subject is required")
	}
	return &Entry{
		actorID:     actorID,
		action:      action,
		subjectType: subjectType,
		subjectID:   subjectID,
		details:     map[string]interface{}{},
		createdAt:   at.UTC(),
	}, nil
}

func ReconstructEntry(id uint, actorID *uint, action Action, subjectType string, subjectID uint, capacity *CapacitySnapshot, details map[string]interface{}, createdAt time.Time) *Entry {
	if details == nil {
		details = map[string]interface{}{}
	}
	return &Entry{
		id:          id,
		actorID:     actorID,
		action:      action,
		subjectType: subjectType,
		subjectID:   subjectID,
		capacity:    capacity,
		details:     details,
		createdAt:   createdAt,
	}
}

func (e *Entry) WithCapacity(s CapacitySnapshot) *Entry {
	e.capacity = &s
	return e
}

func (e *Entry) WithDetail(key string, value interface{}) *Entry {
	e.details[key] = value
	return e
}

func (e *Entry) ID() uint                    { return e.id }
func (e *Entry) ActorID() *uint              { return e.actorID }
func (e *Entry) Action() Action              { return e.action }
func (e *Entry) SubjectType() string         { return e.subjectType }
func (e *Entry) SubjectID() uint             { return e.subjectID }
func (e *Entry) Capacity() *CapacitySnapshot { return e.capacity }
func (e *Entry) CreatedAt() time.Time        { return e.createdAt }

func (e *Entry) Details() map[string]interface{} {
	out := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		out[k] = v
	}
	return out
}

func (e *Entry) SetID(id uint) {
	e.id = id
}
