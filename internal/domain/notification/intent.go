// Package notification defines the intents the engine hands to the external delivery
// service. The engine never delivers anything itself.
package notification

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindAssignmentOverdue  Kind = "assignment_overdue"
	KindEscalationReceived Kind = "escalation_received"
	KindEscalationRaised   Kind = "escalation_raised"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindAssignmentOverdue, KindEscalationReceived, KindEscalationRaised:
		return true
	}
	return false
}

type Intent struct {
	id           uint
	recipientID  uint
	kind         Kind
	assignmentID uint
	escalationID *uint
	containerID  *string
	dedupeKey    string
	payload      map[string]interface{}
	createdAt    time.Time
}

// NewIntent builds an intent whose dedupe key is derived from kind, subject and recipient,
// so repeating the same trigger never produces a second intent.
func NewIntent(kind Kind, recipientID, assignmentID uint, escalationID *uint, containerID *string, payload map[string]interface{}, at time.Time) (*Intent, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid notification kind: %s", kind)
	}
	if recipientID == 0 {
		return nil, fmt.Errorf("recipient ID is required")
	}
	if assignmentID == 0 {
		return nil, fmt.Errorf("assignment ID is required")
	}
	if kind != KindAssignmentOverdue && escalationID == nil {
		return nil, fmt.Errorf("escalation ID is required for %s", kind)
	}
	if payload == nil {
		payload = map[string]interface{}{}
	}

	return &Intent{
		recipientID:  recipientID,
		kind:         kind,
		assignmentID: assignmentID,
		escalationID: escalationID,
		containerID:  containerID,
		dedupeKey:    dedupeKey(kind, recipientID, assignmentID, escalationID),
		payload:      payload,
		createdAt:    at.UTC(),
	}, nil
}

func dedupeKey(kind Kind, recipientID, assignmentID uint, escalationID *uint) string {
	if escalationID != nil {
		return fmt.Sprintf("%s:escalation:%d:user:%d", kind, *escalationID, recipientID)
	}
	return fmt.Sprintf("%s:assignment:%d:user:%d", kind, assignmentID, recipientID)
}

func ReconstructIntent(id, recipientID uint, kind Kind, assignmentID uint, escalationID *uint, containerID *string, dedupeKey string, payload map[string]interface{}, createdAt time.Time) *Intent {
	return &Intent{
		id:           id,
		recipientID:  recipientID,
		kind:         kind,
		assignmentID: assignmentID,
		escalationID: escalationID,
		containerID:  containerID,
		dedupeKey:    dedupeKey,
		payload:      payload,
		createdAt:    createdAt,
	}
}

func (i *Intent) ID() uint                        { return i.id }
func (i *Intent) RecipientID() uint               { return i.recipientID }
func (i *Intent) Kind() Kind                      { return i.kind }
func (i *Intent) AssignmentID() uint              { return i.assignmentID }
func (i *Intent) EscalationID() *uint             { return i.escalationID }
func (i *Intent) ContainerID() *string            { return i.containerID }
func (i *Intent) DedupeKey() string               { return i.dedupeKey }
func (i *Intent) Payload() map[string]interface{} { return i.payload }
func (i *Intent) CreatedAt() time.Time            { return i.createdAt }

func (i *Intent) SetID(id uint) {
	i.id = id
}
