package dto

import (
	"time"

	"github.com/recordsdesk/triage/internal/domain/escalation"
)

type EscalationDTO struct {
	ID              uint       `json:"id"`
	AssignmentID    uint       `json:"assignment_id"`
	EscalatedFromID uint       `json:"escalated_from_id"`
	EscalatedToID   uint       `json:"escalated_to_id"`
	Reason          string     `json:"reason"`
	EscalatedAt     time.Time  `json:"escalated_at"`
	AcknowledgedAt  *time.Time `json:"acknowledged_at"`
	ResolvedAt      *time.Time `json:"resolved_at"`
	Notes           *string    `json:"notes,omitempty"`
	NotesHTML       string     `json:"notes_html,omitempty"`
	ResolutionNotes     *string `json:"resolution_notes,omitempty"`
	ResolutionNotesHTML string  `json:"resolution_notes_html,omitempty"`
	Version         int        `json:"version"`
}

func ToEscalationDTO(e *escalation.Event) *EscalationDTO {
	if e == nil {
		return nil
	}
	return &EscalationDTO{
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
	}
}
