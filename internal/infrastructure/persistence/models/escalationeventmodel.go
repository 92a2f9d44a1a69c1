package models

import "time"

type EscalationEventModel struct {
	ID              uint      `gorm:"primaryKey"`
	AssignmentID    uint      `gorm:"not null;index:idx_escalation_events_assignment_at,priority:1"`
	EscalatedFromID uint      `gorm:"not null"`
	EscalatedToID   uint      `gorm:"not null;index"`
	Reason          string    `gorm:"size:32;not null"`
	EscalatedAt     time.Time `gorm:"not null;index:idx_escalation_events_assignment_at,priority:2"`
	AcknowledgedAt  *time.Time
	ResolvedAt      *time.Time
	Notes           *string `gorm:"type:text"`
	ResolutionNotes *string `gorm:"type:text"`
	Version         int     `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (EscalationEventModel) TableName() string {
	return "escalation_events"
}
