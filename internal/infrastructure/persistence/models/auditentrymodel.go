package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditEntryModel rows are inserted once and never updated.
type AuditEntryModel struct {
	ID             uint `gorm:"primaryKey"`
	ActorID        *uint
	Action         string `gorm:"size:40;not null;index"`
	SubjectType    string `gorm:"size:20;not null;index:idx_audit_entries_subject,priority:1"`
	SubjectID      uint   `gorm:"not null;index:idx_audit_entries_subject,priority:2"`
	CapacityBefore *int
	CapacityAfter  *int
	CapacityLimit  *int
	Details        datatypes.JSONMap
	CreatedAt      time.Time `gorm:"not null"`
}

func (AuditEntryModel) TableName() string {
	return "audit_entries"
}
