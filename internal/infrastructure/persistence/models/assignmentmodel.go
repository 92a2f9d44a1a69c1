package models

import "time"

// AssignmentModel is the assignments table. ActiveWorkItemID mirrors WorkItemID while the
// row is non-terminal and is NULL afterwards; its unique index allows one open row per item.
type AssignmentModel struct {
	ID                    uint      `gorm:"primaryKey"`
	WorkItemID            string    `gorm:"size:64;not null;index"`
	ActiveWorkItemID      *string   `gorm:"size:64;uniqueIndex:uk_assignments_active_work_item"`
	WorkItemType          string    `gorm:"size:20;not null"`
	AssigneeID            uint      `gorm:"not null;index:idx_assignments_assignee_status,priority:1"`
	AssignedAt            time.Time `gorm:"not null"`
	AssignedBy            *uint
	SLADeadline           time.Time `gorm:"column:sla_deadline;not null;index:idx_assignments_status_deadline,priority:2"`
	Priority              string    `gorm:"size:20;not null"`
	Status                string    `gorm:"size:20;not null;index:idx_assignments_assignee_status,priority:2;index:idx_assignments_status_deadline,priority:1"`
	IsManualOverride      bool      `gorm:"not null"`
	OverrideReason        *string   `gorm:"type:text"`
	EscalatedAt           *time.Time
	EscalationRecipientID *uint
	ContainerID           *string   `gorm:"size:64;index"`
	ContextOwnerID        *uint
	CompletedAt           *time.Time
	ClosedAt              *time.Time
	OverdueAt             *time.Time
	OverdueSweepID        *string   `gorm:"size:36;index"`
	Version               int       `gorm:"not null;default:1"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (AssignmentModel) TableName() string {
	return "assignments"
}
