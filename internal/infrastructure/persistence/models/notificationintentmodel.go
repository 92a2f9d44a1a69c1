package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationIntentModel struct {
	ID           uint   `gorm:"primaryKey"`
	RecipientID  uint   `gorm:"not null;index"`
	Kind         string `gorm:"size:32;not null"`
	AssignmentID uint   `gorm:"not null;index"`
	EscalationID *uint
	ContainerID  *string `gorm:"size:64"`
	DedupeKey    string  `gorm:"size:128;not null;uniqueIndex"`
	Payload      datatypes.JSONMap
	CreatedAt    time.Time `gorm:"not null"`
}

func (NotificationIntentModel) TableName() string {
	return "notification_intents"
}
