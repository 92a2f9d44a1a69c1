package models

import "time"

type SLAConfigModel struct {
	ID            uint   `gorm:"primaryKey"`
	WorkItemType  string `gorm:"size:20;not null;uniqueIndex:uk_sla_configs_type_priority,priority:1"`
	Priority      string `gorm:"size:20;not null;uniqueIndex:uk_sla_configs_type_priority,priority:2"`
	DeadlineHours int    `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (SLAConfigModel) TableName() string {
	return "sla_configs"
}
