package models

import (
	"time"

	"gorm.io/datatypes"
)

type StaffProfileModel struct {
	UserID                 uint   `gorm:"primaryKey;autoIncrement:false"`
	UnitID                 string `gorm:"size:64;not null;index:idx_staff_profiles_unit_role,priority:1"`
	Role                   string `gorm:"size:20;not null;index:idx_staff_profiles_unit_role,priority:2"`
	IndividualWIPLimit     int    `gorm:"column:individual_wip_limit;not null"`
	CurrentAssignmentCount int    `gorm:"not null"`
	EscalationChain        datatypes.JSONSlice[uint]
	// no default tag: gorm would replace an explicit false with the default on insert
	Active    bool `gorm:"not null"`
	Version   int  `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (StaffProfileModel) TableName() string {
	return "staff_profiles"
}
