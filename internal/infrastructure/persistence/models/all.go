package models

// All lists every engine table model in dependency order, for AutoMigrate and tests.
func All() []interface{} {
	return []interface{}{
		&SLAConfigModel{},
		&StaffProfileModel{},
		&AssignmentModel{},
		&EscalationEventModel{},
		&AuditEntryModel{},
		&NotificationIntentModel{},
	}
}
