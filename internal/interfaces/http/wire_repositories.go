package http

import (
	"gorm.io/gorm"

	"github.com/recordsdesk/triage/internal/domain/assignment"
	"github.com/recordsdesk/triage/internal/domain/audit"
	"github.com/recordsdesk/triage/internal/domain/escalation"
	"github.com/recordsdesk/triage/internal/domain/notification"
	"github.com/recordsdesk/triage/internal/domain/sla"
	"github.com/recordsdesk/triage/internal/domain/staff"
	"github.com/recordsdesk/triage/internal/infrastructure/repository"
	sharedConfig "github.com/recordsdesk/triage/internal/shared/config"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	assignmentRepo assignment.Repository
	escalationRepo escalation.Repository
	auditRepo      audit.Repository
	staffRepo      staff.Repository
	intentRepo     notification.IntentRepository
	// slaRepo is the LRU-cached view; writes go through and evict.
	slaRepo sla.Repository
}

func newRepositories(db *gorm.DB, engine sharedConfig.EngineConfig, log logger.Interface) *repositories {
	slaStore := repository.NewSLAConfigRepository(db, log)
	return &repositories{
		assignmentRepo: repository.NewAssignmentRepository(db, log),
		escalationRepo: repository.NewEscalationRepository(db, log),
		auditRepo:      repository.NewAuditRepository(db, log),
		staffRepo:      repository.NewStaffProfileRepository(db, log),
		intentRepo:     repository.NewNotificationIntentRepository(db, log),
		slaRepo:        repository.NewCachedSLAConfigRepository(slaStore, engine.SLACacheSize, engine.SLACacheTTL, log),
	}
}
