package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/recordsdesk/triage/internal/application/escalation/services"
	notificationapp "github.com/recordsdesk/triage/internal/application/notification"
	"github.com/recordsdesk/triage/internal/domain/assignment"
	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
	"github.com/recordsdesk/triage/internal/domain/notification"
	"github.com/recordsdesk/triage/internal/domain/staff"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
	"github.com/recordsdesk/triage/internal/infrastructure/repository"
	"github.com/recordsdesk/triage/internal/shared/authorization"
	"github.com/recordsdesk/triage/internal/shared/db"
	"github.com/recordsdesk/triage/internal/shared/logger"
	"github.com/recordsdesk/triage/internal/shared/services/markdown"
)

var baseTime = time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	published []*notification.Intent
}

func (p *recordingPublisher) Publish(ctx context.Context, i *notification.Intent) error {
	p.published = append(p.published, i)
	return nil
}

type testEnv struct {
	assignments *repository.AssignmentRepositoryImpl
	escalations *repository.EscalationRepositoryImpl
	staff       *repository.StaffProfileRepositoryImpl
	audit       *repository.AuditRepositoryImpl
	intents     *repository.NotificationIntentRepositoryImpl
	publisher   *recordingPublisher
	tx          *db.TransactionManager
	now         time.Time
	log         logger.Interface
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	log := logger.NewNopLogger()
	return &testEnv{
		assignments: repository.NewAssignmentRepository(gdb, log),
		escalations: repository.NewEscalationRepository(gdb, log),
		staff:       repository.NewStaffProfileRepository(gdb, log),
		audit:       repository.NewAuditRepository(gdb, log),
		intents:     repository.NewNotificationIntentRepository(gdb, log),
		publisher:   &recordingPublisher{},
		tx:          db.NewTransactionManager(gdb),
		now:         baseTime,
		log:         log,
	}
}

func (e *testEnv) clock() time.Time { return e.now }

func testRetryPolicy() db.RetryPolicy {
	return db.RetryPolicy{MaxTries: 3, MaxElapsed: time.Second, InitialInterval: time.Millisecond}
}

func (e *testEnv) escalate(config EngineConfig) *EscalateUseCase {
	config.Retry = testRetryPolicy()
	notifier := notificationapp.NewService(e.intents, e.publisher, nil, e.log)
	resolver := services.NewChainResolver(e.staff, e.log)
	return NewEscalateUseCase(e.assignments, e.escalations, e.audit, resolver, notifier,
		markdown.NewRenderer(), e.tx, config, nil, e.clock, e.log)
}

func (e *testEnv) acknowledge() *AcknowledgeEscalationUseCase {
	return NewAcknowledgeEscalationUseCase(e.escalations, e.audit, markdown.NewRenderer(), testRetryPolicy(), e.clock, e.log)
}

func (e *testEnv) resolve() *ResolveEscalationUseCase {
	return NewResolveEscalationUseCase(e.escalations, e.audit, markdown.NewRenderer(), testRetryPolicy(), e.clock, e.log)
}

func (e *testEnv) addStaff(t *testing.T, userID uint, unit string, role authorization.Role, chain ...uint) {
	t.Helper()
	p, err := staff.ReconstructProfile(userID, unit, role, 5, 1, chain, true, 1, baseTime, baseTime)
	require.NoError(t, err)
	require.NoError(t, e.staff.Create(context.Background(), p))
}

func (e *testEnv) addAssignment(t *testing.T, workItemID string, assigneeID uint) *assignment.Assignment {
	t.Helper()
	container := "dossier-77"
	a, err := assignment.NewAssignment(assignment.NewAssignmentParams{
		WorkItemID:    workItemID,
		WorkItemType:  vo.WorkItemTicket,
		AssigneeID:    assigneeID,
		Priority:      vo.PriorityHigh,
		ContainerID:   &container,
		AssignedAt:    baseTime.Add(-5 * time.Hour),
		DeadlineHours: 4,
	})
	require.NoError(t, err)
	require.NoError(t, e.assignments.Create(context.Background(), a))
	return a
}

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }
