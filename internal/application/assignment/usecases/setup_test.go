package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/recordsdesk/triage/internal/application/capacity"
	"github.com/recordsdesk/triage/internal/domain/assignment"
	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
	"github.com/recordsdesk/triage/internal/domain/sla"
	"github.com/recordsdesk/triage/internal/domain/staff"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
	"github.com/recordsdesk/triage/internal/infrastructure/repository"
	"github.com/recordsdesk/triage/internal/shared/authorization"
	"github.com/recordsdesk/triage/internal/shared/biztime"
	"github.com/recordsdesk/triage/internal/shared/db"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

var scenarioNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// slaHours is the table every test environment is seeded with.
var slaHours = map[vo.WorkItemType]map[vo.Priority]int{
	vo.WorkItemTicket:   {vo.PriorityUrgent: 2, vo.PriorityHigh: 4, vo.PriorityNormal: 24, vo.PriorityLow: 72},
	vo.WorkItemDossier:  {vo.PriorityUrgent: 24, vo.PriorityHigh: 48, vo.PriorityNormal: 120},
	vo.WorkItemPosition: {vo.PriorityHigh: 72},
	vo.WorkItemTask:     {vo.PriorityNormal: 8},
}

type testEnv struct {
	gdb         *gorm.DB
	assignments *repository.AssignmentRepositoryImpl
	staff       *repository.StaffProfileRepositoryImpl
	audit       *repository.AuditRepositoryImpl
	sla         *repository.SLAConfigRepositoryImpl
	tracker     *capacity.Tracker
	tx          *db.TransactionManager
	clock       biztime.Clock
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
	env := &testEnv{
		gdb:         gdb,
		assignments: repository.NewAssignmentRepository(gdb, log),
		staff:       repository.NewStaffProfileRepository(gdb, log),
		audit:       repository.NewAuditRepository(gdb, log),
		sla:         repository.NewSLAConfigRepository(gdb, log),
		tx:          db.NewTransactionManager(gdb),
		clock:       biztime.Fixed(scenarioNow),
		log:         log,
	}
	env.tracker = capacity.NewTracker(env.staff, env.assignments, env.audit, env.clock, log)

	for wt, byPriority := range slaHours {
		for p, hours := range byPriority {
			cfg, err := sla.NewConfig(wt, p, hours)
			require.NoError(t, err)
			require.NoError(t, env.sla.Upsert(context.Background(), cfg))
		}
	}
	return env
}

func testRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxTries: 3, MaxElapsed: time.Second, InitialInterval: time.Millisecond}
}

func (e *testEnv) router(counter CapacityCounter) *AssignWorkItemUseCase {
	if counter == nil {
		counter = e.tracker
	}
	return NewAssignWorkItemUseCase(e.assignments, e.sla, e.audit, counter, e.tx,
		RouterConfig{Retry: testRetryPolicy()}, nil, e.clock, e.log)
}

func (e *testEnv) addStaff(t *testing.T, userID uint, unit string, role authorization.Role, count, limit int) {
	t.Helper()
	p, err := staff.ReconstructProfile(userID, unit, role, limit, count, nil, true, 1, scenarioNow, scenarioNow)
	require.NoError(t, err)
	require.NoError(t, e.staff.Create(context.Background(), p))
}

func (e *testEnv) loadOf(t *testing.T, userID uint) int {
	t.Helper()
	p, err := e.staff.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CurrentCount()
}

func uintPtr(u uint) *uint    { return &u }
func strPtr(s string) *string { return &s }

func assignmentFilterFor(workItemID string) assignment.Filter {
	return assignment.Filter{WorkItemID: &workItemID, Page: 1, PageSize: 20}
}
