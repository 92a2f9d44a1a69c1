package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	notificationapp "github.com/recordsdesk/triage/internal/application/notification"
	"github.com/recordsdesk/triage/internal/domain/assignment"
	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
	"github.com/recordsdesk/triage/internal/domain/notification"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
	"github.com/recordsdesk/triage/internal/infrastructure/repository"
	"github.com/recordsdesk/triage/internal/shared/biztime"
	"github.com/recordsdesk/triage/internal/shared/db"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

var sweepNow = time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

type stubScorer struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
}

func (s *stubScorer) Recompute(ctx context.Context, containerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[containerID]++
	if s.fail[containerID] {
		return errors.New("scoring service unavailable")
	}
	return nil
}

type sweepEnv struct {
	assignments *repository.AssignmentRepositoryImpl
	intents     *repository.NotificationIntentRepositoryImpl
	notifier    Notifier
	scorer      *stubScorer
	uc          *SweepOverdueUseCase
}

func (e *sweepEnv) useCase(repo assignment.Repository, notifier Notifier) *SweepOverdueUseCase {
	cfg := SweepConfig{
		HealthScoreConcurrency: 2,
		ReadBackRetry:          db.RetryPolicy{MaxTries: 3, InitialInterval: time.Millisecond},
	}
	return NewSweepOverdueUseCase(repo, notifier, e.scorer, cfg, nil, biztime.Fixed(sweepNow), logger.NewNopLogger())
}

func newSweepEnv(t *testing.T) *sweepEnv {
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
	env := &sweepEnv{
		assignments: repository.NewAssignmentRepository(gdb, log),
		intents:     repository.NewNotificationIntentRepository(gdb, log),
		scorer:      &stubScorer{fail: map[string]bool{}},
	}
	env.notifier = notificationapp.NewService(env.intents, nil, nil, log)
	env.uc = env.useCase(env.assignments, env.notifier)
	return env
}

// seed opens an assignment whose deadline is sweepNow plus offset.
func (e *sweepEnv) seed(t *testing.T, workItemID string, assignee uint, owner *uint, container string, offset time.Duration) *assignment.Assignment {
	t.Helper()
	var containerID *string
	if container != "" {
		containerID = &container
	}
	a, err := assignment.NewAssignment(assignment.NewAssignmentParams{
		WorkItemID:     workItemID,
		WorkItemType:   vo.WorkItemTicket,
		AssigneeID:     assignee,
		Priority:       vo.PriorityHigh,
		ContainerID:    containerID,
		ContextOwnerID: owner,
		AssignedAt:     sweepNow.Add(offset).Add(-4 * time.Hour),
		DeadlineHours:  4,
	})
	require.NoError(t, err)
	require.NoError(t, e.assignments.Create(context.Background(), a))
	return a
}

func (e *sweepEnv) status(t *testing.T, id uint) vo.Status {
	t.Helper()
	a, err := e.assignments.GetByID(context.Background(), id)
	require.NoError(t, err)
	return a.Status()
}

func uintPtr(u uint) *uint { return &u }

func TestSweep_DryRunNeverMutates(t *testing.T) {
	env := newSweepEnv(t)
	late := env.seed(t, "T-1", 7, nil, "D-1", -time.Hour)
	env.seed(t, "T-2", 7, nil, "D-1", time.Hour)

	res, err := env.uc.Execute(context.Background(), SweepCommand{DryRun: true})
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.Empty(t, res.SweepID)
	assert.Equal(t, 1, res.OverdueCount)
	require.Len(t, res.Commitments, 1)
	assert.Equal(t, late.ID(), res.Commitments[0].AssignmentID)
	assert.Equal(t, "1h0m0s", res.Commitments[0].OverdueBy)
	assert.Equal(t, []string{"D-1"}, res.AffectedContainers)
	assert.Zero(t, res.NotificationsSent)

	assert.Equal(t, vo.StatusAssigned, env.status(t, late.ID()))
	assert.Empty(t, env.scorer.calls)
	intents, err := env.intents.ListByRecipient(context.Background(), 7, 10)
	require.NoError(t, err)
	assert.Empty(t, intents)
}

func TestSweep_FlagsNotifiesAndIsIdempotent(t *testing.T) {
	env := newSweepEnv(t)
	a := env.seed(t, "T-1", 7, uintPtr(30), "D-1", -2*time.Hour)
	b := env.seed(t, "T-2", 8, uintPtr(8), "D-2", -time.Minute)
	c := env.seed(t, "T-3", 9, nil, "D-1", -time.Hour)
	future := env.seed(t, "T-4", 9, nil, "D-3", time.Minute)
	env.scorer.fail["D-2"] = true
	ctx := context.Background()

	res, err := env.uc.Execute(ctx, SweepCommand{})
	require.NoError(t, err)

	assert.NotEmpty(t, res.SweepID)
	assert.Equal(t, 3, res.OverdueCount)
	assert.Equal(t, []string{"D-1", "D-2"}, res.AffectedContainers)
	assert.Equal(t, 4, res.NotificationsSent, "owner 30 is told, owner 8 is the assignee")
	assert.Zero(t, res.NotificationFailures)
	assert.Equal(t, []HealthScoreFailure{{ContainerID: "D-2", Error: "scoring service unavailable"}}, res.HealthScoreFailures)
	assert.Equal(t, map[string]int{"D-1": 1, "D-2": 1}, env.scorer.calls)

	for _, id := range []uint{a.ID(), b.ID(), c.ID()} {
		assert.Equal(t, vo.StatusOverdue, env.status(t, id))
	}
	assert.Equal(t, vo.StatusAssigned, env.status(t, future.ID()))

	again, err := env.uc.Execute(ctx, SweepCommand{})
	require.NoError(t, err)
	assert.Zero(t, again.OverdueCount)
	assert.Zero(t, again.NotificationsSent)
	assert.Empty(t, again.Commitments)
	assert.Equal(t, map[string]int{"D-1": 1, "D-2": 1}, env.scorer.calls)
}

func TestSweep_ScopedToContainer(t *testing.T) {
	env := newSweepEnv(t)
	inScope := env.seed(t, "T-1", 7, nil, "D-1", -time.Hour)
	outOfScope := env.seed(t, "T-2", 7, nil, "D-2", -time.Hour)
	scope := "D-1"

	res, err := env.uc.Execute(context.Background(), SweepCommand{ContainerID: &scope})
	require.NoError(t, err)

	assert.Equal(t, 1, res.OverdueCount)
	assert.Equal(t, vo.StatusOverdue, env.status(t, inScope.ID()))
	assert.Equal(t, vo.StatusAssigned, env.status(t, outOfScope.ID()))
}

type failingRepo struct {
	assignment.Repository
}

func (failingRepo) MarkOverdueBatch(ctx context.Context, now time.Time, containerID *string, sweepID string) (int64, error) {
	return 0, errors.New("database is gone")
}

func TestSweep_StoreFailureIsInternal(t *testing.T) {
	uc := NewSweepOverdueUseCase(failingRepo{}, nil, nil, SweepConfig{}, nil, biztime.Fixed(sweepNow), logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), SweepCommand{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

// flakyNotifier fails every intent addressed to failFor and delegates the rest.
type flakyNotifier struct {
	next    Notifier
	failFor uint
	mu      sync.Mutex
	seen    []uint
}

func (n *flakyNotifier) Notify(ctx context.Context, intent *notification.Intent) (bool, error) {
	n.mu.Lock()
	n.seen = append(n.seen, intent.RecipientID())
	n.mu.Unlock()
	if intent.RecipientID() == n.failFor {
		return false, errors.New("notification store unavailable")
	}
	return n.next.Notify(ctx, intent)
}

func TestSweep_NotifierFailureIsCountedAndSweepGoesOn(t *testing.T) {
	env := newSweepEnv(t)
	a := env.seed(t, "T-1", 7, nil, "D-1", -3*time.Hour)
	b := env.seed(t, "T-2", 8, nil, "D-1", -2*time.Hour)
	c := env.seed(t, "T-3", 9, nil, "D-2", -time.Hour)
	notifier := &flakyNotifier{next: env.notifier, failFor: 7}
	ctx := context.Background()

	res, err := env.useCase(env.assignments, notifier).Execute(ctx, SweepCommand{})
	require.NoError(t, err)

	assert.Equal(t, 3, res.OverdueCount)
	assert.Equal(t, 1, res.NotificationFailures)
	assert.Equal(t, 2, res.NotificationsSent)
	assert.ElementsMatch(t, []uint{7, 8, 9}, notifier.seen)
	for _, id := range []uint{a.ID(), b.ID(), c.ID()} {
		assert.Equal(t, vo.StatusOverdue, env.status(t, id))
	}
	assert.Equal(t, map[string]int{"D-1": 1, "D-2": 1}, env.scorer.calls)

	for _, recipient := range []uint{8, 9} {
		intents, err := env.intents.ListByRecipient(ctx, recipient, 10)
		require.NoError(t, err)
		assert.Len(t, intents, 1, "recipient %d", recipient)
	}
}

// unreadableSweepRepo fails the read-back of flagged rows failures times, then delegates.
type unreadableSweepRepo struct {
	assignment.Repository
	failures int
	calls    int
}

func (r *unreadableSweepRepo) ListBySweepID(ctx context.Context, sweepID string) ([]*assignment.Assignment, error) {
	r.calls++
	if r.calls <= r.failures {
		return nil, errors.New("connection reset")
	}
	return r.Repository.ListBySweepID(ctx, sweepID)
}

func TestSweep_ReadBackIsRetried(t *testing.T) {
	env := newSweepEnv(t)
	env.seed(t, "T-1", 7, nil, "D-1", -time.Hour)
	repo := &unreadableSweepRepo{Repository: env.assignments, failures: 1}

	res, err := env.useCase(repo, env.notifier).Execute(context.Background(), SweepCommand{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
	assert.Empty(t, res.ReadBackError)
	assert.Equal(t, 1, res.OverdueCount)
	assert.Equal(t, 1, res.NotificationsSent)
}

func TestSweep_ReadBackFailureIsReportedAndResumable(t *testing.T) {
	env := newSweepEnv(t)
	a := env.seed(t, "T-1", 7, uintPtr(30), "D-1", -time.Hour)
	b := env.seed(t, "T-2", 8, nil, "D-2", -time.Hour)
	ctx := context.Background()
	repo := &unreadableSweepRepo{Repository: env.assignments, failures: 100}

	res, err := env.useCase(repo, env.notifier).Execute(ctx, SweepCommand{})
	require.NoError(t, err, "flagged rows are committed, so the run still reports")
	require.NotEmpty(t, res.SweepID)
	assert.NotEmpty(t, res.ReadBackError)
	assert.Equal(t, 2, res.OverdueCount)
	assert.Zero(t, res.NotificationsSent)
	assert.Empty(t, env.scorer.calls)
	assert.Equal(t, vo.StatusOverdue, env.status(t, a.ID()))
	assert.Equal(t, vo.StatusOverdue, env.status(t, b.ID()))

	again, err := env.uc.Execute(ctx, SweepCommand{})
	require.NoError(t, err)
	assert.Zero(t, again.OverdueCount, "a plain rerun skips rows already overdue")

	resumed, err := env.uc.Execute(ctx, SweepCommand{ResumeSweepID: &res.SweepID})
	require.NoError(t, err)
	assert.Equal(t, res.SweepID, resumed.SweepID)
	assert.Equal(t, 2, resumed.OverdueCount)
	assert.Equal(t, 3, resumed.NotificationsSent)
	assert.Equal(t, map[string]int{"D-1": 1, "D-2": 1}, env.scorer.calls)

	repeat, err := env.uc.Execute(ctx, SweepCommand{ResumeSweepID: &res.SweepID})
	require.NoError(t, err)
	assert.Zero(t, repeat.NotificationsSent, "dedupe keys make a second resume a no-op")
}
