package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordsdesk/triage/internal/application/capacity"
	sweepUsecases "github.com/recordsdesk/triage/internal/application/sweep/usecases"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

type countingSweeper struct {
	calls   atomic.Int32
	running atomic.Int32
	maxSeen atomic.Int32
	hold    time.Duration
}

func (s *countingSweeper) Execute(ctx context.Context, cmd sweepUsecases.SweepCommand) (*sweepUsecases.SweepResult, error) {
	n := s.running.Add(1)
	defer s.running.Add(-1)
	for {
		cur := s.maxSeen.Load()
		if n <= cur || s.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}
	s.calls.Add(1)
	time.Sleep(s.hold)
	return &sweepUsecases.SweepResult{OverdueCount: 1}, nil
}

type countingReconciler struct {
	calls atomic.Int32
}

func (r *countingReconciler) ReconcileAll(ctx context.Context) (*capacity.ReconcileAllResult, error) {
	r.calls.Add(1)
	return &capacity.ReconcileAllResult{Checked: 3}, nil
}

func TestSchedulerManager_RunsJobsWithoutOverlap(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	sweeper := &countingSweeper{hold: 80 * time.Millisecond}
	reconciler := &countingReconciler{}
	require.NoError(t, m.RegisterSweepJob(sweeper, 20*time.Millisecond, time.Second))
	require.NoError(t, m.RegisterReconcileJob(reconciler, 20*time.Millisecond))
	assert.Len(t, m.Jobs(), 2)

	m.Start()
	assert.True(t, m.IsStarted())

	require.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 2 && reconciler.calls.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
	assert.Equal(t, int32(1), sweeper.maxSeen.Load(), "sweeps must not overlap")
}

func TestSchedulerManager_StopBeforeStart(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)
	assert.NoError(t, m.Stop())
}

type panickingSweeper struct {
	calls atomic.Int32
}

func (s *panickingSweeper) Execute(ctx context.Context, cmd sweepUsecases.SweepCommand) (*sweepUsecases.SweepResult, error) {
	s.calls.Add(1)
	panic("boom")
}

func TestSchedulerManager_PanickingJobKeepsRunning(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	sweeper := &panickingSweeper{}
	require.NoError(t, m.RegisterSweepJob(sweeper, 20*time.Millisecond, time.Second))

	m.Start()
	require.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, m.Stop())
}
