// Package scheduler runs the worker's periodic jobs on gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/recordsdesk/triage/internal/application/capacity"
	sweepUsecases "github.com/recordsdesk/triage/internal/application/sweep/usecases"
	"github.com/recordsdesk/triage/internal/shared/goroutine"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

// OverdueSweeper is satisfied by the sweep use case.
type OverdueSweeper interface {
	Execute(ctx context.Context, cmd sweepUsecases.SweepCommand) (*sweepUsecases.SweepResult, error)
}

// CounterReconciler is satisfied by the capacity tracker.
type CounterReconciler interface {
	ReconcileAll(ctx context.Context) (*capacity.ReconcileAllResult, error)
}

// SchedulerManager owns one gocron scheduler. Every job runs in singleton mode, so a slow
// run delays the next one instead of overlapping it.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterSweepJob runs a full overdue sweep every interval, bounded by timeout.
func (m *SchedulerManager) RegisterSweepJob(sweeper OverdueSweeper, interval, timeout time.Duration) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.runSweep(ctx, sweeper)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("sweep", "overdue"),
		gocron.WithName("overdue-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered overdue sweep job", "interval", interval, "timeout", timeout)
	return nil
}

func (m *SchedulerManager) runSweep(ctx context.Context, sweeper OverdueSweeper) {
	defer goroutine.Recover(m.logger, "overdue-sweep")
	startTime := time.Now()

	result, err := sweeper.Execute(ctx, sweepUsecases.SweepCommand{})
	if err != nil {
		m.logger.Errorw("overdue sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if result.OverdueCount > 0 || result.NotificationFailures > 0 || len(result.HealthScoreFailures) > 0 {
		m.logger.Infow("overdue sweep completed",
			"sweep_id", result.SweepID,
			"overdue", result.OverdueCount,
			"notifications_sent", result.NotificationsSent,
			"notification_failures", result.NotificationFailures,
			"health_score_failures", len(result.HealthScoreFailures),
			"duration", time.Since(startTime),
		)
		return
	}
	m.logger.Debugw("overdue sweep found nothing", "duration", time.Since(startTime))
}

// RegisterReconcileJob recounts every staff member's load every interval.
func (m *SchedulerManager) RegisterReconcileJob(reconciler CounterReconciler, interval time.Duration) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			m.runReconcile(ctx, reconciler)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("capacity", "reconcile"),
		gocron.WithName("capacity-reconcile"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered capacity reconcile job", "interval", interval)
	return nil
}

func (m *SchedulerManager) runReconcile(ctx context.Context, reconciler CounterReconciler) {
	defer goroutine.Recover(m.logger, "capacity-reconcile")
	result, err := reconciler.ReconcileAll(ctx)
	if err != nil {
		m.logger.Errorw("capacity reconcile failed", "error", err)
		return
	}

	if result.Corrected > 0 || len(result.Failed) > 0 {
		m.logger.Warnw("capacity counters corrected",
			"checked", result.Checked,
			"corrected", result.Corrected,
			"failed", result.Failed,
		)
	}
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
