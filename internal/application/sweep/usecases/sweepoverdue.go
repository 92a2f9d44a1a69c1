// Package usecases holds the overdue sweeper. A sweep flips every breached assignment to
// overdue in one statement, then notifies the people involved and asks the health-score
// service to recompute each touched container.
package usecases

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/recordsdesk/triage/internal/domain/assignment"
	"github.com/recordsdesk/triage/internal/domain/notification"
	"github.com/recordsdesk/triage/internal/shared/biztime"
	"github.com/recordsdesk/triage/internal/shared/db"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

const defaultHealthScoreConcurrency = 4

// Notifier stores and publishes one intent. sent is false for a duplicate.
type Notifier interface {
	Notify(ctx context.Context, intent *notification.Intent) (sent bool, err error)
}

// HealthScorer asks the external scoring service to recompute one container.
type HealthScorer interface {
	Recompute(ctx context.Context, containerID string) error
}

// Metrics receives sweep outcomes. A nil Metrics is allowed.
type Metrics interface {
	SweepFinished(dryRun bool, overdue int, duration time.Duration)
}

type SweepOverdueExecutor interface {
	Execute(ctx context.Context, cmd SweepCommand) (*SweepResult, error)
}

// SweepCommand selects what a run does. ResumeSweepID re-reads the rows an earlier run
// already flagged and finishes its notifications instead of flagging new ones.
type SweepCommand struct {
	DryRun        bool
	ContainerID   *string
	ResumeSweepID *string
}

// Commitment is one assignment the sweep flagged, or would flag on a dry run.
type Commitment struct {
	AssignmentID   uint      `json:"assignment_id"`
	WorkItemID     string    `json:"work_item_id"`
	WorkItemType   string    `json:"work_item_type"`
	AssigneeID     uint      `json:"assignee_id"`
	ContextOwnerID *uint     `json:"context_owner_id,omitempty"`
	ContainerID    *string   `json:"container_id,omitempty"`
	Priority       string    `json:"priority"`
	SLADeadline    time.Time `json:"sla_deadline"`
	OverdueBy      string    `json:"overdue_by"`
}

type HealthScoreFailure struct {
	ContainerID string `json:"container_id"`
	Error       string `json:"error"`
}

type SweepResult struct {
	SweepID              string               `json:"sweep_id,omitempty"`
	OverdueCount         int                  `json:"overdue_count"`
	AffectedContainers   []string             `json:"affected_containers"`
	NotificationsSent    int                  `json:"notifications_sent"`
	NotificationFailures int                  `json:"notification_failures"`
	HealthScoreFailures  []HealthScoreFailure `json:"health_score_failures"`
	Commitments          []Commitment         `json:"commitments"`
	DryRun               bool                 `json:"dry_run"`
	SweptAt              time.Time            `json:"swept_at"`
	// ReadBackError is set when rows were flagged but could not be loaded for notification.
	// Resume the sweep with SweepID to finish it.
	ReadBackError string `json:"read_back_error,omitempty"`
}

type SweepConfig struct {
	HealthScoreConcurrency int
	// ReadBackRetry bounds the retries of loading the rows a sweep just flagged.
	ReadBackRetry db.RetryPolicy
}

type SweepOverdueUseCase struct {
	assignmentRepo assignment.Repository
	notifier       Notifier
	healthScorer   HealthScorer
	config         SweepConfig
	metrics        Metrics
	clock          biztime.Clock
	newSweepID     func() string
	logger         logger.Interface
}

func NewSweepOverdueUseCase(
	assignmentRepo assignment.Repository,
	notifier Notifier,
	healthScorer HealthScorer,
	config SweepConfig,
	metrics Metrics,
	clock biztime.Clock,
	logger logger.Interface,
) *SweepOverdueUseCase {
	if config.HealthScoreConcurrency <= 0 {
		config.HealthScoreConcurrency = defaultHealthScoreConcurrency
	}
	if config.ReadBackRetry == (db.RetryPolicy{}) {
		config.ReadBackRetry = db.DefaultRetryPolicy()
	}
	return &SweepOverdueUseCase{
		assignmentRepo: assignmentRepo,
		notifier:       notifier,
		healthScorer:   healthScorer,
		config:         config,
		metrics:        metrics,
		clock:          biztime.OrSystem(clock),
		newSweepID:     uuid.NewString,
		logger:         logger,
	}
}

// Execute runs one sweep. Only the selection and the batch update can fail the call.
// Once the batch update committed, every later failure is reported in the result.
func (uc *SweepOverdueUseCase) Execute(ctx context.Context, cmd SweepCommand) (*SweepResult, error) {
	now := uc.clock()
	started := time.Now()
	scope := "all"
	if cmd.ContainerID != nil {
		scope = *cmd.ContainerID
	}
	uc.logger.Infow("executing overdue sweep", "dry_run", cmd.DryRun, "scope", scope, "now", now)

	result := &SweepResult{
		AffectedContainers:  []string{},
		HealthScoreFailures: []HealthScoreFailure{},
		Commitments:         []Commitment{},
		DryRun:              cmd.DryRun,
		SweptAt:             now,
	}

	var flagged []*assignment.Assignment
	if cmd.DryRun {
		breached, err := uc.assignmentRepo.FindBreached(ctx, now, cmd.ContainerID)
		if err != nil {
			uc.logger.Errorw("failed to select breached assignments", "scope", scope, "error", err)
			return nil, apperrors.NewInternalError("failed to run overdue sweep")
		}
		flagged = breached
	} else {
		var sweepID string
		n := int64(1)
		resuming := cmd.ResumeSweepID != nil && *cmd.ResumeSweepID != ""
		if resuming {
			sweepID = *cmd.ResumeSweepID
			uc.logger.Infow("resuming overdue sweep", "sweep_id", sweepID)
		} else {
			sweepID = uc.newSweepID()
			var err error
			n, err = uc.assignmentRepo.MarkOverdueBatch(ctx, now, cmd.ContainerID, sweepID)
			if err != nil {
				uc.logger.Errorw("failed to mark assignments overdue", "scope", scope, "sweep_id", sweepID, "error", err)
				return nil, apperrors.NewInternalError("failed to run overdue sweep")
			}
		}
		result.SweepID = sweepID
		if n > 0 {
			list, err := uc.readBack(ctx, sweepID)
			if err != nil {
				// The rows are already overdue; a later run would skip them, so report the
				// sweep id for a resume instead of failing the call.
				uc.logger.Errorw("failed to read back swept assignments", "sweep_id", sweepID, "flagged", n, "error", err)
				if !resuming {
					result.OverdueCount = int(n)
				}
				result.ReadBackError = "flagged assignments could not be loaded; resume this sweep to notify"
				uc.finish(cmd, result, started)
				return result, nil
			}
			flagged = list
		}
	}

	result.OverdueCount = len(flagged)
	result.AffectedContainers = containersOf(flagged)
	for _, a := range flagged {
		result.Commitments = append(result.Commitments, toCommitment(a, now))
	}

	if !cmd.DryRun && len(flagged) > 0 {
		uc.notifyAll(ctx, flagged, now, result)
		result.HealthScoreFailures = uc.recomputeHealth(ctx, result.AffectedContainers)
	}

	uc.finish(cmd, result, started)
	return result, nil
}

func (uc *SweepOverdueUseCase) readBack(ctx context.Context, sweepID string) ([]*assignment.Assignment, error) {
	retryAll := func(error) bool { return true }
	return db.RetryOnConflict(ctx, uc.config.ReadBackRetry, retryAll, nil, func() ([]*assignment.Assignment, error) {
		return uc.assignmentRepo.ListBySweepID(ctx, sweepID)
	})
}

func (uc *SweepOverdueUseCase) finish(cmd SweepCommand, result *SweepResult, started time.Time) {
	if uc.metrics != nil {
		uc.metrics.SweepFinished(cmd.DryRun, result.OverdueCount, time.Since(started))
	}
	uc.logger.Infow("overdue sweep finished",
		"sweep_id", result.SweepID,
		"dry_run", cmd.DryRun,
		"overdue", result.OverdueCount,
		"containers", len(result.AffectedContainers),
		"notifications_sent", result.NotificationsSent,
		"notification_failures", result.NotificationFailures,
		"health_score_failures", len(result.HealthScoreFailures),
		"read_back_error", result.ReadBackError != "",
	)
}

// notifyAll sends one intent to the assignee and one to the context owner when that is
// someone else. Dedupe keys make a repeated intent a no-op.
func (uc *SweepOverdueUseCase) notifyAll(ctx context.Context, flagged []*assignment.Assignment, now time.Time, result *SweepResult) {
	if uc.notifier == nil {
		return
	}
	for _, a := range flagged {
		recipients := []uint{a.AssigneeID()}
		if owner := a.ContextOwnerID(); owner != nil && *owner != a.AssigneeID() {
			recipients = append(recipients, *owner)
		}

		for _, recipient := range recipients {
			intent, err := notification.NewIntent(notification.KindAssignmentOverdue, recipient, a.ID(), nil, a.ContainerID(), overduePayload(a, now), now)
			if err != nil {
				uc.logger.Warnw("failed to build overdue notification", "assignment_id", a.ID(), "recipient_id", recipient, "error", err)
				result.NotificationFailures++
				continue
			}
			sent, err := uc.notifier.Notify(ctx, intent)
			if err != nil {
				result.NotificationFailures++
				continue
			}
			if sent {
				result.NotificationsSent++
			}
		}
	}
}

// recomputeHealth calls the scorer once per container with bounded concurrency. A failing
// container never cancels the others.
func (uc *SweepOverdueUseCase) recomputeHealth(ctx context.Context, containers []string) []HealthScoreFailure {
	failures := []HealthScoreFailure{}
	if uc.healthScorer == nil || len(containers) == 0 {
		return failures
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(uc.config.HealthScoreConcurrency)
	for _, id := range containers {
		g.Go(func() error {
			if err := uc.healthScorer.Recompute(ctx, id); err != nil {
				uc.logger.Warnw("health score recompute failed", "container_id", id, "error", err)
				mu.Lock()
				failures = append(failures, HealthScoreFailure{ContainerID: id, Error: err.Error()})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(failures, func(i, j int) bool { return failures[i].ContainerID < failures[j].ContainerID })
	return failures
}

func containersOf(list []*assignment.Assignment) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, a := range list {
		c := a.ContainerID()
		if c == nil || *c == "" {
			continue
		}
		if _, ok := seen[*c]; ok {
			continue
		}
		seen[*c] = struct{}{}
		out = append(out, *c)
	}
	sort.Strings(out)
	return out
}

func toCommitment(a *assignment.Assignment, now time.Time) Commitment {
	return Commitment{
		AssignmentID:   a.ID(),
		WorkItemID:     a.WorkItemID(),
		WorkItemType:   a.WorkItemType().String(),
		AssigneeID:     a.AssigneeID(),
		ContextOwnerID: a.ContextOwnerID(),
		ContainerID:    a.ContainerID(),
		Priority:       a.Priority().String(),
		SLADeadline:    a.SLADeadline(),
		OverdueBy:      now.Sub(a.SLADeadline()).Truncate(time.Minute).String(),
	}
}

func overduePayload(a *assignment.Assignment, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"assignment_id":  a.ID(),
		"work_item_id":   a.WorkItemID(),
		"work_item_type": a.WorkItemType().String(),
		"priority":       a.Priority().String(),
		"assignee_id":    a.AssigneeID(),
		"sla_deadline":   a.SLADeadline(),
		"overdue_by":     now.Sub(a.SLADeadline()).Truncate(time.Minute).String(),
	}
}
