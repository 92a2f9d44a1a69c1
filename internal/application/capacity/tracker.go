// Package capacity tracks each staff member's in-flight workload against their WIP limit.
package capacity

import (
	"context"
	"errors"

	"github.com/recordsdesk/triage/internal/domain/assignment"
	"github.com/recordsdesk/triage/internal/domain/audit"
	"github.com/recordsdesk/triage/internal/domain/staff"
	"github.com/recordsdesk/triage/internal/shared/biztime"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

// Load is a point-in-time view of a worker's counter.
type Load struct {
	UserID       uint `json:"user_id"`
	Count        int  `json:"count"`
	Limit        int  `json:"limit"`
	OverCapacity bool `json:"over_capacity"`
}

func loadOf(p *staff.Profile) *Load {
	return &Load{
		UserID:       p.UserID(),
		Count:        p.CurrentCount(),
		Limit:        p.WIPLimit(),
		OverCapacity: p.IsOverCapacity(),
	}
}

// ReconcileResult reports a recount for one worker.
type ReconcileResult struct {
	UserID  uint `json:"user_id"`
	Before  int  `json:"before"`
	After   int  `json:"after"`
	Changed bool `json:"changed"`
}

// ReconcileAllResult summarizes a directory-wide recount.
type ReconcileAllResult struct {
	Checked   int    `json:"checked"`
	Corrected int    `json:"corrected"`
	Failed    []uint `json:"failed,omitempty"`
}

// Tracker reads and adjusts the denormalized counter on StaffProfile. Every write is
// version-checked and joins the caller's transaction when ctx carries one.
type Tracker struct {
	staffRepo      staff.Repository
	assignmentRepo assignment.Repository
	auditRepo      audit.Repository
	clock          biztime.Clock
	logger         logger.Interface
}

func NewTracker(
	staffRepo staff.Repository,
	assignmentRepo assignment.Repository,
	auditRepo audit.Repository,
	clock biztime.Clock,
	logger logger.Interface,
) *Tracker {
	return &Tracker{
		staffRepo:      staffRepo,
		assignmentRepo: assignmentRepo,
		auditRepo:      auditRepo,
		clock:          biztime.OrSystem(clock),
		logger:         logger,
	}
}

// Profile loads the staff profile or returns a NotFound AppError.
func (t *Tracker) Profile(ctx context.Context, userID uint) (*staff.Profile, error) {
	p, err := t.staffRepo.GetByUserID(ctx, userID)
	if err != nil {
		t.logger.Errorw("failed to load staff profile", "user_id", userID, "error", err)
		return nil, apperrors.NewInternalError("failed to load staff profile")
	}
	if p == nil {
		return nil, apperrors.NewNotFoundError("staff profile not found")
	}
	return p, nil
}

func (t *Tracker) CurrentLoad(ctx context.Context, userID uint) (*Load, error) {
	p, err := t.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return loadOf(p), nil
}

func (t *Tracker) IsOverCapacity(ctx context.Context, userID uint) (bool, error) {
	load, err := t.CurrentLoad(ctx, userID)
	if err != nil {
		return false, err
	}
	return load.OverCapacity, nil
}

func (t *Tracker) Increment(ctx context.Context, userID uint) (*Load, error) {
	p, err := t.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := t.CommitIncrement(ctx, p); err != nil {
		return nil, conflictOrSelf(err)
	}
	return loadOf(p), nil
}

func (t *Tracker) Decrement(ctx context.Context, userID uint) (*Load, error) {
	p, err := t.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := t.CommitDecrement(ctx, p); err != nil {
		return nil, conflictOrSelf(err)
	}
	return loadOf(p), nil
}

// CommitIncrement bumps a profile the caller already read. The stored version must still
// match the one read, so a capacity check made against p stays valid. A stale version is
// returned as staff.ErrVersionConflict so the caller can retry its whole unit of work.
func (t *Tracker) CommitIncrement(ctx context.Context, p *staff.Profile) error {
	p.IncrementLoad(t.clock())
	return t.save(ctx, p)
}

// CommitDecrement lowers a profile the caller already read. The counter floors at zero.
func (t *Tracker) CommitDecrement(ctx context.Context, p *staff.Profile) error {
	p.DecrementLoad(t.clock())
	return t.save(ctx, p)
}

func conflictOrSelf(err error) error {
	if errors.Is(err, staff.ErrVersionConflict) {
		return apperrors.NewConflictError("workload changed concurrently, retry")
	}
	return err
}

func (t *Tracker) save(ctx context.Context, p *staff.Profile) error {
	if err := t.staffRepo.Update(ctx, p); err != nil {
		if errors.Is(err, staff.ErrVersionConflict) {
			return err
		}
		t.logger.Errorw("failed to update workload counter", "user_id", p.UserID(), "error", err)
		return apperrors.NewInternalError("failed to update workload counter")
	}
	return nil
}

// Reconcile overwrites the counter with a recount of non-terminal assignments.
func (t *Tracker) Reconcile(ctx context.Context, userID uint, actorID *uint) (*ReconcileResult, error) {
	p, err := t.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := t.assignmentRepo.CountActiveByAssignee(ctx, userID)
	if err != nil {
		t.logger.Errorw("failed to recount active assignments", "user_id", userID, "error", err)
		return nil, apperrors.NewInternalError("failed to recount active assignments")
	}

	return t.apply(ctx, p, count, actorID)
}

func (t *Tracker) apply(ctx context.Context, p *staff.Profile, count int, actorID *uint) (*ReconcileResult, error) {
	before := p.CurrentCount()
	result := &ReconcileResult{UserID: p.UserID(), Before: before, After: before}

	if !p.SetLoad(count, t.clock()) {
		return result, nil
	}
	if err := t.save(ctx, p); err != nil {
		return nil, conflictOrSelf(err)
	}

	result.After = p.CurrentCount()
	result.Changed = true

	t.logger.Warnw("workload counter corrected",
		"user_id", p.UserID(),
		"before", before,
		"after", result.After,
	)
	t.audit(ctx, p, before, actorID)
	return result, nil
}

func (t *Tracker) audit(ctx context.Context, p *staff.Profile, before int, actorID *uint) {
	entry, err := audit.NewEntry(audit.ActionCapacityReconciled, actorID, audit.SubjectStaff, p.UserID(), t.clock())
	if err != nil {
		t.logger.Warnw("failed to build reconcile audit entry", "user_id", p.UserID(), "error", err)
		return
	}
	entry.WithCapacity(audit.CapacitySnapshot{Before: before, After: p.CurrentCount(), Limit: p.WIPLimit()})
	if err := t.auditRepo.Append(ctx, entry); err != nil {
		t.logger.Warnw("failed to write reconcile audit entry", "user_id", p.UserID(), "error", err)
	}
}

// ReconcileAll recounts every profile. A failure on one worker is recorded and the run goes on.
// Each worker is recounted after its profile is read, so an assignment committed in between
// bumps the version and the stale write is rejected instead of lowering the counter.
func (t *Tracker) ReconcileAll(ctx context.Context) (*ReconcileAllResult, error) {
	ids, err := t.staffRepo.ListUserIDs(ctx)
	if err != nil {
		t.logger.Errorw("failed to list staff for reconciliation", "error", err)
		return nil, apperrors.NewInternalError("failed to list staff")
	}

	result := &ReconcileAllResult{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Checked++

		r, err := t.Reconcile(ctx, id, nil)
		if err != nil {
			t.logger.Warnw("failed to reconcile workload", "user_id", id, "error", err)
			result.Failed = append(result.Failed, id)
			continue
		}
		if r.Changed {
			result.Corrected++
		}
	}

	t.logger.Infow("workload reconciliation finished",
		"checked", result.Checked,
		"corrected", result.Corrected,
		"failed", len(result.Failed),
	)
	return result, nil
}
