package services

import (
	"context"

	"github.com/recordsdesk/triage/internal/domain/staff"
	"github.com/recordsdesk/triage/internal/shared/authorization"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

// ChainResolver picks who receives an escalation. First match wins:
//  1. the first active entry of the staff member's explicit escalation chain,
//  2. the active supervisor of their unit with the lowest user ID,
//  3. the active admin with the lowest user ID.
//
// The staff member is never their own recipient. The result only depends on the directory
// contents, so unchanged input always yields the same recipient.
type ChainResolver struct {
	staffRepo staff.Repository
	logger    logger.Interface
}

func NewChainResolver(staffRepo staff.Repository, logger logger.Interface) *ChainResolver {
	return &ChainResolver{staffRepo: staffRepo, logger: logger}
}

func (r *ChainResolver) ResolveRecipient(ctx context.Context, staffID uint) (*staff.Profile, error) {
	origin, err := r.staffRepo.GetByUserID(ctx, staffID)
	if err != nil {
		r.logger.Errorw("failed to load staff profile", "user_id", staffID, "error", err)
		return nil, apperrors.NewInternalError("failed to load staff profile")
	}
	if origin == nil {
		return nil, apperrors.NewNotFoundError("staff profile not found")
	}

	if p, err := r.fromChain(ctx, origin); err != nil || p != nil {
		return p, err
	}

	supervisors, err := r.staffRepo.ListActiveByRole(ctx, authorization.RoleSupervisor, origin.UnitID())
	if err != nil {
		r.logger.Errorw("failed to list unit supervisors", "unit_id", origin.UnitID(), "error", err)
		return nil, apperrors.NewInternalError("failed to resolve escalation recipient")
	}
	if p := firstOther(supervisors, staffID); p != nil {
		return p, nil
	}

	admins, err := r.staffRepo.ListActiveByRole(ctx, authorization.RoleAdmin, "")
	if err != nil {
		r.logger.Errorw("failed to list admins", "error", err)
		return nil, apperrors.NewInternalError("failed to resolve escalation recipient")
	}
	if p := firstOther(admins, staffID); p != nil {
		return p, nil
	}

	r.logger.Warnw("no escalation recipient available", "user_id", staffID, "unit_id", origin.UnitID())
	return nil, apperrors.NewNoRecipientAvailableError("no escalation recipient available")
}

func (r *ChainResolver) fromChain(ctx context.Context, origin *staff.Profile) (*staff.Profile, error) {
	chain := origin.EscalationChain()
	if len(chain) == 0 {
		return nil, nil
	}

	profiles, err := r.staffRepo.GetByUserIDs(ctx, chain)
	if err != nil {
		r.logger.Errorw("failed to load escalation chain", "user_id", origin.UserID(), "error", err)
		return nil, apperrors.NewInternalError("failed to resolve escalation recipient")
	}
	for _, id := range chain {
		p := profiles[id]
		if p != nil && p.IsActive() && id != origin.UserID() {
			return p, nil
		}
	}
	return nil, nil
}

// firstOther expects candidates ordered by user ID.
func firstOther(candidates []*staff.Profile, exclude uint) *staff.Profile {
	for _, p := range candidates {
		if p.UserID() != exclude && p.IsActive() {
			return p
		}
	}
	return nil
}
