package staff

import (
	"context"

	"github.com/recordsdesk/triage/internal/shared/authorization"
)

// Repository returns (nil, nil) from GetByUserID when no profile exists.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	// Update writes the profile if its stored version is p.Version()-1, else ErrVersionConflict.
	Update(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID uint) (*Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []uint) (map[uint]*Profile, error)
	// ListActiveByRole returns active profiles with the role, ordered by user ID.
	// An empty unitID matches every unit.
	ListActiveByRole(ctx context.Context, role authorization.Role, unitID string) ([]*Profile, error)
	ListUserIDs(ctx context.Context) ([]uint, error)
}
