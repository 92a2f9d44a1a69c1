// Package staff models a staff member as the engine sees them: unit, role, capacity and
// escalation chain. Identity and credentials live in the external directory.
package staff

import (
	"fmt"
	"strings"
	"time"

	"github.com/recordsdesk/triage/internal/shared/authorization"
)

type Profile struct {
	userID          uint
	unitID          string
	role            authorization.Role
	wipLimit        int
	currentCount    int
	escalationChain []uint
	active          bool
	version         int
	createdAt       time.Time
	updatedAt       time.Time
}

func NewProfile(userID uint, unitID string, role authorization.Role, wipLimit int, chain []uint, now time.Time) (*Profile, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if strings.TrimSpace(unitID) == "" {
		return nil, fmt.Errorf("unit ID is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	if wipLimit < 0 {
		return nil, fmt.Errorf("WIP limit cannot be negative")
	}
	if err := validateChain(userID, chain); err != nil {
		return nil, err
	}

	return &Profile{
		userID:          userID,
		unitID:          unitID,
		role:            role,
		wipLimit:        wipLimit,
		escalationChain: copyChain(chain),
		active:          true,
		version:         1,
		createdAt:       now.UTC(),
		updatedAt:       now.UTC(),
	}, nil
}

func ReconstructProfile(
	userID uint,
	unitID string,
	role authorization.Role,
	wipLimit, currentCount int,
	chain []uint,
	active bool,
	version int,
	createdAt, updatedAt time.Time,
) (*Profile, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	return &Profile{
		userID:          userID,
		unitID:          unitID,
		role:            role,
		wipLimit:        wipLimit,
		currentCount:    currentCount,
		escalationChain: copyChain(chain),
		active:          active,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func (p *Profile) UserID() uint             { return p.userID }
func (p *Profile) UnitID() string           { return p.unitID }
func (p *Profile) Role() authorization.Role { return p.role }
func (p *Profile) WIPLimit() int            { return p.wipLimit }
func (p *Profile) CurrentCount() int        { return p.currentCount }
func (p *Profile) EscalationChain() []uint  { return copyChain(p.escalationChain) }
func (p *Profile) IsActive() bool           { return p.active }
func (p *Profile) Version() int             { return p.version }
func (p *Profile) CreatedAt() time.Time     { return p.createdAt }
func (p *Profile) UpdatedAt() time.Time     { return p.updatedAt }

// IsOverCapacity is true once the in-flight count reached the limit.
func (p *Profile) IsOverCapacity() bool {
	return p.currentCount >= p.wipLimit
}

// CapacityWarning renders the load as "count/limit".
func (p *Profile) CapacityWarning() string {
	return fmt.Sprintf("%d/%d", p.currentCount, p.wipLimit)
}

func (p *Profile) touch(now time.Time) {
	p.updatedAt = now.UTC()
	p.version++
}

func (p *Profile) IncrementLoad(now time.Time) {
	p.currentCount++
	p.touch(now)
}

// DecrementLoad lowers the count, never below zero.
func (p *Profile) DecrementLoad(now time.Time) {
	if p.currentCount > 0 {
		p.currentCount--
	}
	p.touch(now)
}

// SetLoad overwrites the count with an authoritative recount. It reports whether the value changed.
func (p *Profile) SetLoad(count int, now time.Time) bool {
	if count < 0 {
		count = 0
	}
	if count == p.currentCount {
		return false
	}
	p.currentCount = count
	p.touch(now)
	return true
}

// UpdateDirectory applies directory-owned attributes. The load counter is left alone.
func (p *Profile) UpdateDirectory(unitID string, role authorization.Role, wipLimit int, chain []uint, active bool, now time.Time) error {
	if strings.TrimSpace(unitID) == "" {
		return fmt.Errorf("unit ID is required")
	}
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %s", role)
	}
	if wipLimit < 0 {
		return fmt.Errorf("WIP limit cannot be negative")
	}
	if err := validateChain(p.userID, chain); err != nil {
		return err
	}
	p.unitID = unitID
	p.role = role
	p.wipLimit = wipLimit
	p.escalationChain = copyChain(chain)
	p.active = active
	p.touch(now)
	return nil
}

// CanManage reports whether p may act on assignments held by other.
func (p *Profile) CanManage(other *Profile) bool {
	if !p.active || other == nil {
		return false
	}
	return authorization.CanActOnUnit(p.role, p.unitID, other.unitID)
}

func validateChain(userID uint, chain []uint) error {
	seen := make(map[uint]struct{}, len(chain))
	for _, id := range chain {
		if id == 0 {
			return fmt.Errorf("escalation chain contains an empty user ID")
		}
		if id == userID {
			return fmt.Errorf("escalation chain cannot contain the staff member")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("escalation chain contains %d twice", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func copyChain(chain []uint) []uint {
	out := make([]uint, len(chain))
	copy(out, chain)
	return out
}
