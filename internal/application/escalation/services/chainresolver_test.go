package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordsdesk/triage/internal/domain/staff"
	"github.com/recordsdesk/triage/internal/shared/authorization"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

// directory is an in-memory staff.Repository for resolver tests.
type directory struct {
	staff.Repository
	profiles map[uint]*staff.Profile
}

func (d *directory) GetByUserID(ctx context.Context, userID uint) (*staff.Profile, error) {
	return d.profiles[userID], nil
}

func (d *directory) GetByUserIDs(ctx context.Context, userIDs []uint) (map[uint]*staff.Profile, error) {
	out := map[uint]*staff.Profile{}
	for _, id := range userIDs {
		if p, ok := d.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (d *directory) ListActiveByRole(ctx context.Context, role authorization.Role, unitID string) ([]*staff.Profile, error) {
	var out []*staff.Profile
	for _, p := range d.profiles {
		if p.Role() == role && p.IsActive() && (unitID == "" || p.UnitID() == unitID) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID() < out[j].UserID() })
	return out, nil
}

type member struct {
	id     uint
	unit   string
	role   authorization.Role
	active bool
	chain  []uint
}

func newDirectory(t *testing.T, members ...member) *directory {
	t.Helper()
	d := &directory{profiles: map[uint]*staff.Profile{}}
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for _, m := range members {
		p, err := staff.ReconstructProfile(m.id, m.unit, m.role, 5, 0, m.chain, m.active, 1, now, now)
		require.NoError(t, err)
		d.profiles[m.id] = p
	}
	return d
}

func TestChainResolver_FallbackOrder(t *testing.T) {
	tests := []struct {
		name    string
		members []member
		want    uint
	}{
		{
			name: "explicit chain wins over supervisor",
			members: []member{
				{id: 7, unit: "a", role: authorization.RoleStaff, active: true, chain: []uint{40, 41}},
				{id: 40, unit: "x", role: authorization.RoleStaff, active: true},
				{id: 41, unit: "x", role: authorization.RoleStaff, active: true},
				{id: 20, unit: "a", role: authorization.RoleSupervisor, active: true},
			},
			want: 40,
		},
		{
			name: "inactive chain entries are skipped",
			members: []member{
				{id: 7, unit: "a", role: authorization.RoleStaff, active: true, chain: []uint{40, 41}},
				{id: 40, unit: "x", role: authorization.RoleStaff, active: false},
				{id: 41, unit: "x", role: authorization.RoleStaff, active: true},
			},
			want: 41,
		},
		{
			name: "unknown chain entries fall through to the unit supervisor",
			members: []member{
				{id: 7, unit: "a", role: authorization.RoleStaff, active: true, chain: []uint{99}},
				{id: 22, unit: "a", role: authorization.RoleSupervisor, active: true},
				{id: 21, unit: "a", role: authorization.RoleSupervisor, active: true},
				{id: 19, unit: "b", role: authorization.RoleSupervisor, active: true},
			},
			want: 21,
		},
		{
			name: "supervisor escalating skips themselves",
			members: []member{
				{id: 21, unit: "a", role: authorization.RoleSupervisor, active: true},
				{id: 22, unit: "a", role: authorization.RoleSupervisor, active: true},
			},
			want: 22,
		},
		{
			name: "lowest admin when the unit has no supervisor",
			members: []member{
				{id: 7, unit: "a", role: authorization.RoleStaff, active: true},
				{id: 20, unit: "a", role: authorization.RoleSupervisor, active: false},
				{id: 31, unit: "z", role: authorization.RoleAdmin, active: true},
				{id: 30, unit: "z", role: authorization.RoleAdmin, active: false},
				{id: 32, unit: "z", role: authorization.RoleAdmin, active: true},
			},
			want: 31,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewChainResolver(newDirectory(t, tt.members...), logger.NewNopLogger())
			origin := tt.members[0].id

			first, err := resolver.ResolveRecipient(context.Background(), origin)
			require.NoError(t, err)
			assert.Equal(t, tt.want, first.UserID())

			again, err := resolver.ResolveRecipient(context.Background(), origin)
			require.NoError(t, err)
			assert.Equal(t, first.UserID(), again.UserID())
		})
	}
}

func TestChainResolver_NoRecipient(t *testing.T) {
	resolver := NewChainResolver(newDirectory(t,
		member{id: 30, unit: "z", role: authorization.RoleAdmin, active: true},
	), logger.NewNopLogger())

	_, err := resolver.ResolveRecipient(context.Background(), 30)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNoRecipientAvailable))
}

func TestChainResolver_UnknownStaff(t *testing.T) {
	resolver := NewChainResolver(newDirectory(t), logger.NewNopLogger())

	_, err := resolver.ResolveRecipient(context.Background(), 7)
	assert.True(t, apperrors.IsNotFoundError(err))
}
