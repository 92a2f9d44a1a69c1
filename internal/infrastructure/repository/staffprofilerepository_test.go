package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordsdesk/triage/internal/domain/staff"
	"github.com/recordsdesk/triage/internal/shared/authorization"
)

func createProfile(t *testing.T, repo *StaffProfileRepositoryImpl, userID uint, unit string, role authorization.Role, chain ...uint) *staff.Profile {
	t.Helper()
	p, err := staff.NewProfile(userID, unit, role, 3, chain, testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestStaffProfileRepository_RoundTrip(t *testing.T) {
	repo := NewStaffProfileRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	createProfile(t, repo, 7, "unit-a", authorization.RoleStaff, 20, 30)

	got, err := repo.GetByUserID(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "unit-a", got.UnitID())
	assert.Equal(t, []uint{20, 30}, got.EscalationChain())
	assert.Equal(t, 3, got.WIPLimit())
	assert.True(t, got.IsActive())

	missing, err := repo.GetByUserID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStaffProfileRepository_UpdateVersionConflict(t *testing.T) {
	repo := NewStaffProfileRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	createProfile(t, repo, 7, "unit-a", authorization.RoleStaff)

	a, err := repo.GetByUserID(ctx, 7)
	require.NoError(t, err)
	b, err := repo.GetByUserID(ctx, 7)
	require.NoError(t, err)

	a.IncrementLoad(testNow.Add(time.Minute))
	require.NoError(t, repo.Update(ctx, a))

	b.IncrementLoad(testNow.Add(time.Minute))
	assert.ErrorIs(t, repo.Update(ctx, b), staff.ErrVersionConflict)

	got, err := repo.GetByUserID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentCount())
}

func TestStaffProfileRepository_ListActiveByRole(t *testing.T) {
	repo := NewStaffProfileRepository(setupTestDB(t), testLogger())
	ctx := context.Background()

	createProfile(t, repo, 12, "unit-a", authorization.RoleSupervisor)
	createProfile(t, repo, 11, "unit-a", authorization.RoleSupervisor)
	createProfile(t, repo, 13, "unit-b", authorization.RoleSupervisor)
	inactive := createProfile(t, repo, 14, "unit-a", authorization.RoleSupervisor)
	createProfile(t, repo, 15, "unit-a", authorization.RoleStaff)

	require.NoError(t, inactive.UpdateDirectory("unit-a", authorization.RoleSupervisor, 3, nil, false, testNow))
	require.NoError(t, repo.Update(ctx, inactive))

	inUnit, err := repo.ListActiveByRole(ctx, authorization.RoleSupervisor, "unit-a")
	require.NoError(t, err)
	require.Len(t, inUnit, 2)
	assert.Equal(t, uint(11), inUnit[0].UserID())
	assert.Equal(t, uint(12), inUnit[1].UserID())

	all, err := repo.ListActiveByRole(ctx, authorization.RoleSupervisor, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byID, err := repo.GetByUserIDs(ctx, []uint{11, 15, 99})
	require.NoError(t, err)
	assert.Len(t, byID, 2)
	assert.Contains(t, byID, uint(15))

	ids, err := repo.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{11, 12, 13, 14, 15}, ids)
}
