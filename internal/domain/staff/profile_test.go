package staff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordsdesk/triage/internal/shared/authorization"
)

var now = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func TestNewProfile(t *testing.T) {
	p, err := NewProfile(7, "registry", authorization.RoleStaff, 5, []uint{3, 4}, now)
	require.NoError(t, err)

	assert.True(t, p.IsActive())
	assert.Equal(t, 0, p.CurrentCount())
	assert.Equal(t, []uint{3, 4}, p.EscalationChain())
	assert.Equal(t, 1, p.Version())
}

func TestNewProfile_Validation(t *testing.T) {
	_, err := NewProfile(0, "registry", authorization.RoleStaff, 5, nil, now)
	assert.Error(t, err)
	_, err = NewProfile(7, " ", authorization.RoleStaff, 5, nil, now)
	assert.Error(t, err)
	_, err = NewProfile(7, "registry", "root", 5, nil, now)
	assert.Error(t, err)
	_, err = NewProfile(7, "registry", authorization.RoleStaff, -1, nil, now)
	assert.Error(t, err)
	_, err = NewProfile(7, "registry", authorization.RoleStaff, 5, []uint{7}, now)
	assert.Error(t, err)
	_, err = NewProfile(7, "registry", authorization.RoleStaff, 5, []uint{3, 3}, now)
	assert.Error(t, err)
}

func TestProfile_Load(t *testing.T) {
	p, err := ReconstructProfile(7, "registry", authorization.RoleStaff, 5, 4, nil, true, 3, now, now)
	require.NoError(t, err)

	assert.False(t, p.IsOverCapacity())
	p.IncrementLoad(now)
	assert.True(t, p.IsOverCapacity())
	assert.Equal(t, "5/5", p.CapacityWarning())
	assert.Equal(t, 4, p.Version())

	p.IncrementLoad(now)
	assert.Equal(t, "6/5", p.CapacityWarning())
}

func TestProfile_DecrementFloorsAtZero(t *testing.T) {
	p, err := ReconstructProfile(7, "registry", authorization.RoleStaff, 5, 0, nil, true, 1, now, now)
	require.NoError(t, err)

	p.DecrementLoad(now)
	assert.Equal(t, 0, p.CurrentCount())
}

func TestProfile_SetLoad(t *testing.T) {
	p, err := ReconstructProfile(7, "registry", authorization.RoleStaff, 5, 9, nil, true, 1, now, now)
	require.NoError(t, err)

	assert.True(t, p.SetLoad(2, now))
	assert.Equal(t, 2, p.CurrentCount())
	assert.Equal(t, 2, p.Version())
	assert.False(t, p.SetLoad(2, now))
	assert.Equal(t, 2, p.Version())
}

func TestProfile_ZeroLimitIsAlwaysOverCapacity(t *testing.T) {
	p, err := NewProfile(7, "registry", authorization.RoleStaff, 0, nil, now)
	require.NoError(t, err)
	assert.True(t, p.IsOverCapacity())
	assert.Equal(t, "0/0", p.CapacityWarning())
}

func TestProfile_CanManage(t *testing.T) {
	worker, _ := NewProfile(7, "registry", authorization.RoleStaff, 5, nil, now)
	sameUnitSup, _ := NewProfile(2, "registry", authorization.RoleSupervisor, 5, nil, now)
	otherUnitSup, _ := NewProfile(3, "archive", authorization.RoleSupervisor, 5, nil, now)
	admin, _ := NewProfile(1, "hq", authorization.RoleAdmin, 5, nil, now)

	assert.True(t, sameUnitSup.CanManage(worker))
	assert.False(t, otherUnitSup.CanManage(worker))
	assert.True(t, admin.CanManage(worker))
	assert.False(t, worker.CanManage(worker))

	require.NoError(t, admin.UpdateDirectory("hq", authorization.RoleAdmin, 5, nil, false, now))
	assert.False(t, admin.CanManage(worker))
}
