package capacity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/recordsdesk/triage/internal/domain/assignment"
	"github.com/recordsdesk/triage/internal/domain/audit"
	"github.com/recordsdesk/triage/internal/domain/staff"
	"github.com/recordsdesk/triage/internal/shared/authorization"
)

type mockStaffRepository struct {
	CreateFunc           func(ctx context.Context, p *staff.Profile) error
	UpdateFunc           func(ctx context.Context, p *staff.Profile) error
	GetByUserIDFunc      func(ctx context.Context, userID uint) (*staff.Profile, error)
	GetByUserIDsFunc     func(ctx context.Context, userIDs []uint) (map[uint]*staff.Profile, error)
	ListActiveByRoleFunc func(ctx context.Context, role authorization.Role, unitID string) ([]*staff.Profile, error)
	ListUserIDsFunc      func(ctx context.Context) ([]uint, error)
}

func (m *mockStaffRepository) Create(ctx context.Context, p *staff.Profile) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *mockStaffRepository) Update(ctx context.Context, p *staff.Profile) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

func (m *mockStaffRepository) GetByUserID(ctx context.Context, userID uint) (*staff.Profile, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockStaffRepository) GetByUserIDs(ctx context.Context, userIDs []uint) (map[uint]*staff.Profile, error) {
	if m.GetByUserIDsFunc != nil {
		return m.GetByUserIDsFunc(ctx, userIDs)
	}
	return map[uint]*staff.Profile{}, nil
}

func (m *mockStaffRepository) ListActiveByRole(ctx context.Context, role authorization.Role, unitID string) ([]*staff.Profile, error) {
	if m.ListActiveByRoleFunc != nil {
		return m.ListActiveByRoleFunc(ctx, role, unitID)
	}
	return nil, nil
}

func (m *mockStaffRepository) ListUserIDs(ctx context.Context) ([]uint, error) {
	if m.ListUserIDsFunc != nil {
		return m.ListUserIDsFunc(ctx)
	}
	return nil, nil
}

// mockAssignmentRepository only answers the counting queries the tracker issues.
type mockAssignmentRepository struct {
	assignment.Repository
	CountActiveByAssigneeFunc func(ctx context.Context, assigneeID uint) (int, error)
}

func (m *mockAssignmentRepository) CountActiveByAssignee(ctx context.Context, assigneeID uint) (int, error) {
	if m.CountActiveByAssigneeFunc != nil {
		return m.CountActiveByAssigneeFunc(ctx, assigneeID)
	}
	return 0, nil
}

type mockAuditRepository struct {
	entries    []*audit.Entry
	AppendFunc func(ctx context.Context, e *audit.Entry) error
}

func (m *mockAuditRepository) Append(ctx context.Context, e *audit.Entry) error {
	m.entries = append(m.entries, e)
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, e)
	}
	return nil
}

func (m *mockAuditRepository) ListBySubject(ctx context.Context, subjectType string, subjectID uint) ([]*audit.Entry, error) {
	return nil, nil
}

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func profileWithLoad(t *testing.T, userID uint, count, limit, version int) *staff.Profile {
	t.Helper()
	p, err := staff.ReconstructProfile(userID, "unit-a", authorization.RoleStaff, limit, count, nil, true, version, testNow, testNow)
	require.NoError(t, err)
	return p
}
