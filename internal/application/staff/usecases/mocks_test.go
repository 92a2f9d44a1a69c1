package usecases

import (
	"context"

	"github.com/recordsdesk/triage/internal/domain/staff"
	"github.com/recordsdesk/triage/internal/shared/authorization"
)

type mockStaffRepository struct {
	createFunc      func(ctx context.Context, p *staff.Profile) error
	updateFunc      func(ctx context.Context, p *staff.Profile) error
	getByUserIDFunc func(ctx context.Context, userID uint) (*staff.Profile, error)
}

func (m *mockStaffRepository) Create(ctx context.Context, p *staff.Profile) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	return nil
}

func (m *mockStaffRepository) Update(ctx context.Context, p *staff.Profile) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, p)
	}
	return nil
}

func (m *mockStaffRepository) GetByUserID(ctx context.Context, userID uint) (*staff.Profile, error) {
	if m.getByUserIDFunc != nil {
		return m.getByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockStaffRepository) GetByUserIDs(ctx context.Context, userIDs []uint) (map[uint]*staff.Profile, error) {
	return map[uint]*staff.Profile{}, nil
}

func (m *mockStaffRepository) ListActiveByRole(ctx context.Context, role authorization.Role, unitID string) ([]*staff.Profile, error) {
	return nil, nil
}

func (m *mockStaffRepository) ListUserIDs(ctx context.Context) ([]uint, error) {
	return nil, nil
}
