package sweep

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordsdesk/triage/internal/application/sweep/usecases"
	"github.com/recordsdesk/triage/internal/interfaces/http/handlers/testutil"
	"github.com/recordsdesk/triage/internal/shared/authorization"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

type mockSweep struct {
	executeFunc func(ctx context.Context, cmd usecases.SweepCommand) (*usecases.SweepResult, error)
}

func (m *mockSweep) Execute(ctx context.Context, cmd usecases.SweepCommand) (*usecases.SweepResult, error) {
	return m.executeFunc(ctx, cmd)
}

func TestHandler_Sweep(t *testing.T) {
	var got usecases.SweepCommand
	m := &mockSweep{executeFunc: func(ctx context.Context, cmd usecases.SweepCommand) (*usecases.SweepResult, error) {
		got = cmd
		return &usecases.SweepResult{
			OverdueCount:        2,
			HealthScoreFailures: []usecases.HealthScoreFailure{{ContainerID: "D-2", Error: "unavailable"}},
			DryRun:              cmd.DryRun,
		}, nil
	}}
	h := NewHandler(m, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/overdue-sweep", map[string]interface{}{"dry_run": true, "container_id": "D-1"})
	testutil.SetAuthContext(c, 2, authorization.RoleSupervisor)
	h.Sweep(c)
	require.Equal(t, http.StatusOK, w.Code, "partial failures still return 200")
	assert.True(t, got.DryRun)
	require.NotNil(t, got.ContainerID)
	assert.Equal(t, "D-1", *got.ContainerID)

	c, w = testutil.NewTestContext(http.MethodPost, "/overdue-sweep", nil)
	testutil.SetQueryParams(c, map[string]string{"dry_run": "false"})
	h.Sweep(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, got.DryRun)
	assert.Nil(t, got.ContainerID)

	c, w = testutil.NewTestContext(http.MethodPost, "/overdue-sweep", nil)
	testutil.SetQueryParams(c, map[string]string{"dry_run": "maybe"})
	h.Sweep(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_SweepAcceptsCamelCaseKeys(t *testing.T) {
	var got usecases.SweepCommand
	m := &mockSweep{executeFunc: func(ctx context.Context, cmd usecases.SweepCommand) (*usecases.SweepResult, error) {
		got = cmd
		return &usecases.SweepResult{DryRun: cmd.DryRun}, nil
	}}
	h := NewHandler(m, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/overdue-sweep", map[string]interface{}{"dryRun": true, "scopeId": "D-7"})
	h.Sweep(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, got.DryRun)
	require.NotNil(t, got.ContainerID)
	assert.Equal(t, "D-7", *got.ContainerID)

	c, w = testutil.NewTestContext(http.MethodPost, "/overdue-sweep", nil)
	testutil.SetQueryParams(c, map[string]string{"dryRun": "true", "scopeId": "D-8"})
	h.Sweep(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, got.DryRun)
	assert.Equal(t, "D-8", *got.ContainerID)
}

func TestHandler_SweepResume(t *testing.T) {
	var got usecases.SweepCommand
	m := &mockSweep{executeFunc: func(ctx context.Context, cmd usecases.SweepCommand) (*usecases.SweepResult, error) {
		got = cmd
		return &usecases.SweepResult{SweepID: *cmd.ResumeSweepID}, nil
	}}
	h := NewHandler(m, logger.NewNopLogger())
	id := "0f8fad5b-d9cb-469f-a165-70867728950e"

	c, w := testutil.NewTestContext(http.MethodPost, "/overdue-sweep", map[string]interface{}{"resume_sweep_id": id})
	h.Sweep(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.ResumeSweepID)
	assert.Equal(t, id, *got.ResumeSweepID)

	c, w = testutil.NewTestContext(http.MethodPost, "/overdue-sweep", map[string]interface{}{"resume_sweep_id": "not-a-uuid"})
	h.Sweep(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = testutil.NewTestContext(http.MethodPost, "/overdue-sweep", map[string]interface{}{"resume_sweep_id": id, "dry_run": true})
	h.Sweep(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_SweepStoreFailure(t *testing.T) {
	m := &mockSweep{executeFunc: func(ctx context.Context, cmd usecases.SweepCommand) (*usecases.SweepResult, error) {
		return nil, apperrors.NewInternalError("failed to flag overdue assignments")
	}}
	h := NewHandler(m, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/overdue-sweep", nil)
	h.Sweep(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
