package assignment

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordsdesk/triage/internal/application/assignment/dto"
	"github.com/recordsdesk/triage/internal/application/assignment/usecases"
	"github.com/recordsdesk/triage/internal/interfaces/http/handlers/testutil"
	"github.com/recordsdesk/triage/internal/shared/authorization"
	apperrors "github.com/recordsdesk/triage/internal/shared/errors"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

type handlerDeps struct {
	assign   *mockAssign
	override *mockOverride
	get      *mockGet
	list     *mockList
	start    *mockTransition
	complete *mockTransition
	reassign *mockReassign
}

func newTestHandler() (*Handler, *handlerDeps) {
	d := &handlerDeps{
		assign:   &mockAssign{},
		override: &mockOverride{},
		get:      &mockGet{},
		list:     &mockList{},
		start:    &mockTransition{},
		complete: &mockTransition{},
		reassign: &mockReassign{},
	}
	h := NewHandler(d.assign, d.override, d.get, d.list, d.start, d.complete, d.reassign, logger.NewNopLogger())
	return h, d
}

func TestHandler_CreateAssignment(t *testing.T) {
	deadline := time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		body       interface{}
		result     *usecases.AssignWorkItemResult
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name: "created",
			body: map[string]interface{}{
				"work_item_id": "T-1", "work_item_type": "ticket", "assignee_id": 4, "priority": "high",
			},
			result:     &usecases.AssignWorkItemResult{AssignmentID: 1, AssigneeID: 4, SLADeadline: deadline},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing fields",
			body:       map[string]interface{}{"work_item_type": "ticket"},
			wantStatus: http.StatusBadRequest,
			wantType:   "validation_error",
		},
		{
			name:       "malformed json",
			body:       `{"work_item_id":`,
			wantStatus: http.StatusBadRequest,
			wantType:   "validation_error",
		},
		{
			name: "capacity exceeded",
			body: map[string]interface{}{
				"work_item_id": "T-1", "work_item_type": "ticket", "assignee_id": 4, "priority": "high",
			},
			err:        apperrors.NewCapacityExceededError("assignee is at capacity", "5/5"),
			wantStatus: http.StatusConflict,
			wantType:   "capacity_exceeded",
		},
		{
			name: "unknown sla pair",
			body: map[string]interface{}{
				"work_item_id": "T-1", "work_item_type": "ticket", "assignee_id": 4, "priority": "high",
			},
			err:        apperrors.NewConfigNotFoundError("no SLA configured"),
			wantStatus: http.StatusNotFound,
			wantType:   "config_not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, d := newTestHandler()
			var got usecases.AssignWorkItemCommand
			d.assign.executeFunc = func(ctx context.Context, cmd usecases.AssignWorkItemCommand) (*usecases.AssignWorkItemResult, error) {
				got = cmd
				return tt.result, tt.err
			}

			c, w := testutil.NewTestContext(http.MethodPost, "/assignments", tt.body)
			testutil.SetAuthContext(c, 2, authorization.RoleSupervisor)
			h.CreateAssignment(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			if tt.wantType != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantType, resp.Error.Type)
				return
			}
			assert.True(t, resp.Success)
			assert.Equal(t, "T-1", got.WorkItemID)
			assert.Nil(t, got.AssignedBy, "automatic path never carries an actor")
		})
	}
}

func TestHandler_ManualOverride(t *testing.T) {
	h, d := newTestHandler()
	warning := "5/5"
	var got usecases.ManualOverrideCommand
	d.override.executeFunc = func(ctx context.Context, cmd usecases.ManualOverrideCommand) (*usecases.AssignWorkItemResult, error) {
		got = cmd
		return &usecases.AssignWorkItemResult{AssignmentID: 9, AssigneeID: cmd.AssigneeID, CapacityWarning: &warning}, nil
	}

	c, w := testutil.NewTestContext(http.MethodPost, "/assignments/manual-override", map[string]interface{}{
		"work_item_id": "T-2", "work_item_type": "ticket", "assignee_id": 4, "priority": "high",
		"override_reason": "covering for sick leave",
	})
	testutil.SetAuthContext(c, 2, authorization.RoleSupervisor)
	h.ManualOverride(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(2), got.ActorID)
	assert.Equal(t, "covering for sick leave", got.OverrideReason)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "5/5", data["capacity_warning"])
}

func TestHandler_ManualOverride_MissingReason(t *testing.T) {
	h, _ := newTestHandler()

	c, w := testutil.NewTestContext(http.MethodPost, "/assignments/manual-override", map[string]interface{}{
		"work_item_id": "T-2", "work_item_type": "ticket", "assignee_id": 4, "priority": "high",
	})
	testutil.SetAuthContext(c, 2, authorization.RoleSupervisor)
	h.ManualOverride(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Transitions(t *testing.T) {
	h, d := newTestHandler()
	var started, completed usecases.TransitionCommand
	d.start.executeFunc = func(ctx context.Context, cmd usecases.TransitionCommand) (*dto.AssignmentDTO, error) {
		started = cmd
		return &dto.AssignmentDTO{ID: cmd.AssignmentID, Status: "in_progress"}, nil
	}
	d.complete.executeFunc = func(ctx context.Context, cmd usecases.TransitionCommand) (*dto.AssignmentDTO, error) {
		completed = cmd
		return nil, apperrors.NewConflictError("assignment is already closed")
	}

	c, w := testutil.NewTestContext(http.MethodPost, "/assignments/3/start", nil)
	testutil.SetURLParam(c, "id", "3")
	testutil.SetAuthContext(c, 4, authorization.RoleStaff)
	h.StartAssignment(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.TransitionCommand{AssignmentID: 3, ActorID: 4}, started)

	c, w = testutil.NewTestContext(http.MethodPost, "/assignments/3/complete", nil)
	testutil.SetURLParam(c, "id", "3")
	testutil.SetAuthContext(c, 4, authorization.RoleStaff)
	h.CompleteAssignment(c)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, uint(3), completed.AssignmentID)

	c, w = testutil.NewTestContext(http.MethodPost, "/assignments/abc/start", nil)
	testutil.SetURLParam(c, "id", "abc")
	testutil.SetAuthContext(c, 4, authorization.RoleStaff)
	h.StartAssignment(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Reassign(t *testing.T) {
	h, d := newTestHandler()
	var got usecases.ReassignCommand
	d.reassign.executeFunc = func(ctx context.Context, cmd usecases.ReassignCommand) (*usecases.ReassignResult, error) {
		got = cmd
		return &usecases.ReassignResult{}, nil
	}

	c, w := testutil.NewTestContext(http.MethodPost, "/assignments/3/reassign", map[string]interface{}{
		"new_assignee_id": 8, "reason": "load balancing",
	})
	testutil.SetURLParam(c, "id", "3")
	testutil.SetAuthContext(c, 2, authorization.RoleSupervisor)
	h.Reassign(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.ReassignCommand{AssignmentID: 3, NewAssigneeID: 8, ActorID: 2, Reason: "load balancing"}, got)
}

func TestHandler_ListAssignments(t *testing.T) {
	h, d := newTestHandler()
	var got usecases.ListAssignmentsQuery
	d.list.executeFunc = func(ctx context.Context, query usecases.ListAssignmentsQuery) (*usecases.ListAssignmentsResult, error) {
		got = query
		return &usecases.ListAssignmentsResult{Items: []*dto.AssignmentDTO{{ID: 1}}, Total: 1, Page: 1, PageSize: 20}, nil
	}

	c, w := testutil.NewTestContext(http.MethodGet, "/assignments", nil)
	testutil.SetQueryParams(c, map[string]string{"assignee_id": "4", "status": "overdue"})
	testutil.SetAuthContext(c, 2, authorization.RoleSupervisor)
	h.ListAssignments(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.AssigneeID)
	assert.Equal(t, uint(4), *got.AssigneeID)
	assert.Equal(t, []string{"overdue"}, got.Statuses)
}
