package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/recordsdesk/triage/internal/infrastructure/auth"
	"github.com/recordsdesk/triage/internal/infrastructure/config"
	"github.com/recordsdesk/triage/internal/infrastructure/permission"
	"github.com/recordsdesk/triage/internal/infrastructure/persistence/models"
	"github.com/recordsdesk/triage/internal/shared/authorization"
	sharedConfig "github.com/recordsdesk/triage/internal/shared/config"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

const (
	testSecret = "container-test-secret"
	testIssuer = "triage-test"

	adminID      uint = 1
	staffID      uint = 10
	supervisorID uint = 20
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	jwt    *auth.JWTService
}

func newTestServer(t *testing.T) (*testServer, *Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Auth: sharedConfig.AuthConfig{JWT: sharedConfig.JWTConfig{Secret: testSecret, Issuer: testIssuer}},
		RateLimit: sharedConfig.RateLimitConfig{
			Enabled: true,
			Limit:   100,
			Window:  time.Minute,
		},
		Engine: sharedConfig.EngineConfig{
			EscalationStormLimit:  5,
			EscalationStormWindow: 10 * time.Minute,
		},
	}

	c, err := NewContainer(gdb, rdb, cfg, logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, permission.InitEnginePermissions(c.Enforcer()))
	c.SetupRoutes()
	t.Cleanup(c.Shutdown)

	return &testServer{
		t:      t,
		engine: c.Engine(),
		jwt:    auth.NewJWTService(testSecret, testIssuer, nil),
	}, c
}

func (s *testServer) token(userID uint, role authorization.Role) string {
	tok, err := s.jwt.Generate(userID, role, time.Hour)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func writeSLASeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sla.yaml")
	require.NoError(t, os.WriteFile(path, []byte("deadlines:\n  ticket:\n    high: 4\n    normal: 24\n"), 0o600))
	return path
}

func TestContainer_AssignEscalateAcknowledgeFlow(t *testing.T) {
	srv, c := newTestServer(t)

	n, err := c.SeedSLA(t.Context(), writeSLASeed(t))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	admin := srv.token(adminID, authorization.RoleAdmin)
	staffTok := srv.token(staffID, authorization.RoleStaff)
	supervisorTok := srv.token(supervisorID, authorization.RoleSupervisor)

	code, env := srv.do(http.MethodPut, fmt.Sprintf("/staff/%d", supervisorID), admin, map[string]interface{}{
		"unit_id": "records", "role": "supervisor", "wip_limit": 5,
	})
	require.Equal(t, http.StatusOK, code, env.Error)
	code, env = srv.do(http.MethodPut, fmt.Sprintf("/staff/%d", staffID), admin, map[string]interface{}{
		"unit_id": "records", "role": "staff", "wip_limit": 2, "escalation_chain": []uint{supervisorID},
	})
	require.Equal(t, http.StatusOK, code, env.Error)

	code, env = srv.do(http.MethodPost, "/assignments", supervisorTok, map[string]interface{}{
		"work_item_id": "T-100", "work_item_type": "ticket", "assignee_id": staffID, "priority": "high",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	created := decode[struct {
		AssignmentID uint   `json:"assignment_id"`
		Status       string `json:"status"`
	}](t, env)
	assert.NotZero(t, created.AssignmentID)
	assert.Equal(t, "assigned", created.Status)

	code, env = srv.do(http.MethodGet, fmt.Sprintf("/staff/%d/load", staffID), staffTok, nil)
	require.Equal(t, http.StatusOK, code, env.Error)
	assert.Contains(t, string(env.Data), `"count":1`)

	code, env = srv.do(http.MethodPost, "/escalations", staffTok, map[string]interface{}{
		"assignment_id": created.AssignmentID, "reason": "manual", "notes": "needs **sign-off**",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	esc := decode[struct {
		ID            uint   `json:"id"`
		EscalatedToID uint   `json:"escalated_to_id"`
		NotesHTML     string `json:"notes_html"`
	}](t, env)
	assert.Equal(t, supervisorID, esc.EscalatedToID)
	assert.Contains(t, esc.NotesHTML, "<strong>sign-off</strong>")

	code, env = srv.do(http.MethodGet, "/escalations/pending", supervisorTok, nil)
	require.Equal(t, http.StatusOK, code, env.Error)
	pending := decode[[]struct {
		ID uint `json:"id"`
	}](t, env)
	require.Len(t, pending, 1)
	assert.Equal(t, esc.ID, pending[0].ID)

	code, _ = srv.do(http.MethodPost, fmt.Sprintf("/escalations/%d/acknowledge", esc.ID), staffTok, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = srv.do(http.MethodPost, fmt.Sprintf("/escalations/%d/acknowledge", esc.ID), supervisorTok, nil)
	require.Equal(t, http.StatusOK, code, env.Error)

	code, env = srv.do(http.MethodGet, fmt.Sprintf("/escalations?assignment_id=%d", created.AssignmentID), staffTok, nil)
	require.Equal(t, http.StatusOK, code, env.Error)
	history := decode[[]struct {
		AcknowledgedAt *time.Time `json:"acknowledged_at"`
	}](t, env)
	require.Len(t, history, 1)
	assert.NotNil(t, history[0].AcknowledgedAt)
}

func TestContainer_RouteGuards(t *testing.T) {
	srv, _ := newTestServer(t)
	staffTok := srv.token(staffID, authorization.RoleStaff)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/assignments", "", http.StatusUnauthorized},
		{"staff cannot sweep", http.MethodPost, "/overdue-sweep", staffTok, http.StatusForbidden},
		{"staff cannot edit directory", http.MethodPut, "/staff/5", staffTok, http.StatusForbidden},
		{"staff cannot override", http.MethodPost, "/assignments/manual-override", staffTok, http.StatusForbidden},
		{"unknown route", http.MethodGet, "/nowhere", staffTok, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := srv.do(tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestContainer_HealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	code, _ := srv.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestContainer_SweepDryRunBySupervisor(t *testing.T) {
	srv, _ := newTestServer(t)
	supervisorTok := srv.token(supervisorID, authorization.RoleSupervisor)

	code, env := srv.do(http.MethodPost, "/overdue-sweep?dry_run=true", supervisorTok, map[string]interface{}{})
	require.Equal(t, http.StatusOK, code, env.Error)
	result := decode[struct {
		DryRun       bool `json:"dry_run"`
		OverdueCount int  `json:"overdue_count"`
	}](t, env)
	assert.True(t, result.DryRun)
	assert.Zero(t, result.OverdueCount)
}
