package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tindevelopers/tinadmin-saas-base/internal/audit"
	"github.com/tindevelopers/tinadmin-saas-base/internal/auth"
	"github.com/tindevelopers/tinadmin-saas-base/internal/config"
	database "github.com/tindevelopers/tinadmin-saas-base/internal/db"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/controller/auditlog"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/controller/role"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/controller/tenant"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/controller/user"
	"github.com/tindevelopers/tinadmin-saas-base/internal/logger"
	"github.com/tindevelopers/tinadmin-saas-base/internal/permission"
	"github.com/tindevelopers/tinadmin-saas-base/internal/web/handler"
)

type testEnv struct {
	db        *gorm.DB
	service   *Service
	tenantID  string
	workspace string
	otherWS   string
}

// newTestEnv wires the whole stack on in-memory sqlite:
// "admin" is a Platform Admin, "viewer" a Viewer and "nobody" has no role.
// The Acme tenant enables billing.manage and owns workspace "main".
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(config.DB{Engine: "sqlite", Path: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	catalogue := permission.DefaultCatalogue()
	require.NoError(t, database.Seed(db, catalogue))

	acme, err := tenant.Create(db, "Acme", "acme.test", []string{"billing.manage", "ui.beta"})
	require.NoError(t, err)
	other, err := tenant.Create(db, "Other", "other.test", nil)
	require.NoError(t, err)

	ws, err := tenant.CreateWorkspace(db, acme.ID, "Main", "main")
	require.NoError(t, err)
	otherWS, err := tenant.CreateWorkspace(db, other.ID, "Main", "main")
	require.NoError(t, err)

	for id, roleName := range map[string]string{
		"admin":  database.RolePlatformAdmin,
		"viewer": database.RoleViewer,
		"nobody": "",
	} {
		_, err = user.Create(db, id, id+"@example.com", id, nil)
		require.NoError(t, err)

		if roleName == "" {
			continue
		}

		r, err := role.Get(db, roleName)
		require.NoError(t, err)
		require.NoError(t, role.AssignUser(db, id, &r.ID))
	}

	roles := auth.NewRoleResolver(role.NewStore(db))
	tenants := auth.NewTenantResolver(roles, tenant.NewStore(db), catalogue)
	auditStore := auditlog.NewStore(db)

	cfg := &config.Config{
		DevMode: true,
		Log:     logger.Log{AppName: "tinadmin-test", ServiceName: "test"},
		Webserver: config.Webserver{
			Port:          8080,
			URL:           "http://localhost:8080",
			CheckAliveURI: "/checkalive",
		},
	}

	service := New(cfg, handler.Deps{
		Gate:       auth.NewGate(roles, auth.NewWorkspaceResolver(tenants), audit.NewStoreSink(auditStore)),
		Tracer:     auth.NewTracer(roles, tenants),
		Catalogue:  catalogue,
		AuditLogs:  auditStore,
		Workspaces: tenant.NewStore(db),
	})
	service.alive.Store(true)

	return &testEnv{db: db, service: service, tenantID: acme.ID, workspace: ws.ID, otherWS: otherWS.ID}
}

type request struct {
	method    string
	path      string
	user      string
	tenant    string
	workspace string
	body      string
}

func (e *testEnv) do(t *testing.T, r request, out any) int {
	t.Helper()

	if r.method == "" {
		r.method = http.MethodGet
	}

	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}

	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	for header, value := range map[string]string{
		HeaderUserID:      r.user,
		HeaderTenantID:    r.tenant,
		HeaderWorkspaceID: r.workspace,
	} {
		if value != "" {
			req.Header.Set(header, value)
		}
	}

	resp, err := e.service.App.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func (e *testEnv) auditEntries(t *testing.T) []audit.Entry {
	t.Helper()

	entries, _, err := auditlog.NewStore(e.db).List(context.Background(), auditlog.Filter{})
	require.NoError(t, err)

	return entries
}

func TestCheckAlive(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(t, request{path: "/checkalive"}, nil))

	env.service.alive.Store(false)
	assert.Equal(t, http.StatusServiceUnavailable, env.do(t, request{path: "/checkalive"}, nil))
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t)

	// one decision so the gate counter has a sample
	env.do(t, request{method: http.MethodPost, path: "/api/v1/permissions/check", user: "admin",
		body: `{"permissions":["tenants.read"]}`}, nil)

	req := httptest.NewRequest(http.MethodGet, MetricsPath, nil)
	resp, err := env.service.App.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "permission_decisions_total")
}

func TestIdentityMiddleware(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		req    request
		status int
	}{
		{name: "workspace without tenant", req: request{user: "viewer", workspace: env.workspace}, status: http.StatusBadRequest},
		{
			name:   "workspace of another tenant",
			req:    request{user: "viewer", tenant: env.tenantID, workspace: env.otherWS},
			status: http.StatusBadRequest,
		},
		{
			name:   "workspace of the tenant",
			req:    request{user: "viewer", tenant: env.tenantID, workspace: env.workspace},
			status: http.StatusOK,
		},
		{name: "no identity", req: request{}, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.path = "/api/v1/permissions"
			assert.Equal(t, tt.status, env.do(t, tt.req, nil))
		})
	}
}
