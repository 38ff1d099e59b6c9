package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(f *fixture) *fiber.App {
	app := fiber.New()

	// stand-in for the upstream identity middleware
	app.Use(func(c fiber.Ctx) error {
		ctx := c.Context()
		if user := c.Get("X-User-ID"); user != "" {
			ctx = WithUserID(ctx, user)
		}

		if tenant := c.Get("X-Tenant-ID"); tenant != "" {
			ctx = WithTenantID(ctx, tenant)
		}

		c.SetContext(ctx)

		return c.Next()
	})

	ok := func(c fiber.Ctx) error { return c.SendString("ok") }

	app.Get("/write", RequirePermission(f.gate, "posts.write"), ok)
	app.Get("/publish", RequirePermission(f.gate, "posts.publish"), ok)
	app.Get("/any", RequireAnyPermission(f.gate, perms("posts.delete", "posts.publish")...), ok)
	app.Get("/all", RequireAllPermissions(f.gate, perms("posts.write", "posts.publish")...), ok)

	return app
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		user   string
		tenant string
		status int
	}{
		{name: "no identity", path: "/write", status: http.StatusUnauthorized},
		{name: "role grant", path: "/write", user: "u1", status: http.StatusOK},
		{name: "tenant grant without tenant", path: "/publish", user: "u1", status: http.StatusForbidden},
		{name: "tenant grant", path: "/publish", user: "u1", tenant: "t1", status: http.StatusOK},
		{name: "any", path: "/any", user: "u1", tenant: "t1", status: http.StatusOK},
		{name: "any denied", path: "/any", user: "u1", status: http.StatusForbidden},
		{name: "all", path: "/all", user: "u1", tenant: "t1", status: http.StatusOK},
		{name: "all denied", path: "/all", user: "u2", tenant: "t2", status: http.StatusForbidden},
		{name: "unknown user fails closed", path: "/write", user: "nobody", status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(newFixture(t))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.user != "" {
				req.Header.Set("X-User-ID", tt.user)
			}

			if tt.tenant != "" {
				req.Header.Set("X-Tenant-ID", tt.tenant)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestMiddleware_DeniedBody(t *testing.T) {
	f := newFixture(t)
	app := newTestApp(f)

	req := httptest.NewRequest(http.MethodGet, "/publish", nil)
	req.Header.Set("X-User-ID", "u2")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	var body struct {
		Error       string   `json:"error"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, ReasonInsufficientPermissions, body.Error)
	assert.Equal(t, []string{"posts.publish"}, body.Permissions)

	entries := f.sink.snapshot()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Allowed)
}
