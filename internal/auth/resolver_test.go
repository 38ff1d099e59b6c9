package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tindevelopers/tinadmin-saas-base/internal/permission"
)

func TestRoleResolver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	role, err := f.roleResolver.ResolveRolePermissions(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Editor", role.RoleName)
	assert.Equal(t, []string{"posts.write"}, role.Permissions.Strings())

	none, err := f.roleResolver.ResolveRolePermissions(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, none.RoleName)
	assert.Equal(t, 0, none.Permissions.Len())
}

func TestRoleResolver_KeepsUncataloguedPermissions(t *testing.T) {
	f := newFixture(t)
	f.roles.grants["u9"] = RoleGrant{RoleName: "Legacy", Permissions: []string{"legacy.thing"}}

	role, err := f.roleResolver.ResolveRolePermissions(context.Background(), "u9")
	require.NoError(t, err)
	assert.True(t, role.Permissions.Has("legacy.thing"))
}

func TestRoleResolver_LookupFailure(t *testing.T) {
	tests := []struct {
		name  string
		user  string
		store error
		cause error
	}{
		{name: "unknown user", user: "nobody", cause: errNoSuchUser},
		{name: "store down", user: "u1", store: errStoreDown, cause: errStoreDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.roles.err = tt.store

			role, err := f.roleResolver.ResolveRolePermissions(context.Background(), tt.user)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrLookupFailure)
			assert.ErrorIs(t, err, tt.cause)
			assert.Nil(t, role.Permissions)

			var le *LookupError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, "resolve role permissions", le.Op)
		})
	}
}

func TestTenantResolver(t *testing.T) {
	f := newFixture(t)

	scoped, err := f.tenantResolver.ResolveTenantPermissions(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", scoped.TenantID)
	assert.Equal(t, "Editor", scoped.InheritedFrom)
	assert.Equal(t, []string{"posts.publish", "posts.write"}, scoped.Permissions.Strings())
	assert.False(t, scoped.Permissions.Has("ui.darkmode"))
}

func TestTenantResolver_WidensMonotonically(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, user := range []string{"u1", "u2", "u3"} {
		role, err := f.roleResolver.ResolveRolePermissions(ctx, user)
		require.NoError(t, err)

		for _, tenant := range []string{"t1", "t2", "t3", "unknown"} {
			scoped, err := f.tenantResolver.ResolveTenantPermissions(ctx, user, tenant)
			require.NoError(t, err)
			assert.Truef(t, scoped.Permissions.Contains(role.Permissions),
				"tenant %s dropped a role permission of %s", tenant, user)
		}
	}
}

func TestTenantResolver_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.tenantResolver.ResolveTenantPermissions(ctx, "u3", "t3")
	require.NoError(t, err)

	second, err := f.tenantResolver.ResolveTenantPermissions(ctx, "u3", "t3")
	require.NoError(t, err)

	assert.Equal(t, first.Permissions.Strings(), second.Permissions.Strings())
	assert.Equal(t, []string{"posts.read", "posts.write"}, first.Permissions.Strings())
}

func TestTenantResolver_UnknownTenant(t *testing.T) {
	f := newFixture(t)

	scoped, err := f.tenantResolver.ResolveTenantPermissions(context.Background(), "u1", "missing")
	require.NoError(t, err)
	assert.Equal(t, []string{"posts.write"}, scoped.Permissions.Strings())
}

func TestTenantResolver_NilCatalogueUsesDotRule(t *testing.T) {
	f := newFixture(t)
	resolver := NewTenantResolver(f.roleResolver, f.tenants, nil)

	scoped, err := resolver.ResolveTenantPermissions(context.Background(), "u2", "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"posts.publish", "ui.darkmode"}, scoped.Permissions.Strings())
}

func TestTenantResolver_LookupFailure(t *testing.T) {
	t.Run("role store", func(t *testing.T) {
		f := newFixture(t)
		f.roles.err = errStoreDown

		_, err := f.tenantResolver.ResolveTenantPermissions(context.Background(), "u1", "t1")
		assert.ErrorIs(t, err, ErrLookupFailure)
		assert.ErrorIs(t, err, errStoreDown)

		// a single LookupError, not one wrapped in another
		var le *LookupError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, "resolve role permissions", le.Op)
	})

	t.Run("tenant store", func(t *testing.T) {
		f := newFixture(t)
		f.tenants.err = errStoreDown

		scoped, err := f.tenantResolver.ResolveTenantPermissions(context.Background(), "u1", "t1")
		assert.ErrorIs(t, err, ErrLookupFailure)
		assert.Nil(t, scoped.Permissions)

		var le *LookupError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, "resolve tenant permissions", le.Op)
	})
}

func TestWorkspaceResolver(t *testing.T) {
	f := newFixture(t)
	resolver := NewWorkspaceResolver(f.tenantResolver)
	ctx := context.Background()

	scoped, err := resolver.ResolveWorkspacePermissions(ctx, "u1", "t1", "w1")
	require.NoError(t, err)
	assert.Equal(t, "w1", scoped.WorkspaceID)
	assert.Equal(t, "t1", scoped.TenantID)

	tenant, err := f.tenantResolver.ResolveTenantPermissions(ctx, "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, tenant.Permissions.Strings(), scoped.Permissions.Strings())

	f.tenants.err = errStoreDown
	_, err = resolver.ResolveWorkspacePermissions(ctx, "u1", "t1", "w1")
	assert.True(t, errors.Is(err, ErrLookupFailure))
}

func TestLookupError_Message(t *testing.T) {
	err := lookupError("resolve role permissions", errStoreDown)
	assert.Equal(t, "permission lookup failed: resolve role permissions: store down", err.Error())
	assert.Same(t, err, lookupError("other", err))
}

func TestDeniedError(t *testing.T) {
	err := &DeniedError{
		Permissions: []permission.Permission{"posts.write", "posts.delete"},
		Reason:      ReasonInsufficientPermissions,
	}

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, "permission denied [posts.write, posts.delete]: Insufficient permissions", err.Error())
	assert.NoError(t, errors.Unwrap(err))
}
