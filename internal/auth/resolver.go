package auth

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tindevelopers/tinadmin-saas-base/internal/permission"
)

// RolePermissions is the permission set granted by a user's role.
type RolePermissions struct {
	Permissions permission.Set
	// RoleName is the role's display name, empty when the user has no role.
	RoleName string
}

// ScopedPermissions is the effective permission set of a user inside a tenant
// (and optionally a workspace).
type ScopedPermissions struct {
	TenantID    string
	WorkspaceID string
	Permissions permission.Set
	// InheritedFrom names the role the base grant came from; empty without a role.
	InheritedFrom string
}

// RoleResolver resolves the permissions of a user's assigned role.
type RoleResolver struct {
	store RoleStore
}

// NewRoleResolver creates a role resolver reading from store.
func NewRoleResolver(store RoleStore) *RoleResolver {
	return &RoleResolver{store: store}
}

// ResolveRolePermissions returns the user's role permissions verbatim.
// A store failure is returned as a LookupError; partial data is never returned.
func (r *RoleResolver) ResolveRolePermissions(ctx context.Context, userID string) (RolePermissions, error) {
	grant, err := r.store.GetUserRoleAndPermissions(ctx, userID)
	if err != nil {
		return RolePermissions{}, lookupError("resolve role permissions", err)
	}

	perms := make(permission.Set, len(grant.Permissions))
	for _, p := range grant.Permissions {
		perms.Add(permission.Permission(p))
	}

	return RolePermissions{Permissions: perms, RoleName: grant.RoleName}, nil
}

// TenantResolver layers tenant feature overrides on top of role permissions.
type TenantResolver struct {
	roles     *RoleResolver
	store     TenantStore
	catalogue *permission.Catalogue
}

// NewTenantResolver creates a tenant resolver. catalogue restricts which dotted
// features count as permissions; nil keeps the plain dot rule.
func NewTenantResolver(roles *RoleResolver, store TenantStore, catalogue *permission.Catalogue) *TenantResolver {
	return &TenantResolver{roles: roles, store: store, catalogue: catalogue}
}

// ResolveTenantPermissions returns the union of the user's role permissions and the
// tenant's permission overrides. An unknown tenant contributes no overrides.
func (r *TenantResolver) ResolveTenantPermissions(
	ctx context.Context,
	userID, tenantID string,
) (ScopedPermissions, error) {
	base, err := r.roles.ResolveRolePermissions(ctx, userID)
	if err != nil {
		return ScopedPermissions{}, err
	}

	features, err := r.store.GetTenantFeatures(ctx, tenantID)
	if err != nil {
		return ScopedPermissions{}, lookupError("resolve tenant permissions", err)
	}

	overrides := permission.FromFeatures(features, r.catalogue)

	log.Trace().Str("user_id", userID).Str("tenant_id", tenantID).
		Int("role_permissions", base.Permissions.Len()).Int("tenant_overrides", overrides.Len()).
		Msg("resolved tenant permissions")

	return ScopedPermissions{
		TenantID:      tenantID,
		Permissions:   base.Permissions.Union(overrides),
		InheritedFrom: base.RoleName,
	}, nil
}

// WorkspaceResolver resolves permissions at workspace scope.
// Workspaces have no overrides of their own yet, so resolution is delegated to the
// tenant resolver and only the workspace id is added to the result.
type WorkspaceResolver struct {
	tenants *TenantResolver
}

// NewWorkspaceResolver creates a workspace resolver delegating to tenants.
func NewWorkspaceResolver(tenants *TenantResolver) *WorkspaceResolver {
	return &WorkspaceResolver{tenants: tenants}
}

// ResolveWorkspacePermissions returns the tenant-scoped permissions of the user.
// workspaceID may be empty.
func (r *WorkspaceResolver) ResolveWorkspacePermissions(
	ctx context.Context,
	userID, tenantID, workspaceID string,
) (ScopedPermissions, error) {
	scoped, err := r.tenants.ResolveTenantPermissions(ctx, userID, tenantID)
	if err != nil {
		return ScopedPermissions{}, err
	}

	scoped.WorkspaceID = workspaceID

	return scoped, nil
}
