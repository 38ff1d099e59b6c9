package auth

import (
	"context"

	"github.com/tindevelopers/tinadmin-saas-base/internal/permission"
)

// Source names the level a grant originates from.
type Source string

const (
	// SourceRole means the user's role grants the permission.
	SourceRole Source = "role"
	// SourceTenant means only the tenant overrides grant the permission.
	SourceTenant Source = "tenant"
	// SourceNone means the permission is not granted.
	SourceNone Source = "none"
)

// Trace explains a single permission grant.
type Trace struct {
	HasPermission bool   `json:"hasPermission"`
	Source        Source `json:"source"`
	// InheritedFrom is the role name for SourceRole and the tenant id for SourceTenant.
	InheritedFrom string `json:"inheritedFrom,omitempty"`
}

// Tracer reports where a user's permission comes from.
type Tracer struct {
	roles   *RoleResolver
	tenants *TenantResolver
}

// NewTracer creates a tracer on top of the role and tenant resolvers.
func NewTracer(roles *RoleResolver, tenants *TenantResolver) *Tracer {
	return &Tracer{roles: roles, tenants: tenants}
}

// TracePermission checks the role first and the tenant second, stopping at the first match.
// The tenant set already contains the role set, so the role check has to run first for
// role grants to be attributed to the role. An empty tenantID skips the tenant step.
func (t *Tracer) TracePermission(
	ctx context.Context,
	userID, tenantID string,
	perm permission.Permission,
) (Trace, error) {
	role, err := t.roles.ResolveRolePermissions(ctx, userID)
	if err != nil {
		return Trace{}, err
	}

	if role.Permissions.Has(perm) {
		return Trace{HasPermission: true, Source: SourceRole, InheritedFrom: role.RoleName}, nil
	}

	if tenantID != "" {
		scoped, err := t.tenants.ResolveTenantPermissions(ctx, userID, tenantID)
		if err != nil {
			return Trace{}, err
		}

		if scoped.Permissions.Has(perm) {
			return Trace{HasPermission: true, Source: SourceTenant, InheritedFrom: tenantID}, nil
		}
	}

	return Trace{HasPermission: false, Source: SourceNone}, nil
}
