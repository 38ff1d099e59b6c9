// Package auth resolves and enforces permissions for users across tenants.
//
// Authentication happens upstream: the caller's identity arrives in the request
// context through WithUserID, and the current tenant and workspace through
// WithTenantID and WithWorkspaceID.
//
// # Resolution
//
// Permissions are layered from the user's role outward:
//   - RoleResolver returns the permissions of the user's role
//   - TenantResolver adds the tenant's permission overrides to the role set
//   - WorkspaceResolver resolves at workspace scope (currently the tenant set)
//
// Widening is monotonic: a tenant can grant additional permissions but never
// revoke a role permission. Tracer reports which layer a permission comes from.
//
// # Enforcement
//
// Gate checks the caller against one or several permissions:
//   - CheckPermission: single permission, audited through an audit.Sink
//   - CheckAnyPermission: at least one permission from a list
//   - CheckAllPermissions: all permissions from a list
//   - Require*: the same checks returning a *DeniedError
//
// Any failure to resolve permissions denies. A missing caller is denied with
// ReasonUnauthenticated.
//
// # Middleware
//
// Fiber middleware functions are provided for route protection:
//   - RequirePermission: Protect routes requiring a specific permission
//   - RequireAnyPermission: Protect routes requiring any of several permissions
//   - RequireAllPermissions: Protect routes requiring all of several permissions
//
// Example usage:
//
//	roles := auth.NewRoleResolver(roleStore)
//	tenants := auth.NewTenantResolver(roles, tenantStore, permission.DefaultCatalogue())
//	gate := auth.NewGate(roles, auth.NewWorkspaceResolver(tenants), sink)
//
//	ctx = auth.WithUserID(ctx, userID)
//	if err := gate.RequirePermission(ctx, permission.UsersWrite, auth.Scope{TenantID: tenantID}); err != nil {
//	    return err
//	}
//
//	app.Get("/api/v1/audit-logs",
//	    auth.RequirePermission(gate, permission.AuditLogsRead),
//	    handler,
//	)
package auth
