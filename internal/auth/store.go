package auth

import "context"

// RoleGrant is what the user store knows about a user's role.
// RoleName is empty when the user has no role.
type RoleGrant struct {
	RoleName    string   `json:"roleName"`
	Permissions []string `json:"permissions"`
}

// RoleStore loads a user's role. A user without a role yields an empty RoleGrant and no error.
type RoleStore interface {
	GetUserRoleAndPermissions(ctx context.Context, userID string) (RoleGrant, error)
}

// TenantStore loads a tenant's feature list. Unknown tenants yield an empty list and no error.
type TenantStore interface {
	GetTenantFeatures(ctx context.Context, tenantID string) ([]string, error)
}
