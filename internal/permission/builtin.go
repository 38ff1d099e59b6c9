package permission

// Built-in permissions. Deployments extend this list through the [permissions]
// catalogue config section.
const (
	// TenantsRead allows viewing tenant details.
	TenantsRead Permission = "tenants.read"
	// TenantsWrite allows creating and editing tenants.
	TenantsWrite Permission = "tenants.write"
	// TenantsDelete allows deleting tenants.
	TenantsDelete Permission = "tenants.delete"

	// UsersRead allows listing users and viewing their profiles.
	UsersRead Permission = "users.read"
	// UsersWrite allows inviting and editing users.
	UsersWrite Permission = "users.write"
	// UsersDelete allows removing users.
	UsersDelete Permission = "users.delete"

	// RolesRead allows viewing roles and their permissions.
	RolesRead Permission = "roles.read"
	// RolesWrite allows creating, editing and assigning roles.
	RolesWrite Permission = "roles.write"

	// WorkspacesRead allows viewing workspaces of a tenant.
	WorkspacesRead Permission = "workspaces.read"
	// WorkspacesWrite allows creating and editing workspaces.
	WorkspacesWrite Permission = "workspaces.write"

	// BillingRead allows viewing invoices and subscription state.
	BillingRead Permission = "billing.read"
	// BillingManage allows changing plans and payment methods.
	BillingManage Permission = "billing.manage"

	// SettingsRead allows viewing tenant settings.
	SettingsRead Permission = "settings.read"
	// SettingsWrite allows changing tenant settings.
	SettingsWrite Permission = "settings.write"

	// AuditLogsRead allows reading the permission audit trail.
	AuditLogsRead Permission = "audit_logs.read"

	// AnalyticsRead allows viewing dashboards and reports.
	AnalyticsRead Permission = "analytics.read"
)

// Builtin returns every built-in permission.
func Builtin() []Permission {
	return []Permission{
		TenantsRead, TenantsWrite, TenantsDelete,
		UsersRead, UsersWrite, UsersDelete,
		RolesRead, RolesWrite,
		WorkspacesRead, WorkspacesWrite,
		BillingRead, BillingManage,
		SettingsRead, SettingsWrite,
		AuditLogsRead,
		AnalyticsRead,
	}
}
