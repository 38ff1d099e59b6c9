package auth

import "context"

type contextKey string

const (
	userIDKey      contextKey = "user_id"
	tenantIDKey    contextKey = "tenant_id"
	workspaceIDKey contextKey = "workspace_id"
	clientKey      contextKey = "client"
)

// Client describes the network peer of the current request. It only ends up in audit entries.
type Client struct {
	IPAddress string
	UserAgent string
}

// WithUserID stores the authenticated caller's id in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the caller's id and whether one is set.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithTenantID stores the tenant the request is operating in.
// It is used to stamp audit entries when a check does not name a tenant itself.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// TenantIDFromContext returns the request's current tenant, or "".
func TenantIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(tenantIDKey).(string)
	return id
}

// WithWorkspaceID stores the workspace the request is operating in.
func WithWorkspaceID(ctx context.Context, workspaceID string) context.Context {
	return context.WithValue(ctx, workspaceIDKey, workspaceID)
}

// WorkspaceIDFromContext returns the request's current workspace, or "".
func WorkspaceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(workspaceIDKey).(string)
	return id
}

// WithClient stores client network metadata.
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey, c)
}

// ClientFromContext returns the stored client metadata, if any.
func ClientFromContext(ctx context.Context) Client {
	c, _ := ctx.Value(clientKey).(Client)
	return c
}
