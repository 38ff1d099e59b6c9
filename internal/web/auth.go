package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tindevelopers/tinadmin-saas-base/internal/auth"
	"github.com/tindevelopers/tinadmin-saas-base/internal/web/handler"
)

const (
	// HeaderUserID carries the id of the user authenticated upstream.
	HeaderUserID = "X-User-ID"
	// HeaderTenantID carries the tenant the request operates in.
	HeaderTenantID = "X-Tenant-ID"
	// HeaderWorkspaceID carries the workspace the request operates in.
	HeaderWorkspaceID = "X-Workspace-ID"
)

// IdentityMiddleware copies the identity headers set by the authenticating proxy into the
// request context. Requests without a user id pass through unauthenticated; the permission
// gate answers them. A workspace must name a tenant it belongs to.
func IdentityMiddleware(workspaces handler.WorkspaceChecker) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx := c.Context()

		userID := c.Get(HeaderUserID)
		tenantID := c.Get(HeaderTenantID)
		workspaceID := c.Get(HeaderWorkspaceID)

		if workspaceID != "" {
			if tenantID == "" {
				return handler.Error(c, fiber.StatusBadRequest, "workspace requires a tenant")
			}

			ok, err := workspaces.WorkspaceExists(ctx, tenantID, workspaceID)
			if err != nil {
				log.Error().Err(err).Str("tenant_id", tenantID).Str("workspace_id", workspaceID).
					Msg("workspace lookup failed")

				return handler.Error(c, fiber.StatusServiceUnavailable, "workspace lookup failed")
			}

			if !ok {
				return handler.Error(c, fiber.StatusBadRequest, "workspace does not belong to tenant")
			}

			ctx = auth.WithWorkspaceID(ctx, workspaceID)
		}

		if userID != "" {
			ctx = auth.WithUserID(ctx, userID)
		}

		if tenantID != "" {
			ctx = auth.WithTenantID(ctx, tenantID)
		}

		ctx = auth.WithClient(ctx, auth.Client{
			IPAddress: c.IP(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
		})

		c.SetContext(ctx)

		return c.Next()
	}
}

// enrichAccessLog adds the caller identity to access log lines.
func enrichAccessLog(c fiber.Ctx, e *zerolog.Event) {
	ctx := c.Context()

	if userID, ok := auth.UserIDFromContext(ctx); ok {
		e.Str("user_id", userID)
	}

	if tenantID := auth.TenantIDFromContext(ctx); tenantID != "" {
		e.Str("tenant_id", tenantID)
	}
}
