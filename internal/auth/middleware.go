package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/tindevelopers/tinadmin-saas-base/internal/permission"
)

// RequestScope builds the gate scope from the tenant and workspace stored in ctx.
func RequestScope(ctx context.Context) Scope {
	return Scope{TenantID: TenantIDFromContext(ctx), WorkspaceID: WorkspaceIDFromContext(ctx)}
}

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(gate *Gate, perm permission.Permission) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx := c.Context()
		return guard(c, gate.RequirePermission(ctx, perm, RequestScope(ctx)))
	}
}

// RequireAnyPermission creates Fiber middleware that requires at least one of the given permissions.
func RequireAnyPermission(gate *Gate, perms ...permission.Permission) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx := c.Context()
		return guard(c, gate.RequireAnyPermission(ctx, perms, RequestScope(ctx)))
	}
}

// RequireAllPermissions creates Fiber middleware that requires all the given permissions.
func RequireAllPermissions(gate *Gate, perms ...permission.Permission) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx := c.Context()
		return guard(c, gate.RequireAllPermissions(ctx, perms, RequestScope(ctx)))
	}
}

// guard continues the chain on nil and answers 401/403 otherwise.
// Lookup failures are answered with 403 as well: the request is denied, not retried.
func guard(c fiber.Ctx, err error) error {
	if err == nil {
		return c.Next()
	}

	if errors.Is(err, ErrUnauthenticated) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ReasonUnauthenticated})
	}

	var denied *DeniedError
	if !errors.As(err, &denied) {
		log.Error().Err(err).Str("path", c.Path()).Msg("unexpected permission gate error")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": ReasonInsufficientPermissions})
	}

	log.Warn().Str("path", c.Path()).Strs("permissions", toStrings(denied.Permissions)).
		Str("reason", denied.Reason).Msg("request denied")

	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error":       denied.Reason,
		"permissions": toStrings(denied.Permissions),
	})
}
