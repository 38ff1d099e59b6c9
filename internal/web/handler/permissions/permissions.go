// Package permissions serves the caller's effective permissions, grant traces and ad-hoc checks.
package permissions

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/tindevelopers/tinadmin-saas-base/internal/auth"
	"github.com/tindevelopers/tinadmin-saas-base/internal/permission"
	"github.com/tindevelopers/tinadmin-saas-base/internal/web/handler"
)

const (
	// Path is the base path of the permission handlers.
	Path = handler.APIPath + "/permissions"

	// ModeAny allows a check when one of the permissions is granted.
	ModeAny = "any"
	// ModeAll allows a check only when every permission is granted.
	ModeAll = "all"
)

// Service is the permission handler service.
type Service struct {
	gate      *auth.Gate
	tracer    *auth.Tracer
	catalogue *permission.Catalogue
	validator *validator.Validate
}

// CheckRequest is the body of POST /permissions/check.
// A single permission without a mode runs an audited check.
type CheckRequest struct {
	Permissions []string `json:"permissions" validate:"required,min=1,dive,required"`
	Mode        string   `json:"mode"        validate:"omitempty,oneof=any all"`
}

// CheckResponse is the answer of POST /permissions/check.
type CheckResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// ListResponse is the answer of GET /permissions.
type ListResponse struct {
	UserID      string   `json:"userId"`
	TenantID    string   `json:"tenantId,omitempty"`
	WorkspaceID string   `json:"workspaceId,omitempty"`
	Permissions []string `json:"permissions"`
}

// TraceResponse is the answer of GET /permissions/trace.
type TraceResponse struct {
	auth.Trace

	UserID     string `json:"userId"`
	TenantID   string `json:"tenantId,omitempty"`
	Permission string `json:"permission"`
}

var _ handler.Service = (*Service)(nil)

// Init registers the permission routes on router.
func (s *Service) Init(router fiber.Router, deps handler.Deps) error {
	if router == nil || deps.Gate == nil || deps.Tracer == nil || deps.Catalogue == nil {
		log.Error().Msg(handler.ErrNilDepsFatalLogMsg)
		return handler.ErrNilDeps
	}

	s.gate = deps.Gate
	s.tracer = deps.Tracer
	s.catalogue = deps.Catalogue
	s.validator = validator.New()

	router.Get(Path, s.List)
	router.Get(Path+"/trace", s.Trace)
	router.Post(Path+"/check", s.Check)

	return nil
}

// List answers the caller's effective permissions in the request scope, sorted.
func (s *Service) List(c fiber.Ctx) error {
	ctx := c.Context()
	scope := auth.RequestScope(ctx)

	perms, err := s.gate.EffectivePermissions(ctx, scope)
	if err != nil {
		return lookupFailed(c, err)
	}

	userID, _ := auth.UserIDFromContext(ctx)

	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = p.String()
	}

	return c.JSON(ListResponse{
		UserID:      userID,
		TenantID:    scope.TenantID,
		WorkspaceID: scope.WorkspaceID,
		Permissions: out,
	})
}

// Trace explains where a permission comes from. It traces the caller unless the user
// query parameter names someone else, which requires users.read in the traced tenant.
// The tenant defaults to the request tenant.
func (s *Service) Trace(c fiber.Ctx) error {
	ctx := c.Context()

	callerID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return handler.Error(c, fiber.StatusUnauthorized, auth.ReasonUnauthenticated)
	}

	perm, err := permission.Parse(c.Query("permission"))
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	tenantID := c.Query("tenant", auth.TenantIDFromContext(ctx))

	userID := c.Query("user", callerID)
	if userID != callerID {
		scope := auth.Scope{TenantID: tenantID}
		if tenantID == auth.TenantIDFromContext(ctx) {
			scope.WorkspaceID = auth.WorkspaceIDFromContext(ctx)
		}

		if err = s.gate.RequirePermission(ctx, permission.UsersRead, scope); err != nil {
			return deny(c, err)
		}
	}

	trace, err := s.tracer.TracePermission(ctx, userID, tenantID, perm)
	if err != nil {
		return lookupFailed(c, err)
	}

	return c.JSON(TraceResponse{
		Trace:      trace,
		UserID:     userID,
		TenantID:   tenantID,
		Permission: perm.String(),
	})
}

// Check evaluates the posted permissions for the caller in the request scope.
func (s *Service) Check(c fiber.Ctx) error {
	var req CheckRequest
	if err := c.Bind().Body(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	perms, err := s.catalogue.LookupAll(req.Permissions)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := c.Context()
	scope := auth.RequestScope(ctx)

	var d auth.Decision

	switch {
	case req.Mode == ModeAny:
		d = s.gate.CheckAnyPermission(ctx, perms, scope)
	case req.Mode == ModeAll:
		d = s.gate.CheckAllPermissions(ctx, perms, scope)
	case len(perms) == 1:
		d = s.gate.CheckPermission(ctx, perms[0], scope)
	default:
		d = s.gate.CheckAllPermissions(ctx, perms, scope)
	}

	if errors.Is(d.Err, auth.ErrUnauthenticated) {
		return handler.Error(c, fiber.StatusUnauthorized, d.Reason)
	}

	return c.JSON(CheckResponse{Allowed: d.Allowed, Reason: d.Reason})
}

func deny(c fiber.Ctx, err error) error {
	if errors.Is(err, auth.ErrUnauthenticated) {
		return handler.Error(c, fiber.StatusUnauthorized, auth.ReasonUnauthenticated)
	}

	var denied *auth.DeniedError
	if errors.As(err, &denied) {
		return handler.Error(c, fiber.StatusForbidden, denied.Reason)
	}

	return handler.Error(c, fiber.StatusForbidden, auth.ReasonInsufficientPermissions)
}

func lookupFailed(c fiber.Ctx, err error) error {
	if errors.Is(err, auth.ErrUnauthenticated) {
		return handler.Error(c, fiber.StatusUnauthorized, auth.ReasonUnauthenticated)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("permission lookup failed")

	return handler.Error(c, fiber.StatusServiceUnavailable, "permission lookup failed")
}
