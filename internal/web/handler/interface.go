package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"github.com/tindevelopers/tinadmin-saas-base/internal/audit"
	"github.com/tindevelopers/tinadmin-saas-base/internal/auth"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/controller/auditlog"
	"github.com/tindevelopers/tinadmin-saas-base/internal/permission"
)

// AuditLogLister reads back the audit trail.
type AuditLogLister interface {
	List(ctx context.Context, f auditlog.Filter) ([]audit.Entry, int64, error)
}

// WorkspaceChecker reports whether a workspace belongs to a tenant.
type WorkspaceChecker interface {
	WorkspaceExists(ctx context.Context, tenantID, workspaceID string) (bool, error)
}

// Deps bundles the services the API handlers are built on.
type Deps struct {
	Gate       *auth.Gate
	Tracer     *auth.Tracer
	Catalogue  *permission.Catalogue
	AuditLogs  AuditLogLister
	Workspaces WorkspaceChecker
}

// Valid reports whether every dependency is set.
func (d Deps) Valid() bool {
	return d.Gate != nil && d.Tracer != nil && d.Catalogue != nil && d.AuditLogs != nil && d.Workspaces != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, deps Deps) error
}
