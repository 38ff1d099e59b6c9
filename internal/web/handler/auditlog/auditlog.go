// Package auditlog serves the permission audit trail.
package auditlog

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/tindevelopers/tinadmin-saas-base/internal/audit"
	"github.com/tindevelopers/tinadmin-saas-base/internal/auth"
	auditstore "github.com/tindevelopers/tinadmin-saas-base/internal/db/controller/auditlog"
	"github.com/tindevelopers/tinadmin-saas-base/internal/permission"
	"github.com/tindevelopers/tinadmin-saas-base/internal/web/handler"
)

const (
	// Path is the base path of the audit log handler.
	Path = handler.APIPath + "/audit-logs"

	// DefaultPageSize is the default number of entries per page.
	DefaultPageSize = auditstore.DefaultLimit
)

// Service is the audit log handler service.
type Service struct {
	lister    handler.AuditLogLister
	validator *validator.Validate
}

// Query holds the accepted query parameters.
type Query struct {
	Tenant   string `query:"tenant"`
	User     string `query:"user"`
	Allowed  string `query:"allowed"  validate:"omitempty,oneof=true false"`
	Page     int    `query:"page"     validate:"gte=0,lte=1000000"`
	PageSize int    `query:"pageSize" validate:"gte=0,lte=500"`
}

// Data is the paginated answer.
type Data struct {
	Entries     []audit.Entry `json:"entries"`
	CurrentPage int           `json:"currentPage"`
	PageSize    int           `json:"pageSize"`
	TotalItems  int64         `json:"totalItems"`
	TotalPages  int           `json:"totalPages"`
	HasPrevPage bool          `json:"hasPrevPage"`
	HasNextPage bool          `json:"hasNextPage"`
}

var _ handler.Service = (*Service)(nil)

// Init registers the audit log route behind audit_logs.read.
func (s *Service) Init(router fiber.Router, deps handler.Deps) error {
	if router == nil || deps.Gate == nil || deps.AuditLogs == nil {
		log.Error().Msg(handler.ErrNilDepsFatalLogMsg)
		return handler.ErrNilDeps
	}

	s.lister = deps.AuditLogs
	s.validator = validator.New()

	router.Get(Path, auth.RequirePermission(deps.Gate, permission.AuditLogsRead), s.List)

	return nil
}

// List answers one page of audit entries, newest first. Callers operating inside a
// tenant only see that tenant's entries whatever the tenant parameter says.
func (s *Service) List(c fiber.Ctx) error {
	var q Query
	if err := c.Bind().Query(&q); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	if err := s.validator.Struct(q); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	page, pageSize := normalizePagination(q.Page, q.PageSize)

	filter := auditstore.Filter{
		TenantID: q.Tenant,
		UserID:   q.User,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}

	ctx := c.Context()
	if tenantID := auth.TenantIDFromContext(ctx); tenantID != "" {
		filter.TenantID = tenantID
	}

	if q.Allowed != "" {
		allowed, _ := strconv.ParseBool(q.Allowed)
		filter.Allowed = &allowed
	}

	entries, total, err := s.lister.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list audit entries")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to list audit entries")
	}

	log.Debug().
		Int64("total_entries", total).
		Int("page", page).
		Int("page_size", pageSize).
		Str("tenant_id", filter.TenantID).
		Msg("audit entries retrieved")

	return c.JSON(buildData(entries, page, pageSize, total))
}

// normalizePagination applies defaults to page and pageSize.
func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	return page, pageSize
}

// totalPages computes the number of pages, at least one.
func totalPages(totalItems int64, pageSize int) int {
	pages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}

	return pages
}

func buildData(entries []audit.Entry, page, pageSize int, total int64) Data {
	if entries == nil {
		entries = []audit.Entry{}
	}

	pages := totalPages(total, pageSize)

	return Data{
		Entries:     entries,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  pages,
		HasPrevPage: page > 1,
		HasNextPage: page < pages,
	}
}
