package auth

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tindevelopers/tinadmin-saas-base/internal/audit"
	"github.com/tindevelopers/tinadmin-saas-base/internal/permission"
)

// Scope is the optional tenant context of a gate check. The zero value means
// "no tenant": only the caller's role is consulted.
type Scope struct {
	TenantID    string
	WorkspaceID string
}

// Decision is the outcome of a gate check.
type Decision struct {
	Allowed bool
	// Reason explains a denial: ReasonInsufficientPermissions, ReasonUnauthenticated
	// or the message of the lookup failure.
	Reason string
	// Err is the failure behind a denial, nil for a plain missing grant.
	Err error
}

// Gate is the enforcement point. It resolves the caller's permissions, decides, and
// audits single-permission checks. The caller is taken from the context (see WithUserID).
type Gate struct {
	roles      *RoleResolver
	workspaces *WorkspaceResolver
	sink       audit.Sink
	now        func() time.Time
}

// NewGate creates a gate. Tenant-scoped checks go through workspaces, which
// delegates to the tenant resolver.
func NewGate(roles *RoleResolver, workspaces *WorkspaceResolver, sink audit.Sink) *Gate {
	if roles == nil || workspaces == nil || sink == nil {
		panic("auth: gate needs resolvers and an audit sink")
	}

	return &Gate{
		roles:      roles,
		workspaces: workspaces,
		sink:       sink,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CheckPermission decides whether the caller holds perm. Every call that reaches a
// decision writes exactly one audit entry whose Allowed field equals the result.
// Failures deny.
func (g *Gate) CheckPermission(ctx context.Context, perm permission.Permission, scope Scope) Decision {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		d := unauthenticated(perm)
		observe(opCheck, d)

		return d
	}

	perms, err := g.resolve(ctx, userID, scope)
	d := decide(err, func() bool { return perms.Has(perm) })

	if d.Err != nil {
		log.Error().Err(d.Err).Str("user_id", userID).Str("tenant_id", scope.TenantID).
			Str("permission", perm.String()).Msg("permission check failed, denying")
	}

	g.record(ctx, userID, perm, scope, d)
	observe(opCheck, d)

	return d
}

// CheckAnyPermission allows when at least one of perms is granted. An empty list denies.
// Aggregate checks are not audited.
func (g *Gate) CheckAnyPermission(ctx context.Context, perms []permission.Permission, scope Scope) Decision {
	d := g.aggregate(ctx, perms, scope, func(granted permission.Set) bool {
		for _, p := range perms {
			if granted.Has(p) {
				return true
			}
		}

		return false
	})
	observe(opCheckAny, d)

	return d
}

// CheckAllPermissions allows only when every one of perms is granted. An empty list allows.
// Aggregate checks are not audited.
func (g *Gate) CheckAllPermissions(ctx context.Context, perms []permission.Permission, scope Scope) Decision {
	d := g.aggregate(ctx, perms, scope, func(granted permission.Set) bool {
		for _, p := range perms {
			if !granted.Has(p) {
				return false
			}
		}

		return true
	})
	observe(opCheckAll, d)

	return d
}

// RequirePermission is CheckPermission returning a *DeniedError on denial.
func (g *Gate) RequirePermission(ctx context.Context, perm permission.Permission, scope Scope) error {
	return deniedError(g.CheckPermission(ctx, perm, scope), perm)
}

// RequireAnyPermission is CheckAnyPermission returning a *DeniedError on denial.
func (g *Gate) RequireAnyPermission(ctx context.Context, perms []permission.Permission, scope Scope) error {
	return deniedError(g.CheckAnyPermission(ctx, perms, scope), perms...)
}

// RequireAllPermissions is CheckAllPermissions returning a *DeniedError on denial.
func (g *Gate) RequireAllPermissions(ctx context.Context, perms []permission.Permission, scope Scope) error {
	return deniedError(g.CheckAllPermissions(ctx, perms, scope), perms...)
}

// EffectivePermissions lists the caller's permissions in scope, sorted.
func (g *Gate) EffectivePermissions(ctx context.Context, scope Scope) ([]permission.Permission, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	perms, err := g.resolve(ctx, userID, scope)
	if err != nil {
		return nil, err
	}

	return perms.Slice(), nil
}

func (g *Gate) aggregate(
	ctx context.Context,
	perms []permission.Permission,
	scope Scope,
	granted func(permission.Set) bool,
) Decision {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return unauthenticated(perms...)
	}

	set, err := g.resolve(ctx, userID, scope)
	d := decide(err, func() bool { return granted(set) })

	if d.Err != nil {
		log.Error().Err(d.Err).Str("user_id", userID).Str("tenant_id", scope.TenantID).
			Strs("permissions", toStrings(perms)).Msg("permission check failed, denying")
	}

	return d
}

func (g *Gate) resolve(ctx context.Context, userID string, scope Scope) (permission.Set, error) {
	if scope.TenantID == "" {
		role, err := g.roles.ResolveRolePermissions(ctx, userID)
		return role.Permissions, err
	}

	scoped, err := g.workspaces.ResolveWorkspacePermissions(ctx, userID, scope.TenantID, scope.WorkspaceID)

	return scoped.Permissions, err
}

func (g *Gate) record(ctx context.Context, userID string, perm permission.Permission, scope Scope, d Decision) {
	tenantID := scope.TenantID
	if tenantID == "" {
		tenantID = TenantIDFromContext(ctx)
	}

	workspaceID := scope.WorkspaceID
	if workspaceID == "" {
		workspaceID = WorkspaceIDFromContext(ctx)
	}

	metadata := map[string]any{"tenantScoped": scope.TenantID != ""}
	if d.Err != nil {
		metadata["error"] = d.Err.Error()
	}

	client := ClientFromContext(ctx)

	entry := audit.Entry{
		UserID:      userID,
		TenantID:    tenantID,
		WorkspaceID: workspaceID,
		Action:      audit.ActionPermissionCheck,
		Resource:    perm.Resource(),
		Permission:  perm.String(),
		Allowed:     d.Allowed,
		Reason:      d.Reason,
		Metadata:    metadata,
		IPAddress:   client.IPAddress,
		UserAgent:   client.UserAgent,
		CreatedAt:   g.now(),
	}

	// the entry must be written even if the request is cancelled after the decision
	if err := g.sink.Record(context.WithoutCancel(ctx), entry); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("permission", perm.String()).
			Bool("allowed", d.Allowed).Msg("failed to record permission decision")
	}
}

func decide(err error, granted func() bool) Decision {
	switch {
	case err != nil:
		return Decision{Allowed: false, Reason: err.Error(), Err: err}
	case granted():
		return Decision{Allowed: true}
	default:
		return Decision{Allowed: false, Reason: ReasonInsufficientPermissions}
	}
}

func unauthenticated(perms ...permission.Permission) Decision {
	log.Warn().Strs("permissions", toStrings(perms)).Msg("permission check without authenticated user")

	return Decision{Allowed: false, Reason: ReasonUnauthenticated, Err: ErrUnauthenticated}
}

func deniedError(d Decision, perms ...permission.Permission) error {
	if d.Allowed {
		return nil
	}

	return &DeniedError{Permissions: perms, Reason: d.Reason, Err: d.Err}
}

func toStrings(perms []permission.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = p.String()
	}

	return out
}
