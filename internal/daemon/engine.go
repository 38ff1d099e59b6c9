package daemon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tindevelopers/tinadmin-saas-base/internal/audit"
	"github.com/tindevelopers/tinadmin-saas-base/internal/auth"
	"github.com/tindevelopers/tinadmin-saas-base/internal/cache"
	"github.com/tindevelopers/tinadmin-saas-base/internal/config"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/controller/auditlog"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/controller/role"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/controller/tenant"
	"github.com/tindevelopers/tinadmin-saas-base/internal/logger/adapter/stdlogger"
	"github.com/tindevelopers/tinadmin-saas-base/internal/permission"
	"github.com/tindevelopers/tinadmin-saas-base/internal/web/handler"
)

const redisPingTimeout = 2 * time.Second

// Engine is the permission stack wired on one database.
type Engine struct {
	DB        *gorm.DB
	Catalogue *permission.Catalogue

	Roles   *auth.RoleResolver
	Tenants *auth.TenantResolver
	Gate    *auth.Gate
	Tracer  *auth.Tracer

	AuditLogs  *auditlog.Store
	Workspaces *tenant.Store

	// Cache is nil while caching is disabled.
	Cache *cache.Store

	// shared is set for caches every process on the database reads, such as redis.
	shared  bool
	closers []func() error
}

// NewEngine builds the resolvers, gate and tracer on db following cfg.
func NewEngine(cfg *config.Config, db *gorm.DB) (*Engine, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("config and db are required")
	}

	catalogue, err := cfg.Catalogue()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		DB:         db,
		Catalogue:  catalogue,
		AuditLogs:  auditlog.NewStore(db),
		Workspaces: tenant.NewStore(db),
	}

	var (
		roleStore   auth.RoleStore   = role.NewStore(db)
		tenantStore auth.TenantStore = e.Workspaces
	)

	if cfg.Cache.Enabled {
		backend, err := e.newCache(cfg.Cache)
		if err != nil {
			return nil, err
		}

		e.Cache = cache.NewStore(roleStore, tenantStore, backend, cfg.Cache.TTL)
		roleStore, tenantStore = e.Cache, e.Cache
	}

	var sink audit.Sink = audit.NewStoreSink(e.AuditLogs)
	if cfg.Audit.Async {
		async := audit.NewAsyncSink(e.AuditLogs, cfg.Audit.BufferSize)
		e.closers = append(e.closers, async.Close)
		sink = async
	}

	e.Roles = auth.NewRoleResolver(roleStore)
	e.Tenants = auth.NewTenantResolver(e.Roles, tenantStore, catalogue)
	e.Gate = auth.NewGate(e.Roles, auth.NewWorkspaceResolver(e.Tenants), sink)
	e.Tracer = auth.NewTracer(e.Roles, e.Tenants)

	return e, nil
}

func (e *Engine) newCache(cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case "redis":
		redis.SetLogger(stdlogger.New("redis"))

		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		e.closers = append(e.closers, client.Close)
		e.shared = true

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()

		// lookups fall back to the database while redis is down
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis not reachable, permission cache degraded")
		}

		return cache.NewRedis(client, cfg.Redis.Prefix), nil
	case "lru", "":
		return cache.NewLRU(cfg.Size, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Deps returns the dependencies of the web handlers.
func (e *Engine) Deps() handler.Deps {
	return handler.Deps{
		Gate:       e.Gate,
		Tracer:     e.Tracer,
		Catalogue:  e.Catalogue,
		AuditLogs:  e.AuditLogs,
		Workspaces: e.Workspaces,
	}
}

// CacheShared reports whether an invalidation reaches every process using the cache.
// It is false for the lru backend, which only lives in this process.
func (e *Engine) CacheShared() bool {
	return e.Cache != nil && e.shared
}

// InvalidateUser drops the cached role grant of userID.
func (e *Engine) InvalidateUser(ctx context.Context, userID string) error {
	if e.Cache == nil {
		return nil
	}

	return e.Cache.InvalidateUser(ctx, userID)
}

// InvalidateTenant drops the cached features of tenantID.
func (e *Engine) InvalidateTenant(ctx context.Context, tenantID string) error {
	if e.Cache == nil {
		return nil
	}

	return e.Cache.InvalidateTenant(ctx, tenantID)
}

// Close flushes the audit sink and releases the cache connection.
func (e *Engine) Close() error {
	var errs []error

	for _, c := range e.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
