package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/tindevelopers/tinadmin-saas-base/internal/auth"
)

// Store caches role grants and tenant features in front of the database stores.
// Failed loads are never cached, and a failing cache falls back to the database.
type Store struct {
	roles   auth.RoleStore
	tenants auth.TenantStore
	cache   Cache
	ttl     time.Duration
	group   singleflight.Group

	// gens counts invalidations per key so a load that raced one is not cached.
	mu   sync.Mutex
	gens map[string]uint64
}

// NewStore wraps roles and tenants with cache.
func NewStore(roles auth.RoleStore, tenants auth.TenantStore, cache Cache, ttl time.Duration) *Store {
	return &Store{roles: roles, tenants: tenants, cache: cache, ttl: ttl, gens: make(map[string]uint64)}
}

func (s *Store) generation(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gens[key]
}

func (s *Store) invalidate(ctx context.Context, key string) error {
	s.mu.Lock()
	s.gens[key]++
	s.mu.Unlock()

	s.group.Forget(key)

	return s.cache.Delete(ctx, key)
}

func roleKey(userID string) string     { return "role:" + userID }
func tenantKey(tenantID string) string { return "tenant:" + tenantID }

// GetUserRoleAndPermissions implements auth.RoleStore.
func (s *Store) GetUserRoleAndPermissions(ctx context.Context, userID string) (auth.RoleGrant, error) {
	var grant auth.RoleGrant

	err := s.readThrough(ctx, kindRole, roleKey(userID), &grant, func(ctx context.Context) (any, error) {
		return s.roles.GetUserRoleAndPermissions(ctx, userID)
	})

	return grant, err
}

// GetTenantFeatures implements auth.TenantStore.
func (s *Store) GetTenantFeatures(ctx context.Context, tenantID string) ([]string, error) {
	var features []string

	err := s.readThrough(ctx, kindTenant, tenantKey(tenantID), &features, func(ctx context.Context) (any, error) {
		return s.tenants.GetTenantFeatures(ctx, tenantID)
	})

	return features, err
}

// InvalidateUser drops the cached role grant of a user.
func (s *Store) InvalidateUser(ctx context.Context, userID string) error {
	return s.invalidate(ctx, roleKey(userID))
}

// InvalidateTenant drops the cached features of a tenant.
func (s *Store) InvalidateTenant(ctx context.Context, tenantID string) error {
	return s.invalidate(ctx, tenantKey(tenantID))
}

// readThrough fills out from the cache or, on a miss, from load. Concurrent misses
// for the same key share one load.
func (s *Store) readThrough(
	ctx context.Context,
	kind, key string,
	out any,
	load func(context.Context) (any, error),
) error {
	raw, err := s.cache.Get(ctx, key)

	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, out); jsonErr == nil {
			lookupsTotal.WithLabelValues(kind, resultHit).Inc()
			return nil
		}

		log.Warn().Str("key", key).Msg("dropping undecodable cache entry")
		lookupsTotal.WithLabelValues(kind, resultError).Inc()
	case errors.Is(err, ErrCacheMiss):
		lookupsTotal.WithLabelValues(kind, resultMiss).Inc()
	default:
		log.Warn().Err(err).Str("key", key).Msg("permission cache unavailable, reading from database")
		lookupsTotal.WithLabelValues(kind, resultError).Inc()
	}

	gen := s.generation(key)

	shared, err, _ := s.group.Do(key, func() (any, error) {
		// the load is shared by every waiting caller
		value, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}

		if s.generation(key) != gen {
			// invalidated while loading, the value may predate the change
			return encoded, nil
		}

		fillCtx := context.WithoutCancel(ctx)
		if err := s.cache.Set(fillCtx, key, encoded, s.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to fill permission cache")
		}

		if s.generation(key) != gen {
			if err := s.cache.Delete(fillCtx, key); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("failed to drop raced permission cache entry")
			}
		}

		return encoded, nil
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(shared.([]byte), out) //nolint:forcetypeassert
}
