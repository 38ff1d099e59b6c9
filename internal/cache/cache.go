// Package cache provides read-through caching for permission lookups.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key is not cached.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a byte-oriented key value cache.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Redis caches in a redis server shared by all instances.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis creates a redis cache. Every key is prefixed with prefix.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	return value, nil
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete implements Cache.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = r.prefix + k
	}

	if err := r.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

// LRU caches in process memory. Entries expire after the TTL given to NewLRU;
// the ttl argument of Set is ignored.
type LRU struct {
	cache *lru.LRU[string, []byte]
}

// NewLRU creates an in-memory cache holding at most size entries.
func NewLRU(size int, ttl time.Duration) *LRU {
	if size <= 0 {
		size = 1024
	}

	return &LRU{cache: lru.NewLRU[string, []byte](size, nil, ttl)}
}

// Get implements Cache.
func (l *LRU) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := l.cache.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}

	return value, nil
}

// Set implements Cache.
func (l *LRU) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	l.cache.Add(key, value)
	return nil
}

// Delete implements Cache.
func (l *LRU) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		l.cache.Remove(k)
	}

	return nil
}
