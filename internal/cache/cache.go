package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	RedisBackend  = "redis"
	MemoryBackend = "memory"
)

var (
	ErrCacheMiss      = errors.New("cache: key not found")
	ErrUnknownBackend = errors.New("cache: unknown backend")
)

// Cache is a typed key/value store with optional expiry.
type Cache[V any] interface {
	// Get returns the value or ErrCacheMiss.
	Get(ctx context.Context, key string) (V, error)
	// Set stores value under key. A zero ttl never expires.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// New builds a cache for backend. The redis backend needs a client; keys are
// namespaced with prefix so several caches can share one database.
func New[V any](backend string, client *redis.Client, prefix string) (Cache[V], error) {
	switch backend {
	case RedisBackend:
		if client == nil {
			return nil, fmt.Errorf("%w: redis backend without client", ErrUnknownBackend)
		}
		return NewRedisCache[V](client, prefix, 0), nil
	case MemoryBackend, "":
		return NewMemoryCache[V](time.Second), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
