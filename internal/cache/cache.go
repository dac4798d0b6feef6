// Package cache provides a get-or-set wrapper around an external cache backend.
// Values are stored as JSON. Backend failures are treated as cache misses so
// callers always get an answer as long as the loader succeeds.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Backend is the minimal set of cache operations the wrapper needs.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Cache wraps a Backend with JSON encoding and loader deduplication.
type Cache struct {
	backend Backend
	group   singleflight.Group
	logger  *slog.Logger
}

// New creates a Cache on top of the given backend.
func New(backend Backend, logger *slog.Logger) *Cache {
	return &Cache{
		backend: backend,
		logger:  logger,
	}
}

// GetOrSet returns the cached value for key, or invokes loader to compute it
// and stores the result with the given TTL. Concurrent callers for the same
// key share a single loader invocation. Backend read/write failures are logged
// and degrade to calling the loader directly.
func (c *Cache) GetOrSet(
	ctx context.Context,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (any, error),
) ([]byte, error) {
	cached, err := c.backend.Get(ctx, key)
	if err == nil {
		return cached, nil
	}
	if err != ErrCacheMiss {
		c.logger.Warn("cache read failed, falling back to loader",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}

	// Collapse concurrent loads for the same key into one backend query.
	value, err, _ := c.group.Do(key, func() (any, error) {
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		encoded, err := json.Marshal(loaded)
		if err != nil {
			return nil, err
		}

		if err := c.backend.Set(ctx, key, encoded, ttl); err != nil {
			c.logger.Warn("cache write failed",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}

		return encoded, nil
	})
	if err != nil {
		return nil, err
	}

	return value.([]byte), nil
}

// Invalidate removes key from the cache. Errors are logged, not returned, so
// writers never fail because the cache is unavailable.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if err := c.backend.Delete(ctx, key); err != nil {
		c.logger.Warn("cache invalidation failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}

// GetOrSetJSON is a typed convenience wrapper around Cache.GetOrSet that
// decodes the cached JSON into T.
func GetOrSetJSON[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	var zero T

	raw, err := c.GetOrSet(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		return zero, err
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, err
	}
	return value, nil
}
