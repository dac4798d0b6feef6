package cache

import "errors"

var (
	// ErrCacheMiss indicates the key was not present in the cache backend.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidRedisURL indicates the Redis connection URL could not be parsed.
	ErrInvalidRedisURL = errors.New("invalid redis connection url")

	// ErrRedisNotReady indicates the Redis server did not respond within the
	// configured retry attempts.
	ErrRedisNotReady = errors.New("redis server is not ready")
)
