package cache

import (
	"context"
	"time"
)

// Cache defines the cache operations used by questrack.
// Business code depends on the narrower BasicOps/SetOps where it can.
type Cache interface {
	BasicOps
	SetOps
	CounterOps

	// Ping verifies the cache connection is alive
	Ping(ctx context.Context) error

	// Close closes the cache connection
	Close() error
}

// BasicOps defines basic key-value operations
type BasicOps interface {
	// Get retrieves the value for the given key, "" when missing
	Get(ctx context.Context, key string) (string, error)

	// Set stores a key-value pair; ttl 0 means no expiry
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Del deletes one or more keys
	Del(ctx context.Context, keys ...string) error

	// Exists returns the number of the given keys that exist
	Exists(ctx context.Context, keys ...string) (int64, error)

	// TTL returns the remaining time to live of a key
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// SetOps defines set operations
type SetOps interface {
	SAdd(ctx context.Context, key string, members ...any) error
	SRem(ctx context.Context, key string, members ...any) error
	SIsMember(ctx context.Context, key string, member any) (bool, error)
	SCard(ctx context.Context, key string) (int64, error)
}

// CounterOps defines the counter operations used by fixed-window rate limits
type CounterOps interface {
	// SetNX sets key only when it does not exist and reports whether it did
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}
