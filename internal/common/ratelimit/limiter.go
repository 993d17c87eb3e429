// Package ratelimit enforces fixed-window request limits backed by Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"questrack/internal/common/cache"
	pkgerrors "questrack/pkg/errors"
)

const defaultRedisTimeout = 200 * time.Millisecond

// Limiter counts hits per key in fixed windows.
type Limiter struct {
	cache        cache.CounterOps
	window       time.Duration
	redisTimeout time.Duration
}

func NewLimiter(cacheClient cache.CounterOps, window, redisTimeout time.Duration) *Limiter {
	if redisTimeout <= 0 {
		redisTimeout = defaultRedisTimeout
	}
	return &Limiter{cache: cacheClient, window: window, redisTimeout: redisTimeout}
}

// Allow records one hit on key and fails with TooManyRequests once more
// than max hits land in the current window.
func (l *Limiter) Allow(ctx context.Context, key string, max int, window time.Duration) error {
	if l.cache == nil {
		return pkgerrors.New(pkgerrors.ServiceUnavailable).WithMessage("rate limit cache is unavailable")
	}
	if max <= 0 {
		return nil
	}
	if window <= 0 {
		window = l.window
	}

	ctxCache, cancel := context.WithTimeout(ctx, l.redisTimeout)
	defer cancel()

	acquired, err := l.cache.SetNX(ctxCache, key, 1, window)
	if err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.CacheError, "rate limit check failed")
	}
	count := int64(1)
	if !acquired {
		count, err = l.cache.Incr(ctxCache, key)
		if err != nil {
			return pkgerrors.Wrapf(err, pkgerrors.CacheError, "rate limit check failed")
		}
		// A key left without expiry by a crashed writer would never reset.
		if ttl, ttlErr := l.cache.TTL(ctxCache, key); ttlErr == nil && ttl <= 0 {
			_ = l.cache.Expire(ctxCache, key, window)
		}
	}
	if count > int64(max) {
		return pkgerrors.New(pkgerrors.TooManyRequests).WithMessage(fmt.Sprintf("rate limit exceeded for %s", key))
	}
	return nil
}
