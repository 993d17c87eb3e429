package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"questrack/internal/common/cache"

	"github.com/zeromicro/go-zero/core/collection"
)

const (
	tokenBlacklistKey = "token:blacklist"
	userSuspendedKey  = "user:banned"

	defaultLocalLimit   = 4096
	defaultLocalTTL     = time.Minute
	defaultRedisTimeout = 200 * time.Millisecond
)

var errNoRevocationStore = errors.New("revocation store is not configured")

// RevocationConfig tunes the revocation lookups.
type RevocationConfig struct {
	RedisTimeout time.Duration `yaml:"redisTimeout"`
	LocalTTL     time.Duration `yaml:"localTTL"`
	LocalLimit   int           `yaml:"localLimit"`
}

// RevocationRepository answers whether a token was revoked or its owner suspended.
// Positive answers are kept in a process-local cache so hot paths skip Redis;
// negative answers always go to Redis so a new revocation takes effect at once.
type RevocationRepository struct {
	redis        cache.SetOps
	local        *collection.Cache
	redisTimeout time.Duration
}

func NewRevocationRepository(redis cache.SetOps, cfg RevocationConfig) (*RevocationRepository, error) {
	if cfg.RedisTimeout <= 0 {
		cfg.RedisTimeout = defaultRedisTimeout
	}
	if cfg.LocalTTL <= 0 {
		cfg.LocalTTL = defaultLocalTTL
	}
	if cfg.LocalLimit <= 0 {
		cfg.LocalLimit = defaultLocalLimit
	}
	local, err := collection.NewCache(cfg.LocalTTL, collection.WithLimit(cfg.LocalLimit), collection.WithName("revocation"))
	if err != nil {
		return nil, err
	}
	return &RevocationRepository{
		redis:        redis,
		local:        local,
		redisTimeout: cfg.RedisTimeout,
	}, nil
}

// IsTokenRevoked reports whether the token hash is on the blacklist.
func (r *RevocationRepository) IsTokenRevoked(ctx context.Context, tokenHash string) (bool, error) {
	if tokenHash == "" {
		return false, nil
	}
	return r.isMember(ctx, tokenBlacklistKey, "token:"+tokenHash, tokenHash)
}

// IsUserSuspended reports whether the user is suspended.
func (r *RevocationRepository) IsUserSuspended(ctx context.Context, userID int64) (bool, error) {
	id := strconv.FormatInt(userID, 10)
	return r.isMember(ctx, userSuspendedKey, "user:"+id, id)
}

func (r *RevocationRepository) isMember(ctx context.Context, setKey, localKey, member string) (bool, error) {
	if _, ok := r.local.Get(localKey); ok {
		return true, nil
	}
	if r.redis == nil {
		return false, errNoRevocationStore
	}
	ctxCache, cancel := context.WithTimeout(ctx, r.redisTimeout)
	defer cancel()
	found, err := r.redis.SIsMember(ctxCache, setKey, member)
	if err != nil {
		return false, err
	}
	if found {
		r.local.Set(localKey, true)
	}
	return found, nil
}
