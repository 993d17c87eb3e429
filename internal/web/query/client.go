// Package query is a keyed, coalescing read cache for page data. Identical
// keys fetched concurrently share one underlying request, successful results
// are reused until they go stale, and failures are never cached.
package query

import (
	"context"
	"strconv"
	"sync"
	"time"

	"questrack/pkg/utils/logger"

	"github.com/zeromicro/go-zero/core/collection"
	"github.com/zeromicro/go-zero/core/syncx"
	"go.uber.org/zap"
)

const (
	defaultStaleTime    = 30 * time.Second
	defaultRenderWait   = 2 * time.Second
	defaultFetchTimeout = 10 * time.Second
	defaultLimit        = 10000
)

// Key identifies one cached read.
type Key struct {
	Kind   string
	UserID int64
	Params string
}

func (k Key) String() string {
	s := k.Kind + ":" + strconv.FormatInt(k.UserID, 10)
	if k.Params != "" {
		s += "?" + k.Params
	}
	return s
}

// Status is the settled state of a read.
type Status int

const (
	StatusPending Status = iota
	StatusSuccess
	StatusError
)

// Result is what a page sees of a read. A disabled read stays Pending with
// Fetching false; a read still running after the render budget is Pending
// with Fetching true.
type Result[T any] struct {
	Status   Status
	Data     T
	Err      error
	Fetching bool
}

// IsLoading reports whether the read has no data yet and is running.
func (r Result[T]) IsLoading() bool {
	return r.Status == StatusPending && r.Fetching
}

// IsError reports whether the read failed.
func (r Result[T]) IsError() bool {
	return r.Status == StatusError
}

// Config tunes a Client.
type Config struct {
	// StaleTime is how long a successful result is reused.
	StaleTime time.Duration `yaml:"staleTime"`
	// RenderWait bounds how long a page waits for a fetch before rendering
	// the loading state. The fetch keeps running and fills the cache.
	RenderWait time.Duration `yaml:"renderWait"`
	// FetchTimeout bounds the underlying request.
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
	// Limit caps the number of cached entries.
	Limit int `yaml:"limit"`
}

// Client holds cached results and in-flight requests.
type Client struct {
	flight       syncx.SingleFlight
	cache        *collection.Cache
	renderWait   time.Duration
	fetchTimeout time.Duration

	mu       sync.Mutex
	userKeys map[int64]map[string]struct{}
	userGen  map[int64]uint64
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.StaleTime <= 0 {
		cfg.StaleTime = defaultStaleTime
	}
	if cfg.RenderWait <= 0 {
		cfg.RenderWait = defaultRenderWait
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	cache, err := collection.NewCache(cfg.StaleTime, collection.WithLimit(cfg.Limit), collection.WithName("query"))
	if err != nil {
		return nil, err
	}
	return &Client{
		flight:       syncx.NewSingleFlight(),
		cache:        cache,
		renderWait:   cfg.RenderWait,
		fetchTimeout: cfg.FetchTimeout,
		userKeys:     make(map[int64]map[string]struct{}),
		userGen:      make(map[int64]uint64),
	}, nil
}

type outcome struct {
	val any
	err error
}

// Fetch resolves key through the cache. When enabled is false nothing is
// requested. fn runs detached from ctx's cancellation so an abandoned page
// still warms the cache for the next render.
func Fetch[T any](ctx context.Context, c *Client, key Key, enabled bool, fn func(context.Context) (T, error)) Result[T] {
	if !enabled {
		return Result[T]{Status: StatusPending}
	}

	id := key.String()
	if v, ok := c.cache.Get(id); ok {
		if data, ok := v.(T); ok {
			return Result[T]{Status: StatusSuccess, Data: data}
		}
	}

	gen := c.generation(key.UserID)
	done := make(chan outcome, 1)
	go func() {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		// Generation in the flight key keeps post-invalidation reads off an older request.
		flightKey := id + "#" + strconv.FormatUint(gen, 10)
		val, fresh, err := c.flight.DoEx(flightKey, func() (any, error) {
			data, err := fn(fetchCtx)
			if err != nil {
				return nil, err
			}
			c.store(key, gen, data)
			return data, nil
		})
		if err != nil && fresh {
			logger.Warn(fetchCtx, "query fetch failed", zap.String("key", id), zap.Error(err))
		}
		done <- outcome{val: val, err: err}
	}()

	timer := time.NewTimer(c.renderWait)
	defer timer.Stop()

	select {
	case out := <-done:
		if out.err != nil {
			return Result[T]{Status: StatusError, Err: out.err}
		}
		data, _ := out.val.(T)
		return Result[T]{Status: StatusSuccess, Data: data}
	case <-timer.C:
		return Result[T]{Status: StatusPending, Fetching: true}
	case <-ctx.Done():
		return Result[T]{Status: StatusPending, Fetching: true}
	}
}

// InvalidateUser drops every cached key of userID. Fetches already in flight
// for that user will not repopulate the cache.
func (c *Client) InvalidateUser(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.userKeys[userID] {
		c.cache.Del(id)
	}
	delete(c.userKeys, userID)
	c.userGen[userID]++
}

func (c *Client) generation(userID int64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userGen[userID]
}

func (c *Client) store(key Key, gen uint64, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userGen[key.UserID] != gen {
		return
	}
	id := key.String()
	keys, ok := c.userKeys[key.UserID]
	if !ok {
		keys = make(map[string]struct{})
		c.userKeys[key.UserID] = keys
	}
	keys[id] = struct{}{}
	c.cache.Set(id, data)
}
