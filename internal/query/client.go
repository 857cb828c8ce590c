package query

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spigell/hirematch/internal/logger"
	"github.com/spigell/hirematch/internal/utils"
)

const (
	fieldKey = logger.FieldQueryKey

	// DefaultCacheTime is how long an entry stays in the backend after it
	// was written, fresh or stale.
	DefaultCacheTime = 5 * time.Minute
)

// Options configure one query.
type Options struct {
	// StaleTime is how long a cached result is served without refetching.
	// Zero means always refetch.
	StaleTime time.Duration
	// CacheTime bounds how long the entry is kept at all. Zero uses
	// DefaultCacheTime; it is never shorter than StaleTime.
	CacheTime time.Duration
	// Retry overrides the client's default policy.
	Retry *RetryPolicy
}

// Client runs queries against a Backend.
type Client struct {
	backend Backend
	logger  *zap.Logger
	group   singleflight.Group
	retry   RetryPolicy
	now     func() time.Time
	wait    func(context.Context, time.Duration) error
}

type Option func(*Client)

// WithRetry replaces DefaultRetry as the policy for queries without their own.
func WithRetry(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithClock overrides the clock used for staleness.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithWait overrides how the client waits between retries.
func WithWait(wait func(context.Context, time.Duration) error) Option {
	return func(c *Client) { c.wait = wait }
}

func New(backend Backend, log *zap.Logger, opts ...Option) *Client {
	if backend == nil {
		backend = NewMemory()
	}
	c := &Client{
		backend: backend,
		logger:  logger.WithFields(log),
		retry:   DefaultRetry,
		now:     time.Now,
		wait:    utils.WaitFor,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the backend.
func (c *Client) Close() error {
	return c.backend.Close()
}

// Fetch returns the cached value under key while it is fresh, otherwise runs
// fn (retrying per policy) and caches the result. Concurrent Fetch calls for
// the same key share one execution of fn.
func Fetch[T any](ctx context.Context, c *Client, key Key, opts Options, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	k := key.String()

	if v, ok := cached[T](ctx, c, k, opts.StaleTime); ok {
		return v, nil
	}

	policy := c.retry
	if opts.Retry != nil {
		policy = *opts.Retry
	}

	res, err, shared := c.group.Do(k, func() (any, error) {
		v, err := retry(ctx, c, key, policy, fn)
		if err != nil {
			return nil, err
		}
		c.store(ctx, k, v, opts)
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	if shared {
		c.logger.Debug("Query fetch shared", zap.String(fieldKey, k))
	}

	v, _ := res.(T)
	return v, nil
}

func cached[T any](ctx context.Context, c *Client, key string, staleTime time.Duration) (T, bool) {
	var zero T
	if staleTime <= 0 {
		return zero, false
	}

	entry, err := c.backend.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Query cache read failed", zap.String(fieldKey, key), zap.Error(err))
		return zero, false
	}
	if entry == nil || c.now().Sub(entry.UpdatedAt) >= staleTime {
		return zero, false
	}

	var v T
	if err := json.Unmarshal(entry.Data, &v); err != nil {
		c.logger.Warn("Query cache entry is unreadable", zap.String(fieldKey, key), zap.Error(err))
		return zero, false
	}

	c.logger.Debug("Query cache hit", zap.String(fieldKey, key))
	return v, true
}

func (c *Client) store(ctx context.Context, key string, v any, opts Options) {
	if opts.StaleTime <= 0 {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Query result is not cacheable", zap.String(fieldKey, key), zap.Error(err))
		return
	}

	ttl := opts.CacheTime
	if ttl <= 0 {
		ttl = DefaultCacheTime
	}
	if ttl < opts.StaleTime {
		ttl = opts.StaleTime
	}

	if err := c.backend.Set(ctx, key, Entry{Data: data, UpdatedAt: c.now()}, ttl); err != nil {
		c.logger.Warn("Query cache write failed", zap.String(fieldKey, key), zap.Error(err))
	}
}

// Invalidate drops every cached entry at or below each prefix.
func (c *Client) Invalidate(ctx context.Context, prefixes ...Key) error {
	for _, p := range prefixes {
		if err := c.backend.DeletePrefix(ctx, p.String()); err != nil {
			return fmt.Errorf("invalidate %q: %w", p.String(), err)
		}
		c.logger.Debug("Query invalidated", zap.String(fieldKey, p.String()))
	}
	return nil
}

// Mutate runs fn once, without retry, and invalidates the given prefixes
// after it succeeds. A failed invalidation is logged; the mutation result is
// still returned.
func Mutate[T any](ctx context.Context, c *Client, fn func(context.Context) (T, error), invalidate ...Key) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}

	if err := c.Invalidate(ctx, invalidate...); err != nil {
		c.logger.Warn("Cache invalidation after mutation failed", zap.Error(err))
	}

	return v, nil
}
