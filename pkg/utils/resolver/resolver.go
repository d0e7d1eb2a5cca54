package resolver

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"

	"github.com/quicktrack/fleetcontrol-service-go/log"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/utils/cache"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/utils/cache/ttlcache"
)

// ComputeFunc performs the actual (typically remote) lookup for a key.
// It is expected to enforce its own bounded wait before failing.
type ComputeFunc[K comparable, V any] func(ctx context.Context, key K) (*V, error)

// Bounded wraps an external lookup with a concurrency gate and a TTL
// cache. At most the configured number of compute calls are in flight at
// any time; queued callers are released in FIFO order. Failures of the
// compute function are swallowed and surfaced as "no result" so a flaky
// dependency degrades output quality instead of failing the caller.
type Bounded[K comparable, V any] struct {
	sem     *semaphore.Weighted
	cache   cache.Cache[K, V]
	compute ComputeFunc[K, V]
	l       *log.Logger
}

type Option[K comparable, V any] func(r *Bounded[K, V])

// WithMaxConcurrent caps in-flight compute calls. 0 means unlimited.
func WithMaxConcurrent[K comparable, V any](n int) Option[K, V] {
	return func(r *Bounded[K, V]) {
		if n > 0 {
			r.sem = semaphore.NewWeighted(int64(n))
		} else {
			r.sem = nil
		}
	}
}

func WithCache[K comparable, V any](c cache.Cache[K, V]) Option[K, V] {
	return func(r *Bounded[K, V]) {
		r.cache = c
	}
}

func WithCompute[K comparable, V any](fn ComputeFunc[K, V]) Option[K, V] {
	return func(r *Bounded[K, V]) {
		r.compute = fn
	}
}

func WithLogger[K comparable, V any](l *log.Logger) Option[K, V] {
	return func(r *Bounded[K, V]) {
		r.l = l
	}
}

func New[K comparable, V any](opts ...Option[K, V]) *Bounded[K, V] {
	ret := &Bounded[K, V]{
		l: log.Default().Named("resolver"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.cache == nil {
		ret.cache = ttlcache.New[K, V]()
	}
	return ret
}

// Resolve returns the cached value for key or invokes the gated compute
// function. Nil means "no result"; the next caller for the same key will
// re-attempt since failures are never cached.
func (r *Bounded[K, V]) Resolve(ctx context.Context, key K) *V {
	if v, err := r.cache.Get(ctx, key); err == nil {
		return v
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		r.l.Warn("cache lookup failed", log.Any("key", key), log.ErrorField(err))
	}
	if r.compute == nil {
		return nil
	}
	if r.sem != nil {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			r.l.Warn("gate wait aborted", log.Any("key", key), log.ErrorField(err))
			return nil
		}
		defer r.sem.Release(1)
	}
	v, err := r.compute(ctx, key)
	if err != nil {
		r.l.Warn("lookup failed", log.Any("key", key), log.ErrorField(err))
		return nil
	}
	r.cache.Put(ctx, key, v)
	return v
}
