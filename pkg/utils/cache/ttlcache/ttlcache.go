package ttlcache

import (
	"context"
	"sync"
	"time"

	"github.com/quicktrack/fleetcontrol-service-go/log"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/utils/cache"
)

// In-memory cache with lazy expiry: entries are only checked for
// expiration when their key is read again, never swept proactively.

type (
	Option[K comparable, V any] func(*config[K, V])
	item[T any]                 struct {
		data    T
		expires *time.Time
	}
	config[K comparable, V any] struct {
		expiration time.Duration
		l          *log.Logger
	}
	ttlCache[K comparable, V any] struct {
		mutex  sync.Mutex
		items  map[K]item[*V]
		config *config[K, V]
	}
)

func WithExpiration[K comparable, V any](expiration time.Duration) Option[K, V] {
	return func(c *config[K, V]) {
		c.expiration = expiration
	}
}

func WithLogger[K comparable, V any](arg *log.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		c.l = arg
	}
}

func New[K comparable, V any](opts ...Option[K, V]) cache.Cache[K, V] {
	c := &config[K, V]{
		expiration: 5 * time.Minute,
		l:          log.Default().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return &ttlCache[K, V]{
		items:  make(map[K]item[*V]),
		config: c,
	}
}

func (c *ttlCache[K, V]) Get(ctx context.Context, key K) (*V, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if cacheItem, ok := c.items[key]; ok {
		if cacheItem.expires != nil && cacheItem.expires.Before(time.Now()) {
			delete(c.items, key)
			return nil, cache.ErrCacheMiss
		}
		return cacheItem.data, nil
	}
	return nil, cache.ErrCacheMiss
}

func (c *ttlCache[K, V]) Put(ctx context.Context, key K, value *V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	expires := time.Now().Add(c.config.expiration)
	c.items[key] = item[*V]{data: value, expires: &expires}
}

func (c *ttlCache[K, V]) Invalidate(ctx context.Context, key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.config.l.Debug("Invalidate", log.Any("key", key))
	delete(c.items, key)
}
