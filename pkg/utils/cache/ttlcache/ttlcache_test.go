package ttlcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/utils/cache"
)

func TestGetPut(t *testing.T) {
	ctx := context.Background()
	c := New[string, int]()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	val := 42
	c.Put(ctx, "answer", &val)
	got, err := c.Get(ctx, "answer")
	assert.NoError(t, err)
	assert.Equal(t, 42, *got)
}

func TestExpiration(t *testing.T) {
	ctx := context.Background()
	c := New(WithExpiration[string, int](20 * time.Millisecond))

	val := 1
	c.Put(ctx, "k", &val)
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, 1, *got)

	time.Sleep(30 * time.Millisecond)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	c := New[string, int]()

	val := 1
	c.Put(ctx, "k", &val)
	c.Invalidate(ctx, "k")
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestPutRefreshesExpiry(t *testing.T) {
	ctx := context.Background()
	c := New(WithExpiration[string, int](40 * time.Millisecond))

	val := 1
	c.Put(ctx, "k", &val)
	time.Sleep(25 * time.Millisecond)
	c.Put(ctx, "k", &val)
	time.Sleep(25 * time.Millisecond)
	_, err := c.Get(ctx, "k")
	assert.NoError(t, err)
}
