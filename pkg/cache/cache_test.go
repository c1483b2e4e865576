package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webtools/pkg/cache"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	k, err := cache.ParseKind("")
	require.NoError(t, err)
	require.Equal(t, cache.KindMemory, k)

	k, err = cache.ParseKind(" Redis ")
	require.NoError(t, err)
	require.Equal(t, cache.KindRedis, k)

	_, err = cache.ParseKind("stream")
	require.ErrorIs(t, err, cache.ErrUnknownKind)
}

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		_, err := c.Get(ctx, "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("set get delete", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[[]string]()
		defer c.Close()

		require.NoError(t, c.Set(ctx, "tables", []string{"users"}, time.Minute))
		v, err := c.Get(ctx, "tables")
		require.NoError(t, err)
		require.Equal(t, []string{"users"}, v)

		has, err := c.Has(ctx, "tables")
		require.NoError(t, err)
		require.True(t, has)

		require.NoError(t, c.Delete(ctx, "tables"))
		has, err = c.Has(ctx, "tables")
		require.NoError(t, err)
		require.False(t, has)
	})

	t.Run("entries expire", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", 1, 5*time.Millisecond))
		time.Sleep(20 * time.Millisecond)

		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithDefaultTTL(time.Millisecond), cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "forever", 1, -1))
		require.NoError(t, c.Set(ctx, "default", 2, 0))
		time.Sleep(10 * time.Millisecond)

		v, err := c.Get(ctx, "forever")
		require.NoError(t, err)
		require.Equal(t, 1, v)

		_, err = c.Get(ctx, "default")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("clear with prefix", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithPrefix("view"))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
		require.NoError(t, c.Set(ctx, "b", "2", time.Minute))
		require.Equal(t, 2, c.Len())

		require.NoError(t, c.Clear(ctx))
		require.Zero(t, c.Len())
	})

	t.Run("closed cache rejects operations", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())

		require.ErrorIs(t, c.Set(ctx, "k", "v", 0), cache.ErrClosed)
		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrClosed)
	})
}

func TestLoader_GetOrSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("computes once and caches", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[[]string]()
		defer c.Close()
		l := cache.NewLoader[[]string](c)

		var calls atomic.Int32
		fn := func(context.Context) ([]string, time.Duration, error) {
			calls.Add(1)
			time.Sleep(10 * time.Millisecond)
			return []string{"users", "posts"}, time.Minute, nil
		}

		var wg sync.WaitGroup
		for range 8 {
			wg.Go(func() {
				v, err := l.GetOrSet(ctx, "tables", fn)
				assert.NoError(t, err)
				assert.Equal(t, []string{"users", "posts"}, v)
			})
		}
		wg.Wait()

		require.Equal(t, int32(1), calls.Load())

		_, err := l.GetOrSet(ctx, "tables", fn)
		require.NoError(t, err)
		require.Equal(t, int32(1), calls.Load())
	})

	t.Run("errors are not cached", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		defer c.Close()
		l := cache.NewLoader[int](c)

		errBoom := errors.New("boom")
		_, err := l.GetOrSet(ctx, "k", func(context.Context) (int, time.Duration, error) {
			return 0, 0, errBoom
		})
		require.ErrorIs(t, err, errBoom)

		has, err := c.Has(ctx, "k")
		require.NoError(t, err)
		require.False(t, has)
	})
}
