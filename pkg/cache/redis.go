package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint used while clearing a prefix.
const scanBatch = 100

// Redis stores entries in Redis, encoded by a Marshaler (JSON by default).
type Redis[V any] struct {
	client redis.UniversalClient
	opts   *options
	codec  Marshaler[V]
}

// NewRedis wraps client. The client stays owned by the caller and Close
// leaves it open, so several caches can share one connection pool.
//
//	client, err := redis.Open(ctx, "redis://localhost:6379/0")
//	models := cache.NewRedis[[]string](client, nil, cache.WithPrefix("models"))
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], opts ...Option) *Redis[V] {
	if m == nil {
		m = jsonMarshaler[V]{}
	}
	return &Redis[V]{client: client, opts: newOptions(opts...), codec: m}
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	data, err := r.client.Get(ctx, r.opts.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		var zero V
		return zero, ErrNotFound
	case err != nil:
		var zero V
		return zero, err
	}
	return r.codec.Unmarshal(data)
}

// Set stores value. A non-positive TTL (after defaults) means no expiry.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.codec.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.opts.key(key), data, max(r.opts.ttl(ttl), 0)).Err()
}

func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.opts.key(key)).Err()
}

func (r *Redis[V]) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.opts.key(key)).Result()
	return n > 0, err
}

// Clear drops the keys under this cache's prefix. Without a prefix the
// whole selected database is flushed.
func (r *Redis[V]) Clear(ctx context.Context) error {
	if r.opts.prefix == "" {
		return r.client.FlushDB(ctx).Err()
	}

	iter := r.client.Scan(ctx, 0, r.opts.prefix+":*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := r.client.Unlink(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Unlink(ctx, batch...).Err()
	}
	return nil
}

// Close is a no-op.
func (r *Redis[V]) Close() error { return nil }

var _ Cache[any] = (*Redis[any])(nil)
