package cache

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process cache backed by patrickmn/go-cache.
type Memory[V any] struct {
	store  *gocache.Cache
	opts   *options
	closed atomic.Bool
}

// NewMemory creates an in-memory cache.
//
//	c := cache.NewMemory[string](
//	    cache.WithDefaultTTL(5*time.Minute),
//	    cache.WithPrefix("view"),
//	)
//	defer c.Close()
func NewMemory[V any](opts ...Option) *Memory[V] {
	o := newOptions(opts...)

	defaultTTL := o.defaultTTL
	if defaultTTL < 0 {
		defaultTTL = gocache.NoExpiration
	}

	return &Memory[V]{
		store: gocache.New(defaultTTL, o.cleanupInterval),
		opts:  o,
	}
}

// Get retrieves a value by key.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	var zero V
	if m.closed.Load() {
		return zero, ErrClosed
	}

	raw, found := m.store.Get(m.opts.key(key))
	if !found {
		return zero, ErrNotFound
	}
	v, ok := raw.(V)
	if !ok {
		return zero, ErrTypeMismatch
	}
	return v, nil
}

// Set stores value under key.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	if m.closed.Load() {
		return ErrClosed
	}

	d := m.opts.ttl(ttl)
	if d < 0 {
		d = gocache.NoExpiration
	}
	m.store.Set(m.opts.key(key), value, d)
	return nil
}

// Delete removes key.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.store.Delete(m.opts.key(key))
	return nil
}

// Has reports whether key exists and has not expired.
func (m *Memory[V]) Has(_ context.Context, key string) (bool, error) {
	if m.closed.Load() {
		return false, ErrClosed
	}
	_, found := m.store.Get(m.opts.key(key))
	return found, nil
}

// Clear removes all entries. With a prefix only prefixed keys are removed.
func (m *Memory[V]) Clear(_ context.Context) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.opts.prefix == "" {
		m.store.Flush()
		return nil
	}
	for k := range m.store.Items() {
		if strings.HasPrefix(k, m.opts.prefix+":") {
			m.store.Delete(k)
		}
	}
	return nil
}

// Len returns the number of stored entries, including expired ones that
// have not been purged yet.
func (m *Memory[V]) Len() int {
	return m.store.ItemCount()
}

// Close empties the cache and rejects further operations.
func (m *Memory[V]) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	m.store.Flush()
	return nil
}

var _ Cache[any] = (*Memory[any])(nil)
