package session

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/webtools/pkg/cache"
)

// Store persists sessions by token.
type Store interface {
	// Get returns ErrNotFound for unknown tokens and ErrExpired for
	// sessions past their expiry.
	Get(ctx context.Context, token string) (*Session, error)

	// Save persists s for ttl.
	Save(ctx context.Context, s *Session, ttl time.Duration) error

	// Delete removes the session stored under token.
	Delete(ctx context.Context, token string) error
}

// CacheStore keeps sessions in a cache backend (memory or Redis).
type CacheStore struct {
	cache cache.Cache[Session]
}

// NewCacheStore creates a Store over c.
func NewCacheStore(c cache.Cache[Session]) *CacheStore {
	return &CacheStore{cache: c}
}

// Get implements Store.
func (s *CacheStore) Get(ctx context.Context, token string) (*Session, error) {
	v, err := s.cache.Get(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sess := v.clone()
	if sess.IsExpired() {
		_ = s.cache.Delete(ctx, token)
		return nil, ErrExpired
	}
	return sess, nil
}

// Save implements Store.
func (s *CacheStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	return s.cache.Set(ctx, sess.Token, *sess.clone(), ttl)
}

// Delete implements Store.
func (s *CacheStore) Delete(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, token)
}

var _ Store = (*CacheStore)(nil)
