package cache

import "time"

// Option configures a cache backend.
type Option func(*options)

type options struct {
	prefix          string
	defaultTTL      time.Duration
	cleanupInterval time.Duration
}

func newOptions(opts ...Option) *options {
	o := &options{
		defaultTTL:      time.Hour,
		cleanupInterval: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDefaultTTL sets the expiration used when Set is called with a zero TTL.
// Default: 1 hour.
func WithDefaultTTL(d time.Duration) Option {
	return func(o *options) {
		if d != 0 {
			o.defaultTTL = d
		}
	}
}

// WithPrefix namespaces all keys as "{prefix}:{key}" so several caches can
// share one backend.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithCleanupInterval sets how often the memory backend purges expired
// entries. Zero or negative disables the janitor. Ignored by Redis.
// Default: 10 minutes.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) {
		o.cleanupInterval = d
	}
}

func (o *options) key(k string) string {
	if o.prefix == "" {
		return k
	}
	return o.prefix + ":" + k
}

// ttl resolves the TTL semantics of Set into a concrete duration, where a
// negative result means "never expires".
func (o *options) ttl(d time.Duration) time.Duration {
	if d == 0 {
		return o.defaultTTL
	}
	return d
}
