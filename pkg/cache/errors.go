package cache

import "errors"

var (
	// ErrNotFound is returned for missing and expired keys.
	ErrNotFound = errors.New("cache: entry not found")
	// ErrClosed is returned by every operation on a closed cache.
	ErrClosed       = errors.New("cache: closed")
	ErrMarshal      = errors.New("cache: failed to marshal value")
	ErrUnmarshal    = errors.New("cache: failed to unmarshal value")
	ErrTypeMismatch = errors.New("cache: stored value has unexpected type")
	ErrUnknownKind  = errors.New("cache: unknown backend")
)
