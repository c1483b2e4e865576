package session

import "errors"

// Session errors.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned when a session has expired.
	ErrExpired = errors.New("session: expired")

	// ErrInvalidToken is returned when a session token is malformed.
	ErrInvalidToken = errors.New("session: invalid token")

	// ErrNoSession is returned when a request context carries no session,
	// i.e. the Manager middleware is not installed.
	ErrNoSession = errors.New("session: no session in context")

	// ErrTypeMismatch is returned by Value when a stored value has another type.
	ErrTypeMismatch = errors.New("session: type mismatch")
)
