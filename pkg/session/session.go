package session

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// Session is the per-browser state of the panel: arbitrary values plus the
// flash message queue.
type Session struct {
	CreatedAt    time.Time           `json:"created_at"`
	LastActiveAt time.Time           `json:"last_active_at"`
	ExpiresAt    time.Time           `json:"expires_at"`
	Values       map[string]any      `json:"values,omitempty"`
	Flash        map[string][]string `json:"flash,omitempty"`
	ID           string              `json:"id"`
	Token        string              `json:"token"` // cookie value, distinct from ID
	IP           string              `json:"ip,omitempty"`
	UserAgent    string              `json:"user_agent,omitempty"`

	dirty bool
	isNew bool
}

// New creates a new session with the given ID and token.
func New(id, token string, expiresAt time.Time) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Token:        token,
		Values:       make(map[string]any),
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    expiresAt,
		isNew:        true,
		dirty:        true,
	}
}

// SetValue stores a value in the session.
func (s *Session) SetValue(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

// GetValue retrieves a value from the session.
func (s *Session) GetValue(key string) (any, bool) {
	val, ok := s.Values[key]
	return val, ok
}

// DeleteValue removes a value. The session becomes dirty only if the key
// existed.
func (s *Session) DeleteValue(key string) {
	if _, exists := s.Values[key]; exists {
		delete(s.Values, key)
		s.dirty = true
	}
}

// AddFlash queues a message of the given kind for a later request.
func (s *Session) AddFlash(kind, message string) {
	if s.Flash == nil {
		s.Flash = make(map[string][]string)
	}
	s.Flash[kind] = append(s.Flash[kind], message)
	s.dirty = true
}

// HasFlash reports whether messages are queued for kind, or for any kind
// when kind is empty.
func (s *Session) HasFlash(kind string) bool {
	if kind == "" {
		return len(s.Flash) > 0
	}
	return len(s.Flash[kind]) > 0
}

// Flashes returns the queued messages for kind (all kinds when empty),
// removing them when remove is set. Kinds are returned in sorted order.
func (s *Session) Flashes(kind string, remove bool) map[string][]string {
	out := make(map[string][]string)
	kinds := []string{kind}
	if kind == "" {
		kinds = slices.Sorted(maps.Keys(s.Flash))
	}
	for _, k := range kinds {
		msgs := s.Flash[k]
		if len(msgs) == 0 {
			continue
		}
		out[k] = slices.Clone(msgs)
		if remove {
			delete(s.Flash, k)
			s.dirty = true
		}
	}
	return out
}

// IsDirty returns true if the session has unsaved changes.
func (s *Session) IsDirty() bool {
	return s.dirty
}

// IsNew returns true if the session has not been persisted yet.
func (s *Session) IsNew() bool {
	return s.isNew
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func (s *Session) saved() {
	s.dirty = false
	s.isNew = false
}

// clone copies the session so cached instances are never shared between
// requests. Values are copied one level deep.
func (s *Session) clone() *Session {
	c := *s
	c.Values = maps.Clone(s.Values)
	if s.Flash != nil {
		c.Flash = make(map[string][]string, len(s.Flash))
		for k, v := range s.Flash {
			c.Flash[k] = slices.Clone(v)
		}
	}
	return &c
}

// Value is a typed helper to retrieve session values.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}

	typed, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%w for key %q", ErrTypeMismatch, key)
	}
	return typed, nil
}

// ValueOr returns the value for key or defaultVal when it is missing or has
// another type.
func ValueOr[T any](s *Session, key string, defaultVal T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return defaultVal
	}
	return val
}
