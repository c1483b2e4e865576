// Package events dispatches named events to prioritized listeners.
//
// Event names have the form "component:action", for example
// "dispatch:beforeDispatch". A listener attached to "dispatch" receives
// every action of that component; one attached to "dispatch:beforeDispatch"
// receives only that action. Higher priorities run first; listeners with
// equal priority run in attach order.
package events

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
)

// ErrStopped is returned by Fire when a listener stopped propagation.
var ErrStopped = errors.New("events: propagation stopped")

// Event is passed to listeners.
type Event struct {
	Source  any
	Data    any
	Name    string
	stopped bool
}

// Component returns the part of the name before the colon.
func (e *Event) Component() string {
	c, _, _ := strings.Cut(e.Name, ":")
	return c
}

// Action returns the part of the name after the colon.
func (e *Event) Action() string {
	_, a, _ := strings.Cut(e.Name, ":")
	return a
}

// Stop prevents listeners with lower priority from running.
func (e *Event) Stop() { e.stopped = true }

// Stopped reports whether Stop was called.
func (e *Event) Stopped() bool { return e.stopped }

// Listener handles an event. Returning an error stops propagation and is
// returned from Fire.
type Listener func(ctx context.Context, e *Event) error

type attached struct {
	listener Listener
	priority int
	seq      int
}

// Manager keeps listeners per event type.
type Manager struct {
	listeners  map[string][]attached
	seq        int
	priorities bool
	mu         sync.RWMutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithPriorities enables priority ordering. Without it listeners run in
// attach order and priorities are ignored.
func WithPriorities() Option {
	return func(m *Manager) {
		m.priorities = true
	}
}

// New creates a Manager.
func New(opts ...Option) *Manager {
	m := &Manager{listeners: make(map[string][]attached)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Attach registers l for eventType, which is either a component name or a
// full "component:action" name.
func (m *Manager) Attach(eventType string, l Listener, priority int) {
	if l == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	m.listeners[eventType] = append(m.listeners[eventType], attached{listener: l, priority: priority, seq: m.seq})
}

// Detach removes every listener of eventType.
func (m *Manager) Detach(eventType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.listeners, eventType)
}

// HasListeners reports whether anything listens to eventType.
func (m *Manager) HasListeners(eventType string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.listeners[eventType]) > 0
}

// Fire notifies the listeners of the component and of the exact event name.
// It returns the first listener error, ErrStopped when a listener called
// Stop, or nil.
func (m *Manager) Fire(ctx context.Context, name string, source, data any) error {
	e := &Event{Name: name, Source: source, Data: data}

	for _, a := range m.collect(e.Component(), name) {
		if err := a.listener(ctx, e); err != nil {
			return err
		}
		if e.stopped {
			return ErrStopped
		}
	}
	return nil
}

func (m *Manager) collect(component, name string) []attached {
	m.mu.RLock()
	var list []attached
	list = append(list, m.listeners[component]...)
	if name != component {
		list = append(list, m.listeners[name]...)
	}
	m.mu.RUnlock()

	slices.SortStableFunc(list, func(a, b attached) int {
		if m.priorities && a.priority != b.priority {
			return b.priority - a.priority
		}
		return a.seq - b.seq
	})
	return list
}
