package internal

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// Registry errors.
var (
	ErrUnknownService      = errors.New("webtools: unknown service")
	ErrCircularDependency  = errors.New("webtools: circular service dependency")
	ErrServiceType         = errors.New("webtools: unexpected service type")
	ErrNilServiceFactory   = errors.New("webtools: nil service factory")
	ErrServiceConstruction = errors.New("webtools: service construction failed")
)

// Handle is the capability passed to factories. It performs named lookups
// against the registry the factory was registered in. A handle kept past
// its factory's return (by a controller or a readiness check) resolves
// from the root, without the construction chain.
type Handle interface {
	Get(name string) (any, error)
}

// Factory constructs a service. Dependencies are requested through h.
type Factory func(h Handle) (any, error)

type serviceEntry struct {
	factory  Factory
	instance any
	shared   bool
	built    bool
	external bool // registered via SetInstance, never closed here

	// build serializes construction of a shared service.
	build sync.Mutex
}

// Registry maps service names to factories and owns the shared instances
// they produce. Services are built on first request, never eagerly.
//
// Concurrent first lookups of a shared service run its factory once; the
// other callers wait for that result. Dependency graphs must be acyclic:
// a cycle is reported within one resolution chain, but two goroutines
// entering a cycle from opposite ends block each other.
type Registry struct {
	entries map[string]*serviceEntry
	order   []string // shared services in construction order
	mu      sync.Mutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*serviceEntry)}
}

// Register registers or replaces the factory for name. Replacing an entry
// closes the instance built for it, if any, and returns the close error.
func (r *Registry) Register(name string, f Factory, shared bool) error {
	return r.replace(name, &serviceEntry{factory: f, shared: shared})
}

func (r *Registry) replace(name string, e *serviceEntry) error {
	r.mu.Lock()
	old := r.entries[name]
	r.entries[name] = e
	var c io.Closer
	if old != nil && old.built {
		r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
		if !old.external {
			c, _ = old.instance.(io.Closer)
		}
	}
	r.mu.Unlock()

	if c == nil {
		return nil
	}
	return c.Close()
}

// Set registers a service that is constructed afresh on every lookup.
func (r *Registry) Set(name string, f Factory) {
	_ = r.Register(name, f, false)
}

// SetShared registers a service constructed at most once.
func (r *Registry) SetShared(name string, f Factory) {
	_ = r.Register(name, f, true)
}

// SetInstance registers an already constructed shared value.
// The caller keeps ownership: Close does not close it.
func (r *Registry) SetInstance(name string, v any) {
	_ = r.replace(name, &serviceEntry{
		factory:  func(Handle) (any, error) { return v, nil },
		instance: v,
		shared:   true,
		built:    true,
		external: true,
	})
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[name]
	return ok
}

// Names returns the registered service names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsShared reports whether name is registered as shared.
func (r *Registry) IsShared(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	return ok && e.shared
}

// Get resolves the service registered under name.
func (r *Registry) Get(name string) (any, error) {
	return resolver{r: r}.Get(name)
}

// Close closes every constructed shared service that implements io.Closer,
// most recently constructed first, and forgets the instances.
func (r *Registry) Close() error {
	r.mu.Lock()
	var closers []io.Closer
	for _, name := range slices.Backward(r.order) {
		e := r.entries[name]
		if c, ok := e.instance.(io.Closer); ok && !e.external {
			closers = append(closers, c)
		}
		e.instance, e.built = nil, false
	}
	r.order = nil
	r.mu.Unlock()

	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// resolver is the Handle given to factories. It carries the chain of
// services being constructed so that a dependency cycle surfaces as an
// error instead of unbounded recursion.
type resolver struct {
	r     *Registry
	chain []string
	done  *atomic.Bool // set once the owning factory returned
}

func (res resolver) Get(name string) (any, error) {
	if res.done != nil && res.done.Load() {
		res = resolver{r: res.r}
	}
	if slices.Contains(res.chain, name) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrCircularDependency, strings.Join(res.chain, " -> "), name)
	}

	res.r.mu.Lock()
	e, ok := res.r.entries[name]
	if !ok {
		res.r.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, name)
	}
	if e.shared && e.built {
		v := e.instance
		res.r.mu.Unlock()
		return v, nil
	}
	res.r.mu.Unlock()

	if e.factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrNilServiceFactory, name)
	}
	if !e.shared {
		return res.construct(name, e)
	}

	e.build.Lock()
	defer e.build.Unlock()

	res.r.mu.Lock()
	if e.built {
		v := e.instance
		res.r.mu.Unlock()
		return v, nil
	}
	res.r.mu.Unlock()

	v, err := res.construct(name, e)
	if err != nil {
		return nil, err
	}

	res.r.mu.Lock()
	current := res.r.entries[name] == e
	if current {
		e.instance, e.built = v, true
		res.r.order = append(res.r.order, name)
	}
	res.r.mu.Unlock()

	// Replaced while building: nobody owns the result.
	if !current {
		if c, ok := v.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, fmt.Errorf("%w: %q: replaced during construction", ErrServiceConstruction, name)
	}
	return v, nil
}

// construct runs the factory without holding the registry lock, so it can
// resolve its own dependencies through the child handle.
func (res resolver) construct(name string, e *serviceEntry) (any, error) {
	child := resolver{r: res.r, chain: append(slices.Clip(res.chain), name), done: new(atomic.Bool)}
	v, err := e.factory(child)
	child.done.Store(true)
	if err != nil {
		if errors.Is(err, ErrCircularDependency) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %q: %w", ErrServiceConstruction, name, err)
	}
	return v, nil
}

// Resolve looks up name through h and asserts its type.
func Resolve[T any](h Handle, name string) (T, error) {
	var zero T
	v, err := h.Get(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T, want %T", ErrServiceType, name, v, zero)
	}
	return t, nil
}
