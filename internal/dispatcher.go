package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/webtools/middlewares"
	"github.com/dmitrymomot/webtools/pkg/access"
	"github.com/dmitrymomot/webtools/pkg/events"
)

// Dispatch events.
const (
	EventBeforeDispatch  = "dispatch:beforeDispatch"
	EventBeforeException = "dispatch:beforeException"
)

// Listener priorities of the built-in dispatch listeners.
const (
	AccessPriority    = 1000
	ExceptionPriority = 999
)

// Exception is the data of a dispatch:beforeException event. A listener
// that writes the response itself calls Stop on the event.
type Exception struct {
	Err      error
	Request  *http.Request
	Response http.ResponseWriter
}

// Dispatcher is the entry handler of the panel. It fires
// dispatch:beforeDispatch before handing the request to the router and
// dispatch:beforeException when that fails or the router panics.
type Dispatcher struct {
	events *events.Manager
	next   http.Handler
	log    *slog.Logger
}

// NewDispatcher creates a Dispatcher in front of next.
func NewDispatcher(em *events.Manager, next http.Handler, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{events: em, log: log}
	d.next = middlewares.Recover(log, d.fail)(next)
	return d
}

// ServeHTTP implements http.Handler.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := d.events.Fire(r.Context(), EventBeforeDispatch, d, r); err != nil {
		d.fail(w, r, err)
		return
	}
	d.next.ServeHTTP(w, r)
}

func (d *Dispatcher) fail(w http.ResponseWriter, r *http.Request, err error) {
	ex := &Exception{Err: err, Request: r, Response: w}
	if ferr := d.events.Fire(r.Context(), EventBeforeException, d, ex); errors.Is(ferr, events.ErrStopped) {
		return
	}

	status := http.StatusInternalServerError
	if errors.Is(err, access.ErrAccessDenied) {
		status = http.StatusForbidden
	}
	http.Error(w, http.StatusText(status), status)
}

// ExceptionListener logs dispatch failures. Access denials are logged by
// the access manager and skipped here.
func ExceptionListener(log *slog.Logger) events.Listener {
	return func(ctx context.Context, e *events.Event) error {
		ex, ok := e.Data.(*Exception)
		if !ok || errors.Is(ex.Err, access.ErrAccessDenied) {
			return nil
		}

		_, panicked := middlewares.AsPanicError(ex.Err)
		log.ErrorContext(ctx, "dispatch failed",
			slog.String("path", ex.Request.URL.Path),
			slog.String("error", ex.Err.Error()),
			slog.Bool("panic", panicked),
		)
		return nil
	}
}

func newDispatcherService(h Handle) (any, error) {
	em, err := Resolve[*events.Manager](h, ServiceEvents)
	if err != nil {
		return nil, err
	}
	am, err := Resolve[*access.Manager](h, ServiceAccess)
	if err != nil {
		return nil, err
	}
	router, err := Resolve[http.Handler](h, ServiceRouter)
	if err != nil {
		return nil, err
	}
	log, err := Resolve[*slog.Logger](h, ServiceLogger)
	if err != nil {
		return nil, err
	}

	em.Attach(EventBeforeDispatch, am.Listener(), AccessPriority)
	em.Attach(EventBeforeException, ExceptionListener(log), ExceptionPriority)
	return NewDispatcher(em, router, log), nil
}
