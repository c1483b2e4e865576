package health

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/webtools/pkg/logger"
)

const defaultTimeout = 5 * time.Second

// Aggregate and per-check statuses.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc probes one dependency, e.g. db.Healthcheck or redis.Healthcheck.
type CheckFunc func(ctx context.Context) error

// Checks maps a dependency name to its probe.
type Checks map[string]CheckFunc

// Response is the aggregate readiness report.
type Response struct {
	Status string           `json:"status"`
	Checks map[string]Check `json:"checks,omitempty"`
}

// Check is the outcome of a single probe.
type Check struct {
	Status string `json:"status"`
	Took   string `json:"took,omitempty"`
	Error  string `json:"error,omitempty"`
}

type runner struct {
	log     *slog.Logger
	timeout time.Duration
}

// Option configures Run and ReadinessHandler.
type Option func(*runner)

// WithTimeout bounds the whole run; every check shares the deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger logs failed checks at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) {
		if l != nil {
			r.log = l
		}
	}
}

func newRunner(opts ...Option) *runner {
	r := &runner{timeout: defaultTimeout, log: logger.NewNope()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes checks concurrently. The result is unhealthy when at least
// one check failed; no checks at all means healthy.
func Run(ctx context.Context, checks Checks, opts ...Option) *Response {
	return newRunner(opts...).run(ctx, checks)
}

func (r *runner) run(ctx context.Context, checks Checks) *Response {
	resp := &Response{Status: StatusHealthy}
	if len(checks) == 0 {
		return resp
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var mu sync.Mutex
	resp.Checks = make(map[string]Check, len(checks))

	var g errgroup.Group
	for name, check := range checks {
		g.Go(func() error {
			c := r.probe(ctx, name, check)
			mu.Lock()
			resp.Checks[name] = c
			if c.Status == StatusUnhealthy {
				resp.Status = StatusUnhealthy
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return resp
}

func (r *runner) probe(ctx context.Context, name string, check CheckFunc) Check {
	start := time.Now()
	err := check(ctx)
	took := time.Since(start).Round(time.Microsecond).String()
	if err == nil {
		return Check{Status: StatusHealthy, Took: took}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		err = errors.Join(ErrCheckTimeout, err)
	}
	r.log.WarnContext(ctx, "health check failed", slog.String("check", name), slog.Any("error", err))
	return Check{Status: StatusUnhealthy, Took: took, Error: err.Error()}
}
