package internal

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/webtools/middlewares"
	"github.com/dmitrymomot/webtools/pkg/cache"
	"github.com/dmitrymomot/webtools/pkg/config"
	"github.com/dmitrymomot/webtools/pkg/db"
	"github.com/dmitrymomot/webtools/pkg/health"
	"github.com/dmitrymomot/webtools/pkg/redis"
	"github.com/dmitrymomot/webtools/pkg/session"
	"github.com/dmitrymomot/webtools/pkg/view"
)

// Health check paths, relative to the base URI.
const (
	LivenessPath  = "/health/live"
	ReadinessPath = "/health/ready"
)

// resourcesPrefix is where the panel resources are served, relative to the
// static URI.
const resourcesPrefix = "resources/"

func (a *App) newRouter(h Handle) (any, error) {
	cfg, err := Resolve[*config.Config](h, ServiceConfig)
	if err != nil {
		return nil, err
	}
	u, err := Resolve[*view.URL](h, ServiceURL)
	if err != nil {
		return nil, err
	}
	log, err := Resolve[*slog.Logger](h, ServiceLogger)
	if err != nil {
		return nil, err
	}
	sess, err := Resolve[*session.Manager](h, ServiceSession)
	if err != nil {
		return nil, err
	}
	resources, err := Resolve[http.Handler](h, ServiceResource)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(
		middleware.CleanPath,
		middleware.StripSlashes,
		middlewares.RequestID(),
		sess.Middleware,
	)

	// Resources on an external static host are not served here.
	if static := u.Static(resourcesPrefix); isLocal(static) {
		r.Handle(static+"*", http.StripPrefix(static, resources))
	}

	base := strings.TrimSuffix(u.BaseURI(), "/")
	mount := func(sub chi.Router) {
		sub.Get(LivenessPath, health.LivenessHandler())
		sub.Get(ReadinessPath, health.ReadinessHandler(a.readinessChecks(h, cfg),
			health.WithLogger(log),
		))

		for _, name := range a.controllerNames() {
			c := a.controllers[name]
			sub.Route("/"+name, func(cr chi.Router) { c.Routes(cr, h) })
		}
		if index, ok := a.controllers[IndexController]; ok {
			sub.Group(func(gr chi.Router) { index.Routes(gr, h) })
		}
	}

	if base == "" || !isLocal(base) {
		mount(r)
	} else {
		r.Route(base, mount)
	}
	return r, nil
}

// readinessChecks resolves the backing services lazily so that an
// unreachable server makes the probe fail instead of the router.
func (a *App) readinessChecks(h Handle, cfg *config.Config) health.Checks {
	checks := health.Checks{
		"db": func(ctx context.Context) error {
			conn, err := Resolve[*db.Connection](h, ServiceDB)
			if err != nil {
				return err
			}
			return db.Healthcheck(conn)(ctx)
		},
	}

	if usesRedis(cfg) {
		checks["redis"] = func(ctx context.Context) error {
			client, err := Resolve[goredis.UniversalClient](h, ServiceRedis)
			if err != nil {
				return err
			}
			return redis.Healthcheck(client)(ctx)
		}
	}
	return checks
}

func usesRedis(cfg *config.Config) bool {
	for _, key := range []string{"cache.adapter", "session.adapter"} {
		if kind, err := cache.ParseKind(cfg.String(key, "")); err == nil && kind == cache.KindRedis {
			return true
		}
	}
	return false
}

func (a *App) controllerNames() []string {
	names := make([]string, 0, len(a.controllers))
	for name := range a.controllers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func isLocal(uri string) bool {
	return strings.HasPrefix(uri, "/") && !strings.HasPrefix(uri, "//")
}
