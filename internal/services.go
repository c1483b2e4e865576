package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/webtools/middlewares"
	"github.com/dmitrymomot/webtools/pkg/access"
	"github.com/dmitrymomot/webtools/pkg/assets"
	"github.com/dmitrymomot/webtools/pkg/cache"
	"github.com/dmitrymomot/webtools/pkg/config"
	"github.com/dmitrymomot/webtools/pkg/db"
	"github.com/dmitrymomot/webtools/pkg/events"
	"github.com/dmitrymomot/webtools/pkg/flash"
	"github.com/dmitrymomot/webtools/pkg/fsutil"
	"github.com/dmitrymomot/webtools/pkg/logger"
	"github.com/dmitrymomot/webtools/pkg/menu"
	"github.com/dmitrymomot/webtools/pkg/redis"
	"github.com/dmitrymomot/webtools/pkg/session"
	"github.com/dmitrymomot/webtools/pkg/sysinfo"
	"github.com/dmitrymomot/webtools/pkg/view"
)

// Service names.
const (
	ServiceEvents       = "eventsManager"
	ServiceConfig       = "config"
	ServiceLogger       = "logger"
	ServiceViewCache    = "viewCache"
	ServiceModelsCache  = "modelsCache"
	ServiceDataCache    = "dataCache"
	ServiceVolt         = "volt"
	ServiceView         = "view"
	ServiceURL          = "url"
	ServiceTag          = "tag"
	ServiceRouter       = "router"
	ServiceDispatcher   = "dispatcher"
	ServiceAssets       = "assets"
	ServiceSession      = "session"
	ServiceFlash        = "flash"
	ServiceFlashSession = "flashSession"
	ServiceDB           = "db"
	ServiceMigrator     = "migrator"
	ServiceAccess       = "access"
	ServiceDirectories  = "registry"
	ServiceFS           = "fs"
	ServiceInfo         = "info"
	ServiceDBUtils      = "dbUtils"
	ServiceResource     = "resource"
	ServiceSidebar      = "sidebar"
	ServiceRedis        = "redis"
)

// Event names fired by the bootstrap services.
const (
	EventDBConnected = "db:afterConnect"
)

const (
	logDirName         = ".webtools"
	logFileName        = "devtools.log"
	fallbackDBFileName = "webtools.sqlite"
	defaultCacheTTL    = time.Hour
	connectTimeout     = 30 * time.Second
)

func (a *App) registerServices() {
	r := a.registry

	r.SetShared(ServiceEvents, func(Handle) (any, error) {
		return events.New(events.WithPriorities()), nil
	})
	r.SetShared(ServiceLogger, a.newLogger)
	r.SetShared(ServiceConfig, a.newConfig)
	r.SetShared(ServiceFS, func(h Handle) (any, error) {
		log, err := Resolve[*slog.Logger](h, ServiceLogger)
		if err != nil {
			return nil, err
		}
		return fsutil.New(fsutil.WithLogger(log)), nil
	})
	r.SetShared(ServiceDirectories, a.newDirectories)
	r.SetShared(ServiceInfo, func(Handle) (any, error) {
		return sysinfo.New(a.hostName, a.environment), nil
	})

	r.SetShared(ServiceRedis, newRedis)
	r.Set(ServiceViewCache, func(h Handle) (any, error) {
		return newCache[string](h, "view")
	})
	r.SetShared(ServiceModelsCache, func(h Handle) (any, error) {
		return newCache[[]string](h, "models")
	})
	r.SetShared(ServiceDataCache, func(h Handle) (any, error) {
		return newCache[map[string]any](h, "data")
	})

	r.SetShared(ServiceURL, func(h Handle) (any, error) {
		cfg, err := Resolve[*config.Config](h, ServiceConfig)
		if err != nil {
			return nil, err
		}
		log, err := Resolve[*slog.Logger](h, ServiceLogger)
		if err != nil {
			return nil, err
		}
		return view.URLFromConfig(cfg, log), nil
	})
	r.SetShared(ServiceTag, func(Handle) (any, error) {
		return view.NewTag(), nil
	})
	r.SetShared(ServiceVolt, a.newVolt)
	r.SetShared(ServiceView, newView)
	r.SetShared(ServiceAssets, func(h Handle) (any, error) {
		u, err := Resolve[*view.URL](h, ServiceURL)
		if err != nil {
			return nil, err
		}
		return assets.NewManager(u.Static), nil
	})
	r.SetShared(ServiceSidebar, func(h Handle) (any, error) {
		dirs, err := Resolve[*Directories](h, ServiceDirectories)
		if err != nil {
			return nil, err
		}
		u, err := Resolve[*view.URL](h, ServiceURL)
		if err != nil {
			return nil, err
		}
		return menu.Load(filepath.Join(dirs.ElementsDir, menu.FileName), u.Get)
	})
	r.SetShared(ServiceResource, func(h Handle) (any, error) {
		dirs, err := Resolve[*Directories](h, ServiceDirectories)
		if err != nil {
			return nil, err
		}
		return staticFiles(dirs.ResourcesDir), nil
	})

	r.SetShared(ServiceSession, a.newSession)
	r.SetShared(ServiceFlash, func(Handle) (any, error) {
		return flash.NewDirect(), nil
	})
	r.SetShared(ServiceFlashSession, func(Handle) (any, error) {
		return flash.NewSession(), nil
	})

	r.SetShared(ServiceDB, a.newDB)
	r.SetShared(ServiceMigrator, func(h Handle) (any, error) {
		conn, err := Resolve[*db.Connection](h, ServiceDB)
		if err != nil {
			return nil, err
		}
		dirs, err := Resolve[*Directories](h, ServiceDirectories)
		if err != nil {
			return nil, err
		}
		log, err := Resolve[*slog.Logger](h, ServiceLogger)
		if err != nil {
			return nil, err
		}
		return db.NewMigrator(conn, dirs.MigrationsDir, log)
	})
	r.SetShared(ServiceDBUtils, func(h Handle) (any, error) {
		conn, err := Resolve[*db.Connection](h, ServiceDB)
		if err != nil {
			return nil, err
		}
		c, err := Resolve[cache.Cache[[]string]](h, ServiceModelsCache)
		if err != nil {
			return nil, err
		}
		return db.NewUtils(conn, c, 0), nil
	})

	r.SetShared(ServiceAccess, a.newAccess)
	r.SetShared(ServiceRouter, a.newRouter)
	r.SetShared(ServiceDispatcher, newDispatcherService)
}

func (a *App) newLogger(Handle) (any, error) {
	cfg := a.logConfig
	if cfg.Output == nil {
		dir := filepath.Join(a.basePath, logDirName)
		if fsutil.IsWritableDir(dir) {
			if f, err := logger.OpenFile(filepath.Join(dir, logFileName)); err == nil {
				cfg.Output = f
				a.track(f)
			}
		}
	}
	if a.hostName != "" {
		cfg.Attrs = append(cfg.Attrs, slog.String("host", a.hostName))
	}

	extractors := append([]logger.ContextExtractor{middlewares.RequestIDExtractor()}, a.extractors...)
	sc := a.sentry
	sc.Environment = a.environment
	return logger.NewWithSentry(sc, cfg, extractors...), nil
}

func (a *App) newConfig(h Handle) (any, error) {
	log, err := Resolve[*slog.Logger](h, ServiceLogger)
	if err != nil {
		return nil, err
	}
	return config.Load(a.basePath, a.environment, log)
}

func (a *App) newDirectories(h Handle) (any, error) {
	cfg, err := Resolve[*config.Config](h, ServiceConfig)
	if err != nil {
		return nil, err
	}
	log, err := Resolve[*slog.Logger](h, ServiceLogger)
	if err != nil {
		return nil, err
	}
	return ResolveDirectories(a.basePath, a.toolsPath, a.templatesPath, cfg, log), nil
}

func newRedis(h Handle) (any, error) {
	cfg, err := Resolve[*config.Config](h, ServiceConfig)
	if err != nil {
		return nil, err
	}
	log, err := Resolve[*slog.Logger](h, ServiceLogger)
	if err != nil {
		return nil, err
	}

	section, _ := cfg.Sub("redis")
	url, opts := redis.FromConfig(section)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return redis.Open(ctx, url, append(opts, redis.WithLogger(log))...)
}

// newCache builds the backend selected by cache.adapter. Entries are
// namespaced by prefix so that clearing one cache leaves the others alone.
func newCache[V any](h Handle, prefix string) (cache.Cache[V], error) {
	cfg, err := Resolve[*config.Config](h, ServiceConfig)
	if err != nil {
		return nil, err
	}
	section, _ := cfg.Sub("cache")
	return backend[V](h, section, prefix)
}

func backend[V any](h Handle, section *config.Config, prefix string) (cache.Cache[V], error) {
	kind, err := cache.ParseKind(section.String("adapter", ""))
	if err != nil {
		return nil, err
	}

	opts := []cache.Option{
		cache.WithPrefix(prefix),
		cache.WithDefaultTTL(section.Duration("lifetime", defaultCacheTTL)),
	}

	switch kind {
	case cache.KindRedis:
		client, err := Resolve[goredis.UniversalClient](h, ServiceRedis)
		if err != nil {
			return nil, err
		}
		return cache.NewRedis[V](client, nil, opts...), nil
	default:
		return cache.NewMemory[V](opts...), nil
	}
}

func (a *App) newVolt(h Handle) (any, error) {
	cfg, err := Resolve[*config.Config](h, ServiceConfig)
	if err != nil {
		return nil, err
	}
	log, err := Resolve[*slog.Logger](h, ServiceLogger)
	if err != nil {
		return nil, err
	}
	fs, err := Resolve[*fsutil.FS](h, ServiceFS)
	if err != nil {
		return nil, err
	}
	u, err := Resolve[*view.URL](h, ServiceURL)
	if err != nil {
		return nil, err
	}
	tag, err := Resolve[*view.Tag](h, ServiceTag)
	if err != nil {
		return nil, err
	}

	opts := view.EngineOptionsFromConfig(cfg, a.environment == config.EnvDevelopment)
	return view.NewEngine(opts, a.basePath, a.toolsPath, fs,
		view.WithFuncs(view.Funcs(u, tag)),
		view.WithEngineLogger(log),
	), nil
}

func newView(h Handle) (any, error) {
	dirs, err := Resolve[*Directories](h, ServiceDirectories)
	if err != nil {
		return nil, err
	}
	engine, err := Resolve[*view.Engine](h, ServiceVolt)
	if err != nil {
		return nil, err
	}
	em, err := Resolve[*events.Manager](h, ServiceEvents)
	if err != nil {
		return nil, err
	}
	log, err := Resolve[*slog.Logger](h, ServiceLogger)
	if err != nil {
		return nil, err
	}
	c, err := Resolve[cache.Cache[string]](h, ServiceViewCache)
	if err != nil {
		return nil, err
	}

	em.Attach("view", view.NotFoundListener(log), 0)
	return view.New(engine, dirs.WebToolsViews,
		view.WithEvents(em),
		view.WithLogger(log),
		view.WithCache(c),
	), nil
}

func (a *App) newSession(h Handle) (any, error) {
	cfg, err := Resolve[*config.Config](h, ServiceConfig)
	if err != nil {
		return nil, err
	}
	log, err := Resolve[*slog.Logger](h, ServiceLogger)
	if err != nil {
		return nil, err
	}
	u, err := Resolve[*view.URL](h, ServiceURL)
	if err != nil {
		return nil, err
	}

	section, _ := cfg.Sub("session")
	store, err := backend[session.Session](h, section, "session")
	if err != nil {
		return nil, err
	}

	return session.NewManager(session.NewCacheStore(store),
		session.WithCookieName(section.String("name", session.DefaultCookieName)),
		session.WithCookiePath(u.BaseURI()),
		session.WithTTL(section.Duration("lifetime", session.DefaultTTL)),
		session.WithSecure(section.Bool("secure", a.environment == config.EnvProduction)),
		session.WithLogger(log),
	), nil
}

func (a *App) newDB(h Handle) (any, error) {
	cfg, err := Resolve[*config.Config](h, ServiceConfig)
	if err != nil {
		return nil, err
	}
	log, err := Resolve[*slog.Logger](h, ServiceLogger)
	if err != nil {
		return nil, err
	}
	em, err := Resolve[*events.Manager](h, ServiceEvents)
	if err != nil {
		return nil, err
	}

	section, _ := cfg.Sub("database")
	dbCfg, err := db.FromConfig(section, a.basePath)
	if errors.Is(err, db.ErrDatabaseNotConfigured) && a.databaseFallback(cfg) {
		path := filepath.Join(os.TempDir(), fallbackDBFileName)
		log.Warn("database is not configured, using temporary sqlite database", slog.String("path", path))
		dbCfg, err = db.SQLiteConfig(path), nil
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	conn, err := db.Open(ctx, dbCfg, log)
	if err != nil {
		return nil, err
	}
	if err := em.Fire(ctx, EventDBConnected, a, conn); err != nil && !errors.Is(err, events.ErrStopped) {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

func (a *App) databaseFallback(cfg *config.Config) bool {
	return !a.noDBFallback && !cfg.Bool("application.disableDatabaseFallback", false)
}

func (a *App) newAccess(h Handle) (any, error) {
	log, err := Resolve[*slog.Logger](h, ServiceLogger)
	if err != nil {
		return nil, err
	}
	p, err := access.ParsePolicy(a.allowedIPs...)
	if err != nil {
		return nil, err
	}
	return access.NewManager(p, log), nil
}

// staticFiles serves dir without directory listings.
func staticFiles(dir string) http.Handler {
	files := http.FileServerFS(os.DirFS(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	})
}
