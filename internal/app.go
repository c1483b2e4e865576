package internal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrymomot/webtools/pkg/config"
	"github.com/dmitrymomot/webtools/pkg/logger"
)

// Default server timeouts.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

const defaultAddress = ":8080"

// App holds the bootstrap options and the service registry of the panel.
// Services are registered by New and built on first lookup.
type App struct {
	registry      *Registry
	controllers   map[string]Controller
	basePath      string
	toolsPath     string
	templatesPath string
	environment   string
	hostName      string
	address       string
	allowedIPs    []string
	extractors    []logger.ContextExtractor
	extra         []extraService
	closers       []io.Closer
	logConfig     logger.Config
	sentry        logger.SentryConfig
	noDBFallback  bool
	mu            sync.Mutex
}

type extraService struct {
	factory Factory
	name    string
	shared  bool
}

// New creates the application and registers its services. Nothing is
// constructed until it is requested.
//
//	app := internal.New(
//	    internal.WithBasePath("/srv/project"),
//	    internal.WithEnvironment("development"),
//	)
//	defer app.Close()
//	cfg, err := Resolve[*config.Config](app.Registry(), ServiceConfig)
func New(opts ...Option) *App {
	a := &App{
		registry:    NewRegistry(),
		controllers: make(map[string]Controller),
		environment: config.EnvDevelopment,
		address:     defaultAddress,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.basePath == "" {
		if wd, err := os.Getwd(); err == nil {
			a.basePath = wd
		} else {
			a.basePath = "."
		}
	}
	if a.toolsPath == "" {
		a.toolsPath = a.basePath
	}
	if a.templatesPath == "" {
		a.templatesPath = filepath.Join(a.toolsPath, "templates")
	}
	if a.hostName == "" {
		a.hostName, _ = os.Hostname()
	}
	if _, ok := a.controllers[IndexController]; !ok {
		a.controllers[IndexController] = NewIndexController()
	}

	a.registerServices()
	for _, s := range a.extra {
		a.registry.Register(s.name, s.factory, s.shared)
	}
	return a
}

// Registry returns the service registry.
func (a *App) Registry() *Registry {
	return a.registry
}

// BasePath returns the project root.
func (a *App) BasePath() string { return a.basePath }

// ToolsPath returns the panel installation directory.
func (a *App) ToolsPath() string { return a.toolsPath }

// TemplatesPath returns the code generation templates directory.
func (a *App) TemplatesPath() string { return a.templatesPath }

// Environment returns the application environment.
func (a *App) Environment() string { return a.environment }

// Address returns the listen address used by Run.
func (a *App) Address() string { return a.address }

// Close releases every constructed shared service, then the files opened
// for logging.
func (a *App) Close() error {
	err := a.registry.Close()

	a.mu.Lock()
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()

	errs := []error{err}
	for _, c := range closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func (a *App) track(c io.Closer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closers = append(a.closers, c)
}

// Run resolves the configuration and the dispatcher, then serves HTTP until
// ctx is cancelled or the process receives SIGINT or SIGTERM. The registry
// is closed during shutdown.
func (a *App) Run(ctx context.Context) error {
	if _, err := Resolve[*config.Config](a.registry, ServiceConfig); err != nil {
		return err
	}
	log, err := Resolve[*slog.Logger](a.registry, ServiceLogger)
	if err != nil {
		return err
	}
	handler, err := Resolve[http.Handler](a.registry, ServiceDispatcher)
	if err != nil {
		return err
	}

	return runServer(runtimeConfig{
		handler:         handler,
		address:         a.address,
		logger:          log,
		shutdownTimeout: defaultShutdownTimeout,
		shutdownHooks: []func(context.Context) error{
			func(context.Context) error { return a.Close() },
		},
		baseCtx: ctx,
	})
}
