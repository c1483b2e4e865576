package webtools

import (
	"io"
	"log/slog"

	"github.com/dmitrymomot/webtools/internal"
	"github.com/dmitrymomot/webtools/pkg/logger"
)

// Type aliases - public API
type (
	// App holds the bootstrap options and the service registry of the panel.
	App = internal.App

	// Option configures the application.
	Option = internal.Option

	// Registry maps service names to lazily built services.
	Registry = internal.Registry

	// Handle is passed to service factories for resolving dependencies.
	Handle = internal.Handle

	// Factory constructs a service.
	Factory = internal.Factory

	// Directories holds the resolved project locations.
	Directories = internal.Directories

	// Controller declares the actions of one panel section.
	Controller = internal.Controller

	// ControllerFunc adapts a function to Controller.
	ControllerFunc = internal.ControllerFunc

	// Dispatcher is the entry handler of the panel.
	Dispatcher = internal.Dispatcher

	// Exception is the data of a dispatch:beforeException event.
	Exception = internal.Exception

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor
)

// Registry errors.
var (
	ErrUnknownService      = internal.ErrUnknownService
	ErrCircularDependency  = internal.ErrCircularDependency
	ErrServiceType         = internal.ErrServiceType
	ErrServiceConstruction = internal.ErrServiceConstruction
)

// Service names.
const (
	ServiceEvents       = internal.ServiceEvents
	ServiceConfig       = internal.ServiceConfig
	ServiceLogger       = internal.ServiceLogger
	ServiceViewCache    = internal.ServiceViewCache
	ServiceModelsCache  = internal.ServiceModelsCache
	ServiceDataCache    = internal.ServiceDataCache
	ServiceVolt         = internal.ServiceVolt
	ServiceView         = internal.ServiceView
	ServiceURL          = internal.ServiceURL
	ServiceTag          = internal.ServiceTag
	ServiceRouter       = internal.ServiceRouter
	ServiceDispatcher   = internal.ServiceDispatcher
	ServiceAssets       = internal.ServiceAssets
	ServiceSession      = internal.ServiceSession
	ServiceFlash        = internal.ServiceFlash
	ServiceFlashSession = internal.ServiceFlashSession
	ServiceDB           = internal.ServiceDB
	ServiceMigrator     = internal.ServiceMigrator
	ServiceAccess       = internal.ServiceAccess
	ServiceDirectories  = internal.ServiceDirectories
	ServiceFS           = internal.ServiceFS
	ServiceInfo         = internal.ServiceInfo
	ServiceDBUtils      = internal.ServiceDBUtils
	ServiceResource     = internal.ServiceResource
	ServiceSidebar      = internal.ServiceSidebar
)

// Logical directory names accepted by Directories.Lookup.
const (
	DirModels        = internal.DirModels
	DirControllers   = internal.DirControllers
	DirMigrations    = internal.DirMigrations
	DirBase          = internal.DirBase
	DirTools         = internal.DirTools
	DirTemplates     = internal.DirTemplates
	DirWebToolsViews = internal.DirWebToolsViews
	DirResources     = internal.DirResources
	DirElements      = internal.DirElements
)

// New creates the application and registers its services. Nothing is
// constructed until it is requested.
//
// Example:
//
//	app := webtools.New(
//	    webtools.WithBasePath("/srv/project"),
//	    webtools.WithAllowedIPs("10.0.0.0/8"),
//	)
//	defer app.Close()
//
//	dirs, err := webtools.Resolve[*webtools.Directories](app.Registry(), webtools.ServiceDirectories)
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// Resolve looks up name through h and asserts its type.
func Resolve[T any](h Handle, name string) (T, error) {
	return internal.Resolve[T](h, name)
}

// WithBasePath sets the root of the project the panel administers.
func WithBasePath(path string) Option { return internal.WithBasePath(path) }

// WithToolsPath sets the installation directory of the panel itself.
func WithToolsPath(path string) Option { return internal.WithToolsPath(path) }

// WithTemplatesPath sets the directory of code generation templates.
func WithTemplatesPath(path string) Option { return internal.WithTemplatesPath(path) }

// WithEnvironment sets the application environment.
func WithEnvironment(env string) Option { return internal.WithEnvironment(env) }

// WithHostName sets the host name attached to log records.
func WithHostName(host string) Option { return internal.WithHostName(host) }

// WithAllowedIPs replaces the addresses and CIDR ranges allowed to use the panel.
func WithAllowedIPs(entries ...string) Option { return internal.WithAllowedIPs(entries...) }

// WithControllers registers panel controllers under their names.
func WithControllers(controllers map[string]Controller) Option {
	return internal.WithControllers(controllers)
}

// WithLogLevel sets the minimum log level.
func WithLogLevel(level string) Option { return internal.WithLogLevel(level) }

// WithLogFormat selects "text" or "json" log records.
func WithLogFormat(format string) Option { return internal.WithLogFormat(format) }

// WithLogOutput sends log records to w.
func WithLogOutput(w io.Writer) Option { return internal.WithLogOutput(w) }

// WithLogExtractors adds context extractors to the logger.
func WithLogExtractors(extractors ...ContextExtractor) Option {
	return internal.WithLogExtractors(extractors...)
}

// WithSentry forwards warnings and errors to Sentry.
func WithSentry(dsn string, minLevel slog.Level) Option {
	return internal.WithSentry(dsn, minLevel)
}

// WithoutDatabaseFallback disables the temporary SQLite database used when
// no database is configured.
func WithoutDatabaseFallback() Option { return internal.WithoutDatabaseFallback() }

// WithAddress sets the listen address used by Run.
func WithAddress(addr string) Option { return internal.WithAddress(addr) }

// WithService registers an additional factory or replaces a built-in one.
func WithService(name string, f Factory, shared bool) Option {
	return internal.WithService(name, f, shared)
}
