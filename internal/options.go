package internal

import (
	"io"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/webtools/pkg/logger"
)

// Option configures the application.
type Option func(*App)

// WithBasePath sets the root of the project the panel administers.
// Defaults to the working directory.
func WithBasePath(path string) Option {
	return func(a *App) {
		if path != "" {
			a.basePath = path
		}
	}
}

// WithToolsPath sets the installation directory of the panel itself.
// Defaults to the base path.
func WithToolsPath(path string) Option {
	return func(a *App) {
		if path != "" {
			a.toolsPath = path
		}
	}
}

// WithTemplatesPath sets the directory of code generation templates.
// Defaults to <tools>/templates.
func WithTemplatesPath(path string) Option {
	return func(a *App) {
		if path != "" {
			a.templatesPath = path
		}
	}
}

// WithEnvironment sets the application environment. Anything other than
// "production" loads the matching configuration override.
func WithEnvironment(env string) Option {
	return func(a *App) {
		if env != "" {
			a.environment = env
		}
	}
}

// WithHostName sets the host name attached to log records and system info.
func WithHostName(host string) Option {
	return func(a *App) {
		a.hostName = host
	}
}

// WithAllowedIPs replaces the addresses and CIDR ranges allowed to use the
// panel. Without this option only loopback clients are allowed.
//
//	internal.WithAllowedIPs("10.0.0.0/8", "192.168.1.15")
func WithAllowedIPs(entries ...string) Option {
	return func(a *App) {
		a.allowedIPs = append([]string(nil), entries...)
	}
}

// WithControllers registers panel controllers under their names.
// A controller named "index" is also mounted at the base URI.
func WithControllers(controllers map[string]Controller) Option {
	return func(a *App) {
		for name, c := range controllers {
			a.controllers[strings.Trim(name, "/")] = c
		}
	}
}

// WithLogLevel sets the minimum log level ("debug", "info", "warn", "error").
func WithLogLevel(level string) Option {
	return func(a *App) {
		a.logConfig.Level = logger.ParseLevel(level)
	}
}

// WithLogFormat selects "text" (default) or "json" log records.
func WithLogFormat(format string) Option {
	return func(a *App) {
		a.logConfig.Format = format
	}
}

// WithLogOutput sends log records to w instead of the devtools log file
// or stderr.
func WithLogOutput(w io.Writer) Option {
	return func(a *App) {
		a.logConfig.Output = w
	}
}

// WithLogExtractors adds context extractors to the logger.
func WithLogExtractors(extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.extractors = append(a.extractors, extractors...)
	}
}

// WithSentry forwards warnings and errors to Sentry. An empty DSN is ignored.
func WithSentry(dsn string, minLevel slog.Level) Option {
	return func(a *App) {
		a.sentry = logger.SentryConfig{DSN: dsn, MinLevel: minLevel}
	}
}

// WithoutDatabaseFallback makes the db service fail when no database is
// configured instead of opening a temporary SQLite file.
func WithoutDatabaseFallback() Option {
	return func(a *App) {
		a.noDBFallback = true
	}
}

// WithAddress sets the listen address used by Run. Defaults to ":8080".
func WithAddress(addr string) Option {
	return func(a *App) {
		if addr != "" {
			a.address = addr
		}
	}
}

// WithService registers an additional factory or replaces a built-in one.
func WithService(name string, f Factory, shared bool) Option {
	return func(a *App) {
		a.extra = append(a.extra, extraService{name: name, factory: f, shared: shared})
	}
}
