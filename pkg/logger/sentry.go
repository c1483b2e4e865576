package logger

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration settings.
type SentryConfig struct {
	DSN         string
	Environment string
	// MinLevel selects what is stored as Sentry logs: slog.LevelError keeps
	// only errors, anything lower keeps warnings and errors.
	// Errors always create Sentry issues.
	MinLevel slog.Level
}

// NewWithSentry creates a logger writing to the base handler described by
// base and, when a DSN is set, to Sentry as well.
func NewWithSentry(sc SentryConfig, base Config, extractors ...ContextExtractor) *slog.Logger {
	baseHandler := newHandler(base)

	if sc.DSN == "" {
		return slog.New(NewContextHandler(baseHandler, extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         sc.DSN,
		Environment: sc.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(baseHandler).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return slog.New(NewContextHandler(baseHandler, extractors...))
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if sc.MinLevel >= slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return slog.New(NewContextHandler(fanout{baseHandler, sentryHandler}, extractors...))
}
