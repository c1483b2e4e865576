// Package logger builds the structured loggers used by webtools.
//
// All loggers are plain *slog.Logger values. The package adds three things
// on top of log/slog: a small factory that picks the handler format and level
// from strings (as they come from flags and environment variables), context
// extractors that copy request-scoped values such as request IDs into every
// record, and an optional Sentry sink.
//
// # Basic Usage
//
//	log := logger.New(logger.Config{
//		Output: os.Stderr,
//		Level:  logger.ParseLevel("debug"),
//		Format: logger.FormatText,
//		Attrs:  []slog.Attr{slog.String("host", host)},
//	}, requestIDExtractor)
//
// # Context Extractors
//
// A ContextExtractor pulls one attribute out of a context:
//
//	func(ctx context.Context) (slog.Attr, bool)
//
// Extractors run on every log call, so values are always fresh. Returning
// false skips the attribute for that record.
//
// # Sentry
//
// NewWithSentry sends warnings and errors to Sentry in addition to the base
// handler. With an empty DSN, or when the SDK fails to initialize, it falls
// back to the base handler alone so the same code path works in development.
package logger
