package logger

import "log/slog"

// NewNope creates a logger that discards everything.
// Components use it as their default until a real logger is injected.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
