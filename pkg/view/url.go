package view

import (
	"log/slog"
	"strings"

	"github.com/dmitrymomot/webtools/pkg/config"
	"github.com/dmitrymomot/webtools/pkg/logger"
)

// URL builds links relative to the panel's base and static URIs.
type URL struct {
	base   string
	static string
}

// NewURL creates a URL with the given base and static URIs. Both are
// normalized to end with a slash; empty values become "/".
func NewURL(base, static string) *URL {
	return &URL{base: withSlash(base), static: withSlash(static)}
}

// URLFromConfig reads baseUri and staticUri from the application section,
// then from the top level, defaulting to "/".
func URLFromConfig(cfg *config.Config, log *slog.Logger) *URL {
	if log == nil {
		log = logger.NewNope()
	}
	return NewURL(uri(cfg, "baseUri", log), uri(cfg, "staticUri", log))
}

func uri(cfg *config.Config, key string, log *slog.Logger) string {
	if v, ok := cfg.Path("application." + key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	if v, ok := cfg.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	log.Info("uri is not configured, using default", slog.String("key", key), slog.String("default", "/"))
	return "/"
}

func withSlash(s string) string {
	if s == "" {
		return "/"
	}
	if !strings.HasSuffix(s, "/") {
		s += "/"
	}
	return s
}

func isExternal(p string) bool {
	return strings.HasPrefix(p, "//") || strings.Contains(p, "://")
}

// BaseURI returns the base URI, always ending with a slash.
func (u *URL) BaseURI() string { return u.base }

// StaticBaseURI returns the static URI, always ending with a slash.
func (u *URL) StaticBaseURI() string { return u.static }

// Get returns the link to a panel route such as "models/list".
// Absolute URLs are returned unchanged.
func (u *URL) Get(p string) string {
	if isExternal(p) {
		return p
	}
	return u.base + strings.TrimPrefix(p, "/")
}

// Static returns the link to a static resource such as "css/app.css".
func (u *URL) Static(p string) string {
	if isExternal(p) {
		return p
	}
	return u.static + strings.TrimPrefix(p, "/")
}
