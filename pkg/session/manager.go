package session

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/webtools/pkg/logger"
)

// Default cookie settings.
const (
	DefaultCookieName = "webtools_session"
	DefaultTTL        = 24 * time.Hour
)

type contextKey struct{}

// Manager binds sessions to requests through a cookie token.
type Manager struct {
	store    Store
	log      *slog.Logger
	name     string
	path     string
	ttl      time.Duration
	secure   bool
	sameSite http.SameSite
}

// Option configures a Manager.
type Option func(*Manager)

// WithCookieName sets the cookie name. Default: webtools_session.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.name = name
		}
	}
}

// WithCookiePath sets the cookie path. Default: /.
func WithCookiePath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithTTL sets the sliding session lifetime. Default: 24 hours.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithSecure marks the cookie Secure.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithLogger sets the logger for store failures.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates a Manager over store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		log:      logger.NewNope(),
		name:     DefaultCookieName,
		path:     "/",
		ttl:      DefaultTTL,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Load returns the session referenced by the request cookie, or a fresh one
// when the cookie is missing, malformed, unknown or expired.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	ctx := r.Context()
	if c, err := r.Cookie(m.name); err == nil {
		if _, perr := uuid.Parse(c.Value); perr != nil {
			m.log.DebugContext(ctx, "ignoring malformed session cookie", slog.Any("error", ErrInvalidToken))
		} else {
			sess, err := m.store.Get(ctx, c.Value)
			switch {
			case err == nil:
				sess.LastActiveAt = time.Now()
				sess.ExpiresAt = sess.LastActiveAt.Add(m.ttl)
				return sess, nil
			case errors.Is(err, ErrNotFound), errors.Is(err, ErrExpired):
			default:
				return nil, err
			}
		}
	}

	sess := New(uuid.NewString(), uuid.NewString(), time.Now().Add(m.ttl))
	sess.IP = clientIP(r)
	sess.UserAgent = r.UserAgent()
	return sess, nil
}

// Save persists sess, extending its lifetime.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return err
	}
	sess.saved()
	return nil
}

// Destroy deletes sess and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Path:     m.path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite,
	})
	return m.store.Delete(ctx, sess.Token)
}

// Middleware loads the session before next runs and saves it afterwards.
// New sessions are only persisted once something was written to them.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Load(r)
		if err != nil {
			m.log.ErrorContext(r.Context(), "failed to load session", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		// Headers may be flushed by next, so the cookie goes out first.
		http.SetCookie(w, &http.Cookie{
			Name:     m.name,
			Value:    sess.Token,
			Path:     m.path,
			MaxAge:   int(m.ttl.Seconds()),
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: m.sameSite,
		})

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))

		if sess.IsNew() && len(sess.Values) == 0 && len(sess.Flash) == 0 {
			return
		}
		if err := m.Save(r.Context(), sess); err != nil {
			m.log.ErrorContext(r.Context(), "failed to save session", slog.Any("error", err))
		}
	})
}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the request's session.
func FromContext(ctx context.Context) (*Session, error) {
	sess, ok := ctx.Value(contextKey{}).(*Session)
	if !ok || sess == nil {
		return nil, ErrNoSession
	}
	return sess, nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
