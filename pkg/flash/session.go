package flash

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/webtools/pkg/session"
)

// Session queues messages in the session found in the request context.
// It requires session.Manager.Middleware upstream.
type Session struct {
	f formatter
}

// NewSession creates a session-backed flasher.
func NewSession(opts ...Option) *Session {
	return &Session{f: newFormatter(opts...)}
}

// Message queues a message of kind.
func (s *Session) Message(ctx context.Context, kind, message string) error {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return err
	}
	sess.AddFlash(kind, message)
	return nil
}

// Error queues an error message.
func (s *Session) Error(ctx context.Context, message string) error {
	return s.Message(ctx, Error, message)
}

// Success queues a success message.
func (s *Session) Success(ctx context.Context, message string) error {
	return s.Message(ctx, Success, message)
}

// Notice queues a notice message.
func (s *Session) Notice(ctx context.Context, message string) error {
	return s.Message(ctx, Notice, message)
}

// Warning queues a warning message.
func (s *Session) Warning(ctx context.Context, message string) error {
	return s.Message(ctx, Warning, message)
}

// Has reports whether messages of kind (any kind when empty) are queued.
func (s *Session) Has(ctx context.Context, kind string) bool {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return false
	}
	return sess.HasFlash(kind)
}

// Messages returns queued messages of kind (all when empty), removing them
// when remove is set.
func (s *Session) Messages(ctx context.Context, kind string, remove bool) (map[string][]string, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return sess.Flashes(kind, remove), nil
}

// Output renders and removes every queued message.
func (s *Session) Output(ctx context.Context, w io.Writer) error {
	msgs, err := s.Messages(ctx, "", true)
	if err != nil {
		return err
	}
	for _, kind := range kinds(msgs) {
		for _, m := range msgs[kind] {
			if _, err := io.WriteString(w, s.f.format(kind, m)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Component renders and removes every queued message. Without a session in
// the context it renders nothing.
func (s *Session) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := session.FromContext(ctx); err != nil {
			return nil
		}
		return s.Output(ctx, w)
	})
}
