package view

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/webtools/pkg/cache"
	"github.com/dmitrymomot/webtools/pkg/events"
	"github.com/dmitrymomot/webtools/pkg/fsutil"
	"github.com/dmitrymomot/webtools/pkg/logger"
)

// EventNotFound is fired when a requested template does not exist.
const EventNotFound = "view:notFoundView"

// LayoutData is passed to layout templates.
type LayoutData struct {
	// Content is the rendered action template.
	Content template.HTML
	// Data is the value passed to Render.
	Data any
}

// View renders controller actions from a views directory: the action
// template <views>/<controller>/<action>.html is rendered first, then the
// controller layout <views>/<layouts>/<controller>.html when it exists.
type View struct {
	engine     *Engine
	viewsDir   string
	layoutsDir string
	em         *events.Manager
	log        *slog.Logger
	cache      cache.Cache[string]
}

// Option configures a View.
type Option func(*View)

// WithLayoutsDir sets the layouts directory relative to the views
// directory. Default: layouts.
func WithLayoutsDir(dir string) Option {
	return func(v *View) { v.layoutsDir = dir }
}

// WithEvents fires view events on em.
func WithEvents(em *events.Manager) Option {
	return func(v *View) { v.em = em }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(v *View) {
		if log != nil {
			v.log = log
		}
	}
}

// WithCache caches fragments rendered with CachedPartial.
func WithCache(c cache.Cache[string]) Option {
	return func(v *View) { v.cache = c }
}

// New creates a View over viewsDir.
func New(engine *Engine, viewsDir string, opts ...Option) *View {
	v := &View{
		engine:     engine,
		viewsDir:   fsutil.Normalize(viewsDir),
		layoutsDir: "layouts",
		log:        logger.NewNope(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ViewsDir returns the views directory.
func (v *View) ViewsDir() string {
	return v.viewsDir
}

// Render writes the action template, wrapped in the controller layout if
// one exists, to w.
func (v *View) Render(ctx context.Context, w io.Writer, controller, action string, data any) error {
	var content bytes.Buffer
	if err := v.execute(ctx, &content, filepath.Join(controller, action), data); err != nil {
		return err
	}

	layout := v.path(filepath.Join(v.layoutsDir, controller))
	if !fsutil.IsReadableFile(layout) {
		_, err := w.Write(content.Bytes())
		return err
	}
	return v.engine.Execute(w, layout, LayoutData{
		Content: template.HTML(content.String()),
		Data:    data,
	})
}

// Partial renders the template name (relative to the views directory,
// without extension) into w.
func (v *View) Partial(ctx context.Context, w io.Writer, name string, data any) error {
	return v.execute(ctx, w, name, data)
}

// CachedPartial renders name once per key and serves later calls from the
// fragment cache for ttl. Without a cache it behaves like Partial.
func (v *View) CachedPartial(ctx context.Context, key, name string, data any, ttl time.Duration) (template.HTML, error) {
	if v.cache != nil {
		if s, err := v.cache.Get(ctx, key); err == nil {
			return template.HTML(s), nil
		}
	}

	var buf bytes.Buffer
	if err := v.execute(ctx, &buf, name, data); err != nil {
		return "", err
	}
	if v.cache != nil {
		if err := v.cache.Set(ctx, key, buf.String(), ttl); err != nil {
			v.log.WarnContext(ctx, "unable to cache view fragment", slog.String("key", key), slog.Any("error", err))
		}
	}
	return template.HTML(buf.String()), nil
}

// Component adapts an action render to templ.
func (v *View) Component(controller, action string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return v.Render(ctx, w, controller, action, data)
	})
}

// Exists reports whether the template name exists.
func (v *View) Exists(name string) bool {
	return fsutil.IsReadableFile(v.path(name))
}

func (v *View) path(name string) string {
	return filepath.Join(v.viewsDir, name+TemplateExt)
}

func (v *View) execute(ctx context.Context, w io.Writer, name string, data any) error {
	p := v.path(name)
	err := v.engine.Execute(w, p, data)
	if errors.Is(err, ErrViewNotFound) && v.em != nil {
		if ferr := v.em.Fire(ctx, EventNotFound, v, p); ferr != nil && !errors.Is(ferr, events.ErrStopped) {
			return errors.Join(err, ferr)
		}
	}
	return err
}

// NotFoundListener logs missing templates. Attach it to the "view"
// component.
func NotFoundListener(log *slog.Logger) events.Listener {
	return func(ctx context.Context, e *events.Event) error {
		if e.Action() != "notFoundView" {
			return nil
		}
		path, _ := e.Data.(string)
		log.WarnContext(ctx, "view not found", slog.String("path", path))
		return nil
	}
}
