// Package flash renders one-off status messages ("Model created",
// "Migration failed") as Bootstrap alerts.
//
// Direct renders messages immediately. Session queues them in the request's
// session so they survive a redirect and are rendered on the next page.
package flash

import (
	"context"
	"html"
	"html/template"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/webtools/pkg/sanitizer"
)

// Message kinds.
const (
	Error   = "error"
	Success = "success"
	Notice  = "notice"
	Warning = "warning"
)

// DefaultClasses maps message kinds to the CSS classes of the alert box.
var DefaultClasses = map[string]string{
	Error:   "alert alert-danger fade in",
	Success: "alert alert-success fade in",
	Notice:  "alert alert-info fade in",
	Warning: "alert alert-warning fade in",
}

// Option configures a flasher.
type Option func(*formatter)

// WithClasses replaces the kind to CSS class mapping.
func WithClasses(classes map[string]string) Option {
	return func(f *formatter) {
		f.classes = maps.Clone(classes)
	}
}

// WithAutoescape escapes messages instead of sanitizing them. Messages are
// sanitized by default so inline formatting survives.
func WithAutoescape(on bool) Option {
	return func(f *formatter) {
		f.autoescape = on
	}
}

type formatter struct {
	classes    map[string]string
	autoescape bool
}

func newFormatter(opts ...Option) formatter {
	f := formatter{classes: maps.Clone(DefaultClasses)}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func (f formatter) format(kind, message string) string {
	if f.autoescape {
		message = html.EscapeString(message)
	} else {
		message = sanitizer.Message(message)
	}

	var b strings.Builder
	if class := f.classes[kind]; class != "" {
		b.WriteString(`<div class="`)
		b.WriteString(html.EscapeString(class))
		b.WriteString(`">`)
	} else {
		b.WriteString("<div>")
	}
	b.WriteString(message)
	b.WriteString("</div>\n")
	return b.String()
}

// kinds returns the keys of msgs with the known kinds first, in their
// canonical order, and unknown kinds sorted after them.
func kinds(msgs map[string][]string) []string {
	out := make([]string, 0, len(msgs))
	for _, k := range []string{Error, Warning, Notice, Success} {
		if _, ok := msgs[k]; ok {
			out = append(out, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(msgs)) {
		if _, known := DefaultClasses[k]; !known {
			out = append(out, k)
		}
	}
	return out
}

// Direct renders messages right away.
type Direct struct {
	f formatter
}

// NewDirect creates a Direct flasher.
func NewDirect(opts ...Option) *Direct {
	return &Direct{f: newFormatter(opts...)}
}

// HTML returns the alert markup for one message.
func (d *Direct) HTML(kind, message string) template.HTML {
	return template.HTML(d.f.format(kind, message))
}

// Message writes the alert markup for one message to w.
func (d *Direct) Message(w io.Writer, kind, message string) error {
	_, err := io.WriteString(w, d.f.format(kind, message))
	return err
}

// Component returns a templ component rendering one message.
func (d *Direct) Component(kind, message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return d.Message(w, kind, message)
	})
}
