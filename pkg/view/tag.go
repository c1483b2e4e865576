package view

import (
	"html"
	"html/template"
	"strings"
)

// DoctypeHTML5 is the HTML5 document type declaration.
const DoctypeHTML5 = "<!DOCTYPE html>"

// Tag holds document-level markup defaults: doctype and title.
type Tag struct {
	doctype   string
	separator string
	title     string
}

// TagOption configures a Tag.
type TagOption func(*Tag)

// WithTitle sets the base document title.
func WithTitle(title string) TagOption {
	return func(t *Tag) { t.title = title }
}

// WithTitleSeparator sets the separator between title parts.
func WithTitleSeparator(sep string) TagOption {
	return func(t *Tag) { t.separator = sep }
}

// NewTag creates a Tag with an HTML5 doctype, " :: " separator and the
// "WebTools" title.
func NewTag(opts ...TagOption) *Tag {
	t := &Tag{
		doctype:   DoctypeHTML5,
		separator: " :: ",
		title:     "WebTools",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Doctype returns the document type declaration.
func (t *Tag) Doctype() template.HTML {
	return template.HTML(t.doctype)
}

// Title joins page-specific parts and the base title with the separator:
// Title("Models", "Edit") is "Models :: Edit :: WebTools".
func (t *Tag) Title(parts ...string) string {
	all := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		if p != "" {
			all = append(all, p)
		}
	}
	if t.title != "" {
		all = append(all, t.title)
	}
	return strings.Join(all, t.separator)
}

// TitleTag renders Title(parts...) as an escaped <title> element.
func (t *Tag) TitleTag(parts ...string) template.HTML {
	return template.HTML("<title>" + html.EscapeString(t.Title(parts...)) + "</title>")
}
