package view

import (
	"html/template"

	"github.com/dmitrymomot/webtools/pkg/sanitizer"
)

// Funcs returns the template functions every panel template can use:
// url, static, title, titleTag, doctype and sanitize.
func Funcs(u *URL, t *Tag) template.FuncMap {
	return template.FuncMap{
		"url":      u.Get,
		"static":   u.Static,
		"title":    t.Title,
		"titleTag": t.TitleTag,
		"doctype":  t.Doctype,
		"sanitize": func(s string) template.HTML {
			return template.HTML(sanitizer.Message(s))
		},
	}
}
