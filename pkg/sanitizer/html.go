// Package sanitizer cleans untrusted HTML before it reaches panel markup.
package sanitizer

import (
	"github.com/microcosm-cc/bluemonday"
)

// Policies are safe for concurrent use once built.
var (
	textPolicy    = bluemonday.StrictPolicy()
	messagePolicy = newMessagePolicy()
)

// newMessagePolicy allows the inline markup flash messages and notices use,
// e.g. "Model <strong>users</strong> was created".
func newMessagePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowElements("p", "br", "span", "strong", "b", "em", "i", "code", "pre")
	p.AllowLists()
	p.AllowAttrs("href", "title").OnElements("a")
	p.RequireNoFollowOnLinks(true)
	return p
}

// Text removes all markup and returns plain text.
func Text(s string) string {
	return textPolicy.Sanitize(s)
}

// Message keeps inline formatting, lists and links. Scripts, event
// handlers and javascript: URLs are dropped.
func Message(s string) string {
	return messagePolicy.Sanitize(s)
}
