// Package menu builds the panel's sidebar from a YAML definition.
//
//	- text: Models
//	  icon: fa-database
//	  link: models/list
//	- text: Migrations
//	  icon: fa-code-fork
//	  children:
//	    - text: Generate
//	      link: migrations/generate
package menu

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the sidebar definition inside the elements directory.
const FileName = "sidebar-menu.yaml"

var (
	// ErrMenuNotFound is returned when the definition file is missing.
	ErrMenuNotFound = errors.New("menu: sidebar definition not found")

	// ErrMenuParse is returned for malformed definitions.
	ErrMenuParse = errors.New("menu: failed to parse sidebar definition")
)

// Item is one sidebar entry.
type Item struct {
	Text     string `yaml:"text"`
	Icon     string `yaml:"icon,omitempty"`
	Link     string `yaml:"link,omitempty"`
	Children []Item `yaml:"children,omitempty"`
}

// Sidebar is a parsed menu.
type Sidebar struct {
	items   []Item
	resolve func(string) string
}

// Parse decodes a YAML definition. resolve maps item links to URLs
// (view.URL.Get); nil leaves links unchanged.
func Parse(data []byte, resolve func(string) string) (*Sidebar, error) {
	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, errors.Join(ErrMenuParse, err)
	}
	if resolve == nil {
		resolve = func(s string) string { return s }
	}
	return &Sidebar{items: items, resolve: resolve}, nil
}

// Load reads and parses the definition at path.
func Load(path string, resolve func(string) string) (*Sidebar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMenuNotFound, path)
		}
		return nil, err
	}
	s, err := Parse(data, resolve)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Items returns the top-level items.
func (s *Sidebar) Items() []Item {
	return s.items
}

type renderItem struct {
	Text     string
	Icon     string
	Href     string
	Active   bool
	Children []renderItem
}

var sidebarTmpl = template.Must(template.New("sidebar").Parse(
	`{{define "items"}}{{range .}}<li{{if .Active}} class="active"{{end}}>` +
		`<a href="{{if .Href}}{{.Href}}{{else}}#{{end}}">{{if .Icon}}<i class="fa {{.Icon}}"></i> {{end}}<span>{{.Text}}</span></a>` +
		`{{if .Children}}<ul class="treeview-menu">{{template "items" .Children}}</ul>{{end}}</li>{{end}}{{end}}` +
		`<ul class="sidebar-menu">{{template "items" .}}</ul>`,
))

// Render returns the sidebar markup. Items whose link matches activePath
// (and their ancestors) get the "active" class.
func (s *Sidebar) Render(activePath string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := sidebarTmpl.Execute(&buf, s.build(s.items, activePath)); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (s *Sidebar) build(items []Item, active string) []renderItem {
	out := make([]renderItem, 0, len(items))
	for _, it := range items {
		ri := renderItem{Text: it.Text, Icon: it.Icon}
		if it.Link != "" {
			ri.Href = s.resolve(it.Link)
			ri.Active = active != "" && strings.TrimSuffix(ri.Href, "/") == strings.TrimSuffix(active, "/")
		}
		ri.Children = s.build(it.Children, active)
		for _, c := range ri.Children {
			if c.Active {
				ri.Active = true
			}
		}
		out = append(out, ri)
	}
	return out
}
