// Package assets collects CSS and JavaScript references and renders the
// corresponding tags. Local resources are resolved against the static URI.
package assets

import (
	"html/template"
	"sort"
	"strings"
	"sync"
)

// Resource kinds.
const (
	CSS = "css"
	JS  = "js"
)

// Resolver turns a local resource path into a link. view.URL.Static
// satisfies it.
type Resolver func(path string) string

// Resource is a single stylesheet or script.
type Resource struct {
	Kind  string
	Path  string
	Local bool
}

// Collection is an ordered, de-duplicated list of resources.
type Collection struct {
	mu        sync.RWMutex
	resources []Resource
	seen      map[string]struct{}
}

func newCollection() *Collection {
	return &Collection{seen: make(map[string]struct{})}
}

func (c *Collection) add(r Resource) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := r.Kind + "\x00" + r.Path
	if _, dup := c.seen[key]; dup {
		return c
	}
	c.seen[key] = struct{}{}
	c.resources = append(c.resources, r)
	return c
}

// AddCSS appends a stylesheet.
func (c *Collection) AddCSS(path string, local bool) *Collection {
	return c.add(Resource{Kind: CSS, Path: path, Local: local})
}

// AddJS appends a script.
func (c *Collection) AddJS(path string, local bool) *Collection {
	return c.add(Resource{Kind: JS, Path: path, Local: local})
}

// Resources returns resources of kind (all when empty) in insertion order.
func (c *Collection) Resources(kind string) []Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Resource, 0, len(c.resources))
	for _, r := range c.resources {
		if kind == "" || r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Manager holds named collections. The unnamed collection "" is the default
// one used by AddCSS, AddJS, OutputCSS and OutputJS.
type Manager struct {
	resolve     Resolver
	mu          sync.Mutex
	collections map[string]*Collection
}

// NewManager creates a Manager resolving local paths with resolve. A nil
// resolver leaves paths unchanged.
func NewManager(resolve Resolver) *Manager {
	if resolve == nil {
		resolve = func(p string) string { return p }
	}
	return &Manager{resolve: resolve, collections: map[string]*Collection{}}
}

// Collection returns the named collection, creating it on first use.
func (m *Manager) Collection(name string) *Collection {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[name]
	if !ok {
		c = newCollection()
		m.collections[name] = c
	}
	return c
}

// Names lists the collections in sorted order.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.collections))
	for n := range m.collections {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AddCSS appends a stylesheet to the default collection.
func (m *Manager) AddCSS(path string, local bool) *Collection {
	return m.Collection("").AddCSS(path, local)
}

// AddJS appends a script to the default collection.
func (m *Manager) AddJS(path string, local bool) *Collection {
	return m.Collection("").AddJS(path, local)
}

// OutputCSS renders <link> tags for the stylesheets of the named
// collections (the default collection when none is given).
func (m *Manager) OutputCSS(names ...string) template.HTML {
	return m.output(CSS, names)
}

// OutputJS renders <script> tags for the scripts of the named collections
// (the default collection when none is given).
func (m *Manager) OutputJS(names ...string) template.HTML {
	return m.output(JS, names)
}

func (m *Manager) output(kind string, names []string) template.HTML {
	if len(names) == 0 {
		names = []string{""}
	}

	var b strings.Builder
	for _, name := range names {
		for _, r := range m.Collection(name).Resources(kind) {
			href := r.Path
			if r.Local {
				href = m.resolve(r.Path)
			}
			href = template.HTMLEscapeString(href)
			switch kind {
			case CSS:
				b.WriteString(`<link rel="stylesheet" type="text/css" href="` + href + `">` + "\n")
			case JS:
				b.WriteString(`<script src="` + href + `"></script>` + "\n")
			}
		}
	}
	return template.HTML(b.String())
}
