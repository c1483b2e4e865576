package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Config is a nested configuration tree.
// The zero value and the nil pointer are valid empty configurations for
// reading; use New before calling Merge or Set.
type Config struct {
	data map[string]any
}

// New creates a Config holding a deep, normalized copy of data.
func New(data map[string]any) *Config {
	c := &Config{data: make(map[string]any, len(data))}
	for k, v := range data {
		c.data[k] = normalize(v)
	}
	return c
}

// Get returns the top-level value stored under key.
func (c *Config) Get(key string) (any, bool) {
	if c == nil || c.data == nil {
		return nil, false
	}
	v, ok := c.data[key]
	return v, ok
}

// Has reports whether key exists at the top level.
func (c *Config) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Path returns the value at a dot-separated path such as "application.cacheDir".
func (c *Config) Path(path string) (any, bool) {
	if c == nil || c.data == nil || path == "" {
		return nil, false
	}

	var current any = c.data
	for part := range strings.SplitSeq(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// Sub returns the nested mapping at path as a Config.
// The result shares no state with c.
func (c *Config) Sub(path string) (*Config, bool) {
	v, ok := c.Path(path)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return New(m), true
}

// String returns the value at path formatted as a string, or def when the
// path is missing, empty or holds a mapping or list.
func (c *Config) String(path, def string) string {
	v, ok := c.Path(path)
	if !ok || v == nil {
		return def
	}
	switch val := v.(type) {
	case string:
		if val == "" {
			return def
		}
		return val
	case map[string]any, []any:
		return def
	default:
		return fmt.Sprint(val)
	}
}

// Bool returns the boolean at path. Strings accepted by strconv.ParseBool are
// converted; anything else yields def.
func (c *Config) Bool(path string, def bool) bool {
	v, ok := c.Path(path)
	if !ok {
		return def
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return def
}

// Int returns the integer at path, converting numeric types and numeric
// strings, or def.
func (c *Config) Int(path string, def int) int {
	v, ok := c.Path(path)
	if !ok {
		return def
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case uint64:
		return int(val)
	case float64:
		return int(val)
	case string:
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return def
}

// Duration returns the duration at path. Strings are parsed with
// time.ParseDuration and plain numbers are taken as seconds.
// Anything else yields def.
func (c *Config) Duration(path string, def time.Duration) time.Duration {
	v, ok := c.Path(path)
	if !ok {
		return def
	}
	switch val := v.(type) {
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		return def
	case int, int64, uint64, float64:
		return time.Duration(c.Int(path, 0)) * time.Second
	}
	return def
}

// Strings returns the list at path with every element formatted as a string.
// A single scalar is returned as a one-element list.
func (c *Config) Strings(path string) []string {
	v, ok := c.Path(path)
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case map[string]any:
		return nil
	default:
		return []string{fmt.Sprint(val)}
	}
}

// Set stores value at a dot-separated path, creating intermediate mappings.
func (c *Config) Set(path string, value any) {
	if c.data == nil {
		c.data = make(map[string]any)
	}
	parts := strings.Split(path, ".")
	current := c.data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = normalize(value)
}

// Keys returns the top-level keys in sorted order.
func (c *Config) Keys() []string {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.data))
}

// Len returns the number of top-level keys.
func (c *Config) Len() int {
	if c == nil {
		return 0
	}
	return len(c.data)
}

// Map returns a deep copy of the configuration tree.
func (c *Config) Map() map[string]any {
	if c == nil {
		return map[string]any{}
	}
	return cloneMap(c.data)
}

// normalize converts decoder output into map[string]any / []any trees and
// deep-copies along the way.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	case *Config:
		if val == nil {
			return map[string]any{}
		}
		return val.Map()
	default:
		return v
	}
}
