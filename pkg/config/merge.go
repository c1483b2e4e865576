package config

// Merge merges other into c in place and returns c.
// Values from other win. When both sides hold a mapping under the same key
// the mappings are merged recursively; scalars and lists are replaced.
// Keys absent from other are preserved. Merging nil or an empty
// configuration leaves c unchanged.
func (c *Config) Merge(other *Config) *Config {
	if other == nil || len(other.data) == 0 {
		return c
	}
	c.data = deepMerge(c.data, other.data)
	return c
}

// Merged returns a new Config holding base merged with overrides, leaving
// the inputs untouched.
func Merged(base *Config, overrides ...*Config) *Config {
	out := New(base.Map())
	for _, o := range overrides {
		out.Merge(o)
	}
	return out
}

func deepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = deepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = cloneValue(srcVal)
	}
	return dst
}

func cloneMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
