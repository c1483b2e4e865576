package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dmitrymomot/webtools/pkg/config"
)

func TestConfig_Merge(t *testing.T) {
	t.Parallel()

	t.Run("override wins and nested maps merge", func(t *testing.T) {
		t.Parallel()

		base := config.New(map[string]any{
			"application": map[string]any{
				"baseUri":  "/",
				"cacheDir": "/var/cache",
			},
			"ips":  []any{"127.0.0.1"},
			"keep": "me",
		})
		override := config.New(map[string]any{
			"application": map[string]any{
				"baseUri": "/dev/",
			},
			"ips": []any{"10.0.0.1", "10.0.0.2"},
			"new": "key",
		})

		base.Merge(override)

		require.Equal(t, map[string]any{
			"application": map[string]any{
				"baseUri":  "/dev/",
				"cacheDir": "/var/cache",
			},
			"ips":  []any{"10.0.0.1", "10.0.0.2"},
			"keep": "me",
			"new":  "key",
		}, base.Map())
	})

	t.Run("scalar replaces mapping and mapping replaces scalar", func(t *testing.T) {
		t.Parallel()

		base := config.New(map[string]any{
			"a": map[string]any{"x": 1},
			"b": "scalar",
		})
		base.Merge(config.New(map[string]any{
			"a": "flat",
			"b": map[string]any{"y": 2},
		}))

		require.Equal(t, "flat", base.String("a", ""))
		require.Equal(t, 2, base.Int("b.y", 0))
	})

	t.Run("merged values do not alias the override", func(t *testing.T) {
		t.Parallel()

		override := config.New(map[string]any{"view": map[string]any{"separator": "_"}})
		base := config.New(nil).Merge(override)

		override.Set("view.separator", "-")
		require.Equal(t, "_", base.String("view.separator", ""))
	})

	t.Run("nil and empty overrides are identity", func(t *testing.T) {
		t.Parallel()

		base := config.New(map[string]any{"a": 1})
		base.Merge(nil)
		base.Merge(config.New(nil))
		require.Equal(t, map[string]any{"a": 1}, base.Map())
	})

	t.Run("Merged leaves inputs untouched", func(t *testing.T) {
		t.Parallel()

		base := config.New(map[string]any{"a": 1})
		out := config.Merged(base, config.New(map[string]any{"a": 2}))

		require.Equal(t, 1, base.Int("a", 0))
		require.Equal(t, 2, out.Int("a", 0))
	})
}

// treeGen draws small configuration trees with overlapping key names so that
// collisions between nested mappings, scalars and lists are common.
func treeGen(depth int) *rapid.Generator[map[string]any] {
	return rapid.Custom(func(t *rapid.T) map[string]any {
		keys := rapid.SliceOfNDistinct(rapid.SampledFrom([]string{"a", "b", "c", "d"}), 0, 4, rapid.ID[string]).Draw(t, "keys")
		out := make(map[string]any, len(keys))
		for _, k := range keys {
			kind := rapid.IntRange(0, 2).Draw(t, "kind")
			if depth == 0 && kind == 2 {
				kind = 0
			}
			switch kind {
			case 0:
				out[k] = rapid.IntRange(0, 9).Draw(t, "scalar")
			case 1:
				out[k] = []any{rapid.StringN(0, 3, -1).Draw(t, "item")}
			default:
				out[k] = treeGen(depth - 1).Draw(t, "child")
			}
		}
		return out
	})
}

func checkMerged(t *rapid.T, base, override, merged map[string]any) {
	for k, ov := range override {
		mv, ok := merged[k]
		if !ok {
			t.Fatalf("key %q from override missing in merged result", k)
		}
		om, oIsMap := ov.(map[string]any)
		bm, bIsMap := base[k].(map[string]any)
		if oIsMap && bIsMap {
			mm, ok := mv.(map[string]any)
			if !ok {
				t.Fatalf("key %q: expected recursive merge", k)
			}
			checkMerged(t, bm, om, mm)
			continue
		}
		require.Equal(t, ov, mv, "override value must win for %q", k)
	}
	for k, bv := range base {
		if _, inOverride := override[k]; !inOverride {
			require.Equal(t, bv, merged[k], "key %q absent from override must be preserved", k)
		}
	}
}

func TestConfig_Merge_Properties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		base := treeGen(2).Draw(rt, "base")
		override := treeGen(2).Draw(rt, "override")

		merged := config.New(base).Merge(config.New(override)).Map()
		checkMerged(rt, base, override, merged)
	})

	rapid.Check(t, func(rt *rapid.T) {
		base := treeGen(2).Draw(rt, "base")

		merged := config.New(base).Merge(config.New(nil)).Map()
		require.Equal(rt, config.New(base).Map(), merged)
	})
}
