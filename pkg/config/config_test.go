package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webtools/pkg/config"
)

func sample() *config.Config {
	return config.New(map[string]any{
		"application": map[string]any{
			"baseUri":   "/tools/",
			"cacheDir":  "",
			"debug":     "true",
			"port":      8080,
			"ratio":     1.5,
			"ips":       []any{"127.0.0.1", "::1"},
			"modelsDir": "app/models",
			"timeout":   "3s",
		},
		"name": "demo",
	})
}

func TestConfig_Path(t *testing.T) {
	t.Parallel()

	cfg := sample()

	v, ok := cfg.Path("application.baseUri")
	require.True(t, ok)
	require.Equal(t, "/tools/", v)

	_, ok = cfg.Path("application.missing")
	require.False(t, ok)

	_, ok = cfg.Path("name.deeper")
	require.False(t, ok)

	_, ok = cfg.Path("")
	require.False(t, ok)
}

func TestConfig_Accessors(t *testing.T) {
	t.Parallel()

	cfg := sample()

	require.Equal(t, "/tools/", cfg.String("application.baseUri", "/"))
	require.Equal(t, "fallback", cfg.String("application.cacheDir", "fallback"))
	require.Equal(t, "fallback", cfg.String("application", "fallback"))
	require.Equal(t, "8080", cfg.String("application.port", ""))
	require.True(t, cfg.Bool("application.debug", false))
	require.True(t, cfg.Bool("application.missing", true))
	require.Equal(t, 8080, cfg.Int("application.port", 0))
	require.Equal(t, 1, cfg.Int("application.ratio", 0))
	require.Equal(t, 7, cfg.Int("name", 7))
	require.Equal(t, []string{"127.0.0.1", "::1"}, cfg.Strings("application.ips"))
	require.Equal(t, []string{"demo"}, cfg.Strings("name"))
	require.Equal(t, 3*time.Second, cfg.Duration("application.timeout", 0))
	require.Equal(t, 8080*time.Second, cfg.Duration("application.port", 0))
	require.Equal(t, time.Minute, cfg.Duration("name", time.Minute))
	require.Nil(t, cfg.Strings("missing"))
	require.Equal(t, []string{"application", "name"}, cfg.Keys())
	require.Equal(t, 2, cfg.Len())
	require.True(t, cfg.Has("name"))
}

func TestConfig_Sub(t *testing.T) {
	t.Parallel()

	cfg := sample()

	app, ok := cfg.Sub("application")
	require.True(t, ok)
	require.Equal(t, "app/models", app.String("modelsDir", ""))

	app.Set("modelsDir", "changed")
	require.Equal(t, "app/models", cfg.String("application.modelsDir", ""), "sub must not alias parent")

	_, ok = cfg.Sub("name")
	require.False(t, ok)
}

func TestConfig_NilIsEmpty(t *testing.T) {
	t.Parallel()

	var cfg *config.Config
	require.False(t, cfg.Has("x"))
	require.Equal(t, "d", cfg.String("x", "d"))
	require.Zero(t, cfg.Len())
	require.Empty(t, cfg.Map())
}

func TestConfig_Set(t *testing.T) {
	t.Parallel()

	cfg := config.New(nil)
	cfg.Set("database.adapter", "sqlite")
	cfg.Set("database.dbname", "/tmp/x.sqlite")

	require.Equal(t, "sqlite", cfg.String("database.adapter", ""))
	require.Equal(t, "/tmp/x.sqlite", cfg.String("database.dbname", ""))
}

func TestNew_NormalizesDecoderOutput(t *testing.T) {
	t.Parallel()

	cfg := config.New(map[string]any{
		"legacy": map[any]any{"key": "value", 1: "one"},
		"list":   []string{"a", "b"},
	})

	require.Equal(t, "value", cfg.String("legacy.key", ""))
	require.Equal(t, "one", cfg.String("legacy.1", ""))
	require.Equal(t, []string{"a", "b"}, cfg.Strings("list"))
}
