package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webtools/pkg/config"
)

func TestScanner_Scan(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"first/config.yaml":   {Data: []byte("application:\n  baseUri: /first/\n")},
		"second/config.json":  {Data: []byte(`{"application":{"baseUri":"/second/"}}`)},
		"second/testing.toml": {Data: []byte("[application]\nbaseUri = \"/toml/\"\nport = 9000\n")},
		"second/broken.yml":   {Data: []byte("application: [unclosed\n")},
	}

	s := config.NewScannerFS(fsys, "first", "second")

	t.Run("first directory wins", func(t *testing.T) {
		t.Parallel()

		cfg, err := s.Scan("config")
		require.NoError(t, err)
		require.Equal(t, "/first/", cfg.String("application.baseUri", ""))
	})

	t.Run("toml files are decoded", func(t *testing.T) {
		t.Parallel()

		cfg, err := s.Scan("testing")
		require.NoError(t, err)
		require.Equal(t, "/toml/", cfg.String("application.baseUri", ""))
		require.Equal(t, 9000, cfg.Int("application.port", 0))
	})

	t.Run("missing file returns nil without error", func(t *testing.T) {
		t.Parallel()

		cfg, err := s.Scan("staging")
		require.NoError(t, err)
		require.Nil(t, cfg)
	})

	t.Run("malformed file returns ParseError", func(t *testing.T) {
		t.Parallel()

		_, err := s.Scan("broken")
		require.ErrorIs(t, err, config.ErrConfigParse)

		var pe *config.ParseError
		require.ErrorAs(t, err, &pe)
		require.Equal(t, "second/broken.yml", pe.Path)
	})

	t.Run("Load reports missing file", func(t *testing.T) {
		t.Parallel()

		_, err := s.Load("staging")
		require.ErrorIs(t, err, config.ErrConfigNotFound)
	})
}

func TestLoadWith(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"config.yaml":      {Data: []byte("application:\n  baseUri: /\n  cacheDir: /var/cache\n")},
		"development.yaml": {Data: []byte("application:\n  baseUri: /dev/\n")},
		"production.yaml":  {Data: []byte("application:\n  baseUri: /prod/\n")},
		"staging.yaml":     {Data: []byte(":: not yaml ::\n\t- [")},
	}
	s := config.NewScannerFS(fsys, ".")

	t.Run("production never merges an override", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.LoadWith(s, config.EnvProduction, nil)
		require.NoError(t, err)
		require.Equal(t, "/", cfg.String("application.baseUri", ""))
	})

	t.Run("development merges its override", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.LoadWith(s, config.EnvDevelopment, nil)
		require.NoError(t, err)
		require.Equal(t, "/dev/", cfg.String("application.baseUri", ""))
		require.Equal(t, "/var/cache", cfg.String("application.cacheDir", ""))
	})

	t.Run("missing override keeps base", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.LoadWith(s, config.EnvTesting, nil)
		require.NoError(t, err)
		require.Equal(t, "/", cfg.String("application.baseUri", ""))
	})

	t.Run("malformed override is logged and ignored", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, nil))

		cfg, err := config.LoadWith(s, "staging", log)
		require.NoError(t, err)
		require.Equal(t, "/", cfg.String("application.baseUri", ""))
		require.Contains(t, buf.String(), "unable to load environment configuration")
	})

	t.Run("malformed base is fatal", func(t *testing.T) {
		t.Parallel()

		broken := config.NewScannerFS(fstest.MapFS{
			"config.json": {Data: []byte("{")},
		}, ".")
		_, err := config.LoadWith(broken, config.EnvDevelopment, nil)
		require.ErrorIs(t, err, config.ErrConfigParse)
	})

	t.Run("missing base is fatal", func(t *testing.T) {
		t.Parallel()

		_, err := config.LoadWith(config.NewScannerFS(fstest.MapFS{}, "."), config.EnvDevelopment, nil)
		require.ErrorIs(t, err, config.ErrConfigNotFound)
	})
}

func TestLoad_SearchDirs(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "app", "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "app", "config", "config.yaml"), []byte("name: app\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "config.yaml"), []byte("name: root\n"), 0o644))

	cfg, err := config.Load(base, config.EnvProduction, nil)
	require.NoError(t, err)
	require.Equal(t, "app", cfg.String("name", ""))
}
