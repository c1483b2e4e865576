package webtools_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webtools"
)

func TestNew(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "app", "models"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "config.yaml"),
		[]byte("application:\n  modelsDir: app/models\n"), 0o644))

	app := webtools.New(
		webtools.WithBasePath(base),
		webtools.WithLogOutput(io.Discard),
		webtools.WithService("greeting", func(webtools.Handle) (any, error) { return "hi", nil }, true),
	)
	defer app.Close()

	dirs, err := webtools.Resolve[*webtools.Directories](app.Registry(), webtools.ServiceDirectories)
	require.NoError(t, err)

	models, ok := dirs.Lookup(webtools.DirModels)
	require.True(t, ok)
	require.Equal(t, filepath.Join(base, "app", "models"), models)

	greeting, err := webtools.Resolve[string](app.Registry(), "greeting")
	require.NoError(t, err)
	require.Equal(t, "hi", greeting)

	_, err = app.Registry().Get("nope")
	require.ErrorIs(t, err, webtools.ErrUnknownService)
}
