package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/webtools/pkg/db"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func project(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "db", "migrations"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "config.yaml"), []byte(`
application:
  migrationsDir: db/migrations
database:
  adapter: sqlite
  dbname: panel.db
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "db", "migrations", "00001_create_notes.sql"), []byte(`-- +goose Up
CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT);

-- +goose Down
DROP TABLE notes;
`), 0o644))
	return base
}

func TestDirsCommand(t *testing.T) {
	t.Parallel()

	base := project(t)
	out, err := execute(t, "dirs", "--base-path", base)
	require.NoError(t, err)

	var dirs map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &dirs))
	require.Equal(t, base, dirs["basePath"])
	require.Equal(t, filepath.Join(base, "db", "migrations"), dirs["migrationsDir"])
	require.Empty(t, dirs["modelsDir"])
}

func TestConfigCommand(t *testing.T) {
	t.Parallel()

	base := project(t)
	out, err := execute(t, "config", "--base-path", base)
	require.NoError(t, err)

	var cfg map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	require.Contains(t, cfg, "database")
}

func TestConfigCommand_MissingConfiguration(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "config", "--base-path", t.TempDir())
	require.Error(t, err)
}

func TestMigrateCommand(t *testing.T) {
	t.Parallel()

	base := project(t)

	out, err := execute(t, "migrate", "--base-path", base)
	require.NoError(t, err)
	require.Equal(t, "applied 1 migration(s)\n", out)

	out, err = execute(t, "migrate", "--base-path", base)
	require.NoError(t, err)
	require.Equal(t, "applied 0 migration(s)\n", out)

	out, err = execute(t, "migrate", "status", "--base-path", base)
	require.NoError(t, err)
	require.Contains(t, out, "version: 1")
	require.Contains(t, out, "applied: true")
}

func TestMigrateCommand_MigrationsDirNotConfigured(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "config.yaml"), []byte(`
database:
  adapter: sqlite
  dbname: panel.db
`), 0o644))

	_, err := execute(t, "migrate", "--base-path", base)
	require.ErrorIs(t, err, db.ErrMigrationsDirNotConfigured)

	_, err = execute(t, "migrate", "status", "--base-path", base)
	require.ErrorIs(t, err, db.ErrMigrationsDirNotConfigured)
}
