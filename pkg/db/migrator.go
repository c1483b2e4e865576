package db

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// Migrator applies SQL migrations from a directory with goose.
type Migrator struct {
	provider *goose.Provider
	dir      string
	log      *slog.Logger
}

// NewMigrator prepares migrations found in dir for conn. A directory
// without migrations yields a Migrator whose operations are no-ops. An
// empty dir means migrationsDir is unresolved: Up and Status then fail
// with ErrMigrationsDirNotConfigured.
func NewMigrator(conn *Connection, dir string, log *slog.Logger) (*Migrator, error) {
	m := &Migrator{dir: dir, log: log}
	if dir == "" {
		return m, nil
	}

	table := conn.cfg.MigrationsTable
	if table == "" {
		table = DefaultMigrationsTable
	}
	store, err := database.NewStore(conn.Adapter.dialect(), table)
	if err != nil {
		return nil, errors.Join(ErrCreateMigrator, err)
	}

	// The custom store carries the dialect, so none is passed here.
	p, err := goose.NewProvider("", conn.DB, os.DirFS(dir), goose.WithStore(store))
	if err != nil {
		if errors.Is(err, goose.ErrNoMigrations) {
			return m, nil
		}
		return nil, errors.Join(ErrCreateMigrator, err)
	}
	m.provider = p
	return m, nil
}

// Dir returns the migrations directory.
func (m *Migrator) Dir() string {
	return m.dir
}

// Up applies all pending migrations and returns how many were applied.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if m.dir == "" {
		return 0, ErrMigrationsDirNotConfigured
	}
	if m.provider == nil {
		m.log.InfoContext(ctx, "no migrations to apply", slog.String("dir", m.dir))
		return 0, nil
	}

	results, err := m.provider.Up(ctx)
	for _, r := range results {
		m.log.InfoContext(ctx, "migration applied",
			slog.Int64("version", r.Source.Version),
			slog.String("path", r.Source.Path),
			slog.Duration("duration", r.Duration),
		)
	}
	if err != nil {
		return len(results), errors.Join(ErrApplyMigrations, err)
	}
	return len(results), nil
}

// Status lists every known migration with whether it has been applied.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if m.dir == "" {
		return nil, ErrMigrationsDirNotConfigured
	}
	if m.provider == nil {
		return nil, nil
	}

	list, err := m.provider.Status(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MigrationStatus, 0, len(list))
	for _, s := range list {
		out = append(out, MigrationStatus{
			Version: s.Source.Version,
			Path:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}

// MigrationStatus describes one migration source.
type MigrationStatus struct {
	Version int64  `yaml:"version"`
	Path    string `yaml:"path"`
	Applied bool   `yaml:"applied"`
}
