// Package db opens the panel's database and answers schema questions.
//
// Two adapters are supported and matched explicitly: Postgres through a pgx
// pool (exposed as *sql.DB via pgx/stdlib) and SQLite through the ncruces
// driver with its embedded build. Any other adapter name is rejected with
// ErrUnsupportedAdapter.
//
//	cfg, err := db.FromConfig(projectCfg.Sub("database"), basePath)
//	if errors.Is(err, db.ErrDatabaseNotConfigured) {
//		cfg = db.SQLiteConfig(filepath.Join(os.TempDir(), "webtools.sqlite"))
//	}
//	conn, err := db.Open(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
// Migrator runs goose migrations from a directory. Utils lists tables and
// columns, caching the answers.
package db
