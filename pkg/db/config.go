package db

import (
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dmitrymomot/webtools/pkg/config"
)

// Config holds connection parameters for one adapter.
type Config struct {
	Adapter Adapter

	// DSN is a postgres:// URL for Postgres and a file path for SQLite.
	DSN string

	// Zero means "no limit" / driver default.
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
	MaxConnLifetime time.Duration

	// Startup retry for servers that are not accepting connections yet.
	// The wait grows linearly: attempt N waits N*RetryInterval.
	RetryAttempts int
	RetryInterval time.Duration

	MigrationsTable string
}

// DefaultMigrationsTable stores applied migration versions.
const DefaultMigrationsTable = "webtools_migrations"

// SQLiteConfig returns a configuration for a SQLite file at path.
func SQLiteConfig(path string) Config {
	return Config{
		Adapter:         AdapterSQLite,
		DSN:             path,
		RetryAttempts:   1,
		MigrationsTable: DefaultMigrationsTable,
	}
}

// FromConfig builds a Config from the project's database section:
//
//	database:
//	  adapter: postgres
//	  host: localhost
//	  port: 5432
//	  username: app
//	  password: secret
//	  dbname: app
//	  sslmode: disable
//
// A dsn key takes precedence over the individual fields. For SQLite dbname
// (or dsn) is the database file; relative paths are resolved against
// basePath.
func FromConfig(section *config.Config, basePath string) (Config, error) {
	if section == nil || section.Len() == 0 {
		return Config{}, ErrDatabaseNotConfigured
	}

	adapter, err := ParseAdapter(section.String("adapter", ""))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Adapter:         adapter,
		MaxConns:        int32(section.Int("maxConns", 10)),
		MinConns:        int32(section.Int("minConns", 0)),
		MaxConnIdleTime: section.Duration("maxConnIdleTime", 10*time.Minute),
		MaxConnLifetime: section.Duration("maxConnLifetime", 30*time.Minute),
		RetryAttempts:   section.Int("retry", 3),
		RetryInterval:   section.Duration("retryInterval", 2*time.Second),
		MigrationsTable: section.String("migrationsTable", DefaultMigrationsTable),
	}

	switch adapter {
	case AdapterPostgres:
		cfg.DSN = section.String("dsn", "")
		if cfg.DSN == "" {
			cfg.DSN = postgresURL(section)
		}
	case AdapterSQLite:
		path := section.String("dsn", section.String("dbname", ""))
		if path == "" {
			return Config{}, ErrFailedToParseDBConfig
		}
		if path != ":memory:" && !filepath.IsAbs(path) && basePath != "" {
			path = filepath.Join(basePath, path)
		}
		cfg.DSN = path
		cfg.RetryAttempts = 1
	}

	return cfg, nil
}

func postgresURL(section *config.Config) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(section.String("host", "localhost"), strconv.Itoa(section.Int("port", 5432))),
		Path:   "/" + section.String("dbname", ""),
	}
	if user := section.String("username", ""); user != "" {
		if pass := section.String("password", ""); pass != "" {
			u.User = url.UserPassword(user, pass)
		} else {
			u.User = url.User(user)
		}
	}
	q := url.Values{}
	if mode := section.String("sslmode", ""); mode != "" {
		q.Set("sslmode", mode)
	}
	if schema := section.String("schema", ""); schema != "" {
		q.Set("search_path", schema)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
