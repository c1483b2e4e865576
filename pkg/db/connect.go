package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Connection is an open database handle. Both adapters are exposed through
// database/sql; Postgres additionally keeps its pgx pool.
type Connection struct {
	Adapter Adapter
	DB      *sql.DB

	cfg  Config
	pool *pgxpool.Pool
}

// Open connects according to cfg.
func Open(ctx context.Context, cfg Config, log *slog.Logger) (*Connection, error) {
	switch cfg.Adapter {
	case AdapterPostgres:
		pool, err := connectPostgres(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Connection{Adapter: cfg.Adapter, DB: stdlib.OpenDBFromPool(pool), cfg: cfg, pool: pool}, nil
	case AdapterSQLite:
		db, err := openSQLite(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &Connection{Adapter: cfg.Adapter, DB: db, cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAdapter, cfg.Adapter)
	}
}

// Pool returns the pgx pool of a Postgres connection, nil otherwise.
func (c *Connection) Pool() *pgxpool.Pool {
	return c.pool
}

// Path returns the database file of a SQLite connection, empty otherwise.
func (c *Connection) Path() string {
	if c.Adapter != AdapterSQLite {
		return ""
	}
	return c.cfg.DSN
}

// Ping verifies the connection is alive.
func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close releases the handle and, for Postgres, the underlying pool.
func (c *Connection) Close() error {
	err := c.DB.Close()
	if c.pool != nil {
		c.pool.Close()
	}
	return err
}

func connectPostgres(ctx context.Context, cfg Config, log *slog.Logger) (*pgxpool.Pool, error) {
	connConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	if cfg.MaxConns > 0 {
		connConfig.MaxConns = cfg.MaxConns
	}
	connConfig.MinConns = cfg.MinConns
	if cfg.MaxConnIdleTime > 0 {
		connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.MaxConnLifetime > 0 {
		connConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for i := range attempts {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err

		log.WarnContext(ctx, "database connection attempt failed",
			slog.String("host", connConfig.ConnConfig.Host),
			slog.Int("attempt", i+1),
			slog.Int("attempts", attempts),
			slog.Any("error", err),
		)
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrFailedToOpenDBConnection, lastErr)
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Join(ErrFailedToOpenDBConnection, err)
		}
		dsn = "file:" + path
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenDBConnection, err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrFailedToOpenDBConnection, err)
	}
	return db, nil
}

// Healthcheck returns a closure that validates connectivity for health
// endpoints.
func Healthcheck(conn *Connection) func(context.Context) error {
	return func(ctx context.Context) error {
		if conn == nil || conn.DB == nil {
			return ErrHealthcheckFailed
		}
		if err := conn.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
