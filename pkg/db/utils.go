package db

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/dmitrymomot/webtools/pkg/cache"
)

// Utils answers schema questions about a connection. Answers are cached
// because the panel asks the same questions on every page.
type Utils struct {
	conn   *Connection
	cache  cache.Cache[[]string]
	loader *cache.Loader[[]string]
	ttl    time.Duration
}

// NewUtils creates schema helpers caching into c for ttl (zero means the
// cache's default TTL).
func NewUtils(conn *Connection, c cache.Cache[[]string], ttl time.Duration) *Utils {
	return &Utils{
		conn:   conn,
		cache:  c,
		loader: cache.NewLoader(c),
		ttl:    ttl,
	}
}

// Tables lists the user tables of the current schema, sorted by name.
func (u *Utils) Tables(ctx context.Context) ([]string, error) {
	return u.loader.GetOrSet(ctx, "tables", func(ctx context.Context) ([]string, time.Duration, error) {
		query := `SELECT table_name FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
			ORDER BY table_name`
		if u.conn.Adapter == AdapterSQLite {
			query = `SELECT name FROM sqlite_master
				WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
				ORDER BY name`
		}
		names, err := u.strings(ctx, query)
		return names, u.ttl, err
	})
}

// Columns lists the columns of table in declaration order.
func (u *Utils) Columns(ctx context.Context, table string) ([]string, error) {
	return u.loader.GetOrSet(ctx, "columns:"+table, func(ctx context.Context) ([]string, time.Duration, error) {
		query := `SELECT column_name FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = ` + u.conn.Adapter.placeholder(1) + `
			ORDER BY ordinal_position`
		if u.conn.Adapter == AdapterSQLite {
			query = `SELECT name FROM pragma_table_info(?) ORDER BY cid`
		}
		names, err := u.strings(ctx, query, table)
		return names, u.ttl, err
	})
}

// TableExists reports whether table is one of Tables.
func (u *Utils) TableExists(ctx context.Context, table string) (bool, error) {
	tables, err := u.Tables(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(tables, table), nil
}

// Invalidate drops every cached answer. Call it after schema changes.
func (u *Utils) Invalidate(ctx context.Context) error {
	return u.cache.Clear(ctx)
}

func (u *Utils) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := u.conn.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s sql.NullString
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s.String)
	}
	return out, rows.Err()
}
