package db

import (
	"fmt"
	"strings"

	"github.com/pressly/goose/v3/database"
)

// Adapter identifies a supported database engine.
type Adapter string

// Supported adapters.
const (
	AdapterPostgres Adapter = "postgres"
	AdapterSQLite   Adapter = "sqlite"
)

// ParseAdapter maps a configured adapter name to an Adapter. Matching is
// case-insensitive and accepts the usual aliases (postgresql, pgsql,
// sqlite3). Anything else, including empty, is ErrUnsupportedAdapter.
func ParseAdapter(s string) (Adapter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pgsql":
		return AdapterPostgres, nil
	case "sqlite", "sqlite3":
		return AdapterSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAdapter, s)
	}
}

// dialect returns the goose dialect for the adapter.
func (a Adapter) dialect() database.Dialect {
	switch a {
	case AdapterPostgres:
		return database.DialectPostgres
	case AdapterSQLite:
		return database.DialectSQLite3
	}
	return ""
}

// placeholder returns the n-th bind parameter marker (1-based).
func (a Adapter) placeholder(n int) string {
	if a == AdapterPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
