package db

import "errors"

// Connection errors.
var (
	ErrUnsupportedAdapter       = errors.New("db: unsupported adapter")
	ErrDatabaseNotConfigured    = errors.New("db: database is not configured")
	ErrFailedToParseDBConfig    = errors.New("db: failed to parse database configuration")
	ErrFailedToOpenDBConnection = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed        = errors.New("db: healthcheck failed")
	ErrBeginTx                  = errors.New("db: failed to begin transaction")
)

// Migration errors.
var (
	ErrCreateMigrator             = errors.New("db: failed to prepare migrations")
	ErrApplyMigrations            = errors.New("db: failed to apply migrations")
	ErrMigrationsDirNotConfigured = errors.New("db: migrations directory is not configured")
)
