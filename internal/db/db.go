// Package db opens the relational product store and creates its table.
package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Connect opens the database for driver. The memory driver has no *sql.DB and is rejected here.
func Connect(ctx context.Context, driver, url string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite:
		return ConnectSQLite(ctx, url)
	case DriverPostgres:
		return ConnectPostgres(ctx, url)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// EnsureSchema creates the products table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	var ddl string
	switch driver {
	case DriverSQLite:
		ddl = sqliteSchema
	case DriverPostgres:
		ddl = postgresSchema
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	return nil
}
