package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/a2eg/a2eg-backend/internal/config"
)

// Dialect carries the per-backend catalog query used to list tables.
type Dialect struct {
	Driver      string
	TablesQuery string
}

var (
	MySQL = Dialect{
		Driver:      "mysql",
		TablesQuery: "SHOW TABLES",
	}
	Postgres = Dialect{
		Driver:      "postgres",
		TablesQuery: "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() ORDER BY table_name",
	}
	SQLite = Dialect{
		Driver:      "sqlite3",
		TablesQuery: "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
	}
)

// SQLHandle is a Handle backed by a database/sql pool.
type SQLHandle struct {
	db      *sql.DB
	name    string
	dialect Dialect
}

var _ Handle = (*SQLHandle)(nil)

// NewSQLHandle wraps an open pool.  The caller keeps ownership of db.
func NewSQLHandle(db *sql.DB, name string, dialect Dialect) *SQLHandle {
	return &SQLHandle{db: db, name: name, dialect: dialect}
}

// Name returns the database name the handle was opened with.
func (h *SQLHandle) Name() string {
	return h.name
}

// ListCollectionNames returns the table names reported by the catalog.
func (h *SQLHandle) ListCollectionNames(ctx context.Context) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, h.dialect.TablesQuery)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}

// openPool applies the pool settings and pings within the caller's deadline.
// The pool is closed again when the ping fails.
func openPool(ctx context.Context, db *sql.DB, name string, dialect Dialect, cfg config.DatabaseConfig) (Handle, io.Closer, error) {
	// Pool settings
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return NewSQLHandle(db, name, dialect), db, nil
}
