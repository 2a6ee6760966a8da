package database

import (
	"context"
	"database/sql"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/a2eg/a2eg-backend/internal/config"
)

// sqlitePath extracts the database file from sqlite:///abs/path.db,
// sqlite://relative.db or file:path.db.
func sqlitePath(u *url.URL) string {
	if u.Opaque != "" {
		return u.Opaque
	}
	return u.Host + u.Path
}

// sqliteName is the file name without its extension, unless DATABASE_NAME
// overrides it.
func sqliteName(path, dbName string) string {
	if dbName != "" {
		return dbName
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func openSQLite(ctx context.Context, u *url.URL, cfg config.DatabaseConfig) (Handle, io.Closer, error) {
	path := sqlitePath(u)
	dsn := path
	if u.RawQuery != "" {
		dsn += "?" + u.RawQuery
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, nil, err
	}
	return openPool(ctx, db, sqliteName(path, cfg.Name), SQLite, cfg)
}
