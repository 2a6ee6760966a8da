package database

import (
	"context"
	"database/sql"
	"io"
	"net/url"
	"strings"

	_ "github.com/lib/pq"

	"github.com/a2eg/a2eg-backend/internal/config"
)

// postgresDSN returns the connection URL and the database it selects,
// with DATABASE_NAME replacing the path when set.
func postgresDSN(u *url.URL, dbName string) (string, string) {
	dsn := *u
	if dbName != "" {
		dsn.Path = "/" + dbName
	}
	return dsn.String(), strings.TrimPrefix(dsn.Path, "/")
}

func openPostgres(ctx context.Context, u *url.URL, cfg config.DatabaseConfig) (Handle, io.Closer, error) {
	dsn, name := postgresDSN(u, cfg.Name)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, err
	}
	return openPool(ctx, db, name, Postgres, cfg)
}
