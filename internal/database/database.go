// Package database implements the optional database collaborator probed by
// the diagnostic endpoint.  The collaborator is resolved once at startup
// into one of three states: unavailable (nothing configured), available but
// not initialized (configured, connection failed) or connected.
package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/a2eg/a2eg-backend/internal/config"
)

// ErrUnavailable reports that no database collaborator is installed.
var ErrUnavailable = errors.New("database module not found")

// Handle is a live connection to the collaborator's database.
type Handle interface {
	// Name is the database name, or "" when the backend has none.
	Name() string
	// ListCollectionNames returns the names of the collections (tables,
	// key namespaces) in the database.
	ListCollectionNames(ctx context.Context) ([]string, error)
}

// Provider resolves the collaborator's handle.  A nil handle with a nil
// error means the collaborator exists but never finished initializing.
type Provider interface {
	Resolve(ctx context.Context) (Handle, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Handle, error)

// Resolve calls f(ctx).
func (f ProviderFunc) Resolve(ctx context.Context) (Handle, error) {
	return f(ctx)
}

// Collaborator is the startup-resolved Provider.  It is read-only after
// Connect returns and safe for concurrent use.
type Collaborator struct {
	handle Handle
	err    error
	closer io.Closer
}

var _ Provider = (*Collaborator)(nil)

// Resolve returns the handle or error captured by Connect.
func (c *Collaborator) Resolve(context.Context) (Handle, error) {
	if c == nil {
		return nil, ErrUnavailable
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.handle, nil
}

// Close releases the underlying connection, if any.
func (c *Collaborator) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// Connect resolves the collaborator described by cfg.  It never fails: every
// outcome is captured in the returned Collaborator and surfaced by Resolve.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *zerolog.Logger) *Collaborator {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		logger.Info().Msg("no database configured")
		return &Collaborator{err: ErrUnavailable}
	}

	// The parse error quotes the URL, credentials included, so it is dropped.
	u, err := url.Parse(raw)
	if err != nil {
		logger.Warn().Msg("database url does not parse")
		return &Collaborator{err: errors.New("invalid database url")}
	}
	open, ok := openers[strings.ToLower(u.Scheme)]
	if !ok {
		logger.Warn().Msgf("unsupported database scheme %q", u.Scheme)
		return &Collaborator{err: fmt.Errorf("unsupported database scheme %q", u.Scheme)}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	h, closer, err := open(ctx, u, cfg)
	if err != nil {
		logger.Error().Err(err).Msgf("%s database connection failed", u.Scheme)
		return &Collaborator{}
	}
	logger.Info().Msgf("connected to %s database %q", u.Scheme, h.Name())
	return &Collaborator{handle: h, closer: closer}
}

// opener dials one backend and verifies the connection.
type opener func(ctx context.Context, u *url.URL, cfg config.DatabaseConfig) (Handle, io.Closer, error)

var openers = map[string]opener{
	"mysql":      openMySQL,
	"postgres":   openPostgres,
	"postgresql": openPostgres,
	"sqlite":     openSQLite,
	"sqlite3":    openSQLite,
	"file":       openSQLite,
	"redis":      openRedis,
	"rediss":     openRedis,
}
