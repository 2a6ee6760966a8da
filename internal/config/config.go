package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; nested structs group the settings of one
// collaborator.
type Config struct {
	Env             string        `env:"APP_ENV" envDefault:"dev"`          // application environment (dev/test/prod)
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`         // interface to bind the HTTP server to
	Port            int           `env:"PORT" envDefault:"8000"`            // port to bind the HTTP server to
	FrontendURL     string        `env:"FRONTEND_URL"`                      // single allowed CORS origin, empty allows any
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`       // debug, info, warn, error or critical
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"` // grace period for in-flight requests

	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Metrics  MetricsConfig
}

// DatabaseConfig describes the optional database collaborator.  An empty URL
// means no collaborator is installed.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	Name            string        `env:"DATABASE_NAME"`
	ConnectTimeout  time.Duration `env:"DATABASE_CONNECT_TIMEOUT" envDefault:"5s"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"25"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// MetricsConfig toggles the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

// Load reads an optional .env file and then parses the environment into a
// Config.  Variables already present in the environment take precedence
// over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "critical", "fatal":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, error or critical)", c.LogLevel)
	}
	if c.Database.ConnectTimeout <= 0 {
		return fmt.Errorf("database connect timeout must be positive")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive when caching is enabled")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with '/': %q", c.Metrics.Path)
	}
	return nil
}

// Addr returns the host:port pair the HTTP server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// AllowedOrigins returns the CORS origin list: the configured frontend URL,
// or a wildcard when none is set.
func (c *Config) AllowedOrigins() []string {
	if origin := strings.TrimSpace(c.FrontendURL); origin != "" {
		return []string{origin}
	}
	return []string{"*"}
}
