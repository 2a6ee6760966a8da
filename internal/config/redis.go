package config

// This file defines the Redis client constructor.  Redis backs the optional
// HTTP response cache.  If the server cannot be reached during startup the
// constructor returns nil and callers degrade gracefully by disabling the
// cache.

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the Redis connection settings.  URL uses the
// redis://[user:password@]host:port/db form; rediss:// enables TLS.
type RedisConfig struct {
	URL         string        `env:"REDIS_URL"`
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"2s"`
}

// NewRedisClient instantiates a Redis client from the configured URL.  Both
// return values are nil when no URL is set.  When the URL does not parse or
// the server does not answer a ping within the dial timeout, the client is
// nil and the error says why.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	client := redis.NewClient(opts)

	// Ping the server with a short timeout.  Return nil on failure.
	ctx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
