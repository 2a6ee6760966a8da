package database

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/a2eg/a2eg-backend/internal/config"
)

const (
	scanBatch    = 100
	maxScanKeys  = 10000
	namespaceSep = ":"
)

// RedisHandle is a Handle over a Redis logical database.  Its collections
// are the distinct key namespaces, the part of each key before the first
// colon.
type RedisHandle struct {
	client redis.UniversalClient
	name   string
}

var _ Handle = (*RedisHandle)(nil)

// NewRedisHandle wraps a connected client.
func NewRedisHandle(client redis.UniversalClient, name string) *RedisHandle {
	return &RedisHandle{client: client, name: name}
}

func (h *RedisHandle) Name() string {
	return h.name
}

// ListCollectionNames scans the keyspace and returns the sorted distinct
// namespaces.  The scan stops after maxScanKeys keys.
func (h *RedisHandle) ListCollectionNames(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var cursor uint64
	scanned := 0
	for {
		keys, next, err := h.client.Scan(ctx, cursor, "*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("scan keys: %w", err)
		}
		for _, key := range keys {
			ns, _, _ := strings.Cut(key, namespaceSep)
			seen[ns] = struct{}{}
		}
		scanned += len(keys)
		cursor = next
		if cursor == 0 || scanned >= maxScanKeys {
			break
		}
	}

	names := make([]string, 0, len(seen))
	for ns := range seen {
		names = append(names, ns)
	}
	sort.Strings(names)
	return names, nil
}

func openRedis(ctx context.Context, u *url.URL, cfg config.DatabaseConfig) (Handle, io.Closer, error) {
	opts, err := redis.ParseURL(u.String())
	if err != nil {
		return nil, nil, err
	}
	if cfg.Name != "" {
		if n, err := strconv.Atoi(cfg.Name); err == nil {
			opts.DB = n
		}
	}
	opts.PoolSize = cfg.MaxOpenConns
	opts.ConnMaxLifetime = cfg.ConnMaxLifetime

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	name := cfg.Name
	if name == "" {
		name = "db" + strconv.Itoa(opts.DB)
	}
	return NewRedisHandle(client, name), client, nil
}
