// Package redis provides the durable persistent backend over a Redis
// string keyspace. A single Redis database may be shared by many cache
// instances (and by other processes); namespacing keeps them apart.
package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	be "github.com/cachekit/nscache/backend"
)

var ErrNilClient = errors.New("redis backend: nil client")

type Redis struct {
	rdb         goredis.UniversalClient
	scanCount   int64
	closeClient bool
}

var _ be.Backend = (*Redis)(nil)

type Config struct {
	Client goredis.UniversalClient

	// ScanCount is the COUNT hint for SCAN during Keys. 0 => 256.
	ScanCount int64

	// CloseClient - set true only if this backend exclusively owns the client.
	CloseClient bool
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	count := cfg.ScanCount
	if count <= 0 {
		count = 256
	}
	return &Redis{rdb: cfg.Client, scanCount: count, closeClient: cfg.CloseClient}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

// Set stores the value without a Redis-side TTL; expiry is enforced by the
// cache layer so that entries stay inspectable until swept.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.rdb.Set(ctx, key, value, 0).Err()
}

func (r *Redis) Del(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}

// Keys walks the whole keyspace with SCAN (never KEYS, which blocks the server).
func (r *Redis) Keys(ctx context.Context) ([]string, error) {
	var (
		out    []string
		cursor uint64
	)
	for {
		batch, next, err := r.rdb.Scan(ctx, cursor, "*", r.scanCount).Result()
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if next == 0 {
			return out, nil
		}
		cursor = next
	}
}

// Close releases the underlying client only when this backend owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (r *Redis) Close(context.Context) error {
	if r.closeClient {
		if err := r.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
