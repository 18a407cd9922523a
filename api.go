package nscache

import (
	"context"
	"fmt"
	"time"

	be "github.com/cachekit/nscache/backend"
	bigcachebe "github.com/cachekit/nscache/backend/bigcache"
	memorybe "github.com/cachekit/nscache/backend/memory"
	redisbe "github.com/cachekit/nscache/backend/redis"
	c "github.com/cachekit/nscache/codec"
)

// Cache is the high-level namespaced cache API. V is the caller's value type;
// serialization is handled by a pluggable Codec[V].
//
// Misses and expired entries are reported as ok=false, never as errors.
// Errors are backend I/O failures only.
type Cache[V any] interface {
	Namespace() string
	Close(ctx context.Context) error

	// Set writes value under key, stamped with the current time.
	Set(ctx context.Context, key string, value V) error

	// Get returns the stored value, or ok=false if the key is absent or
	// expired. An expired entry is removed on the spot.
	Get(ctx context.Context, key string) (v V, ok bool, err error)

	// Remove deletes the key. Removing an unknown key is a no-op.
	Remove(ctx context.Context, key string) error

	// Collection re-scans the backend for this namespace's keys and returns
	// storage key -> value for every non-expired entry. Expired entries are
	// skipped but left in place for the sweep.
	Collection(ctx context.Context) (map[string]V, error)

	// Clear removes every key this instance tracks.
	Clear(ctx context.Context) error

	// Size is the live entry count, always computed fresh from Collection.
	Size(ctx context.Context) (int, error)

	// Sweep evicts every tracked entry that has expired. It runs in the
	// background at the TTL interval, but may also be invoked directly;
	// concurrent and repeated sweeps are safe.
	Sweep(ctx context.Context) error

	// DeriveKey maps a caller key to its namespaced storage key. A key that
	// is already one of this instance's storage keys passes through
	// unchanged, so DeriveKey(DeriveKey(k)) == DeriveKey(k).
	DeriveKey(key string) string

	TTL() time.Duration

	// SetTTL replaces the TTL and reschedules the background sweep.
	// A non-positive value disables expiry and sweeping.
	SetTTL(ttl time.Duration)
}

// Options tune a cache instance.
// Only Namespace and Backend are required; others have sensible defaults.
type Options[V any] struct {
	// Required
	Namespace string // logical namespace to avoid collisions, e.g. "user", "session"
	Backend   be.Backend

	Codec  c.Codec[V]    // nil => codec.JSON[V]
	TTL    time.Duration // 0 => 1h; negative => expiry disabled
	Logger Logger        // nil => NopLogger
	Hooks  Hooks         // nil => NopHooks
}

// New builds a cache over an explicitly injected backend. Construction scans
// the backend for keys already under this namespace and adopts them.
func New[V any](ctx context.Context, opts Options[V]) (Cache[V], error) {
	return newCache[V](ctx, opts)
}

// Kind selects one of the built-in backends for Open.
type Kind string

const (
	// KindMemory is the in-process volatile map (default).
	KindMemory Kind = "memory"
	// KindPersistent is the durable Redis-backed store.
	KindPersistent Kind = "persistent"
	// KindSession is the process-lifetime BigCache-backed store.
	KindSession Kind = "session"
)

// Config selects and configures a built-in backend for Open.
type Config struct {
	Kind Kind // "" => KindMemory

	Redis    redisbe.Config    // used when Kind == KindPersistent
	BigCache bigcachebe.Config // used when Kind == KindSession
}

// Open is the selector-based constructor: it builds the backend named by
// cfg.Kind and hands it to New. An unrecognized kind fails construction
// with ErrUnknownKind.
func Open[V any](ctx context.Context, cfg Config, opts Options[V]) (Cache[V], error) {
	kind := cfg.Kind
	if kind == "" {
		kind = KindMemory
	}
	switch kind {
	case KindMemory:
		opts.Backend = memorybe.New()
	case KindPersistent:
		b, err := redisbe.New(cfg.Redis)
		if err != nil {
			return nil, err
		}
		opts.Backend = b
	case KindSession:
		b, err := bigcachebe.New(cfg.BigCache)
		if err != nil {
			return nil, err
		}
		opts.Backend = b
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return newCache[V](ctx, opts)
}
