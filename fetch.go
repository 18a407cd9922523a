package nscache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

var fetchGroup singleflight.Group

// GetOrFetch returns the cached value for key, or calls fn to compute it on a
// miss. Concurrent misses for the same key in the same namespace are
// deduplicated with singleflight, so fn runs once per stampede.
//
// If fn fails, nothing is cached and the error is returned. Caching the
// computed value is best-effort.
func GetOrFetch[V any](ctx context.Context, cache Cache[V], key string, fn func(ctx context.Context) (V, error)) (V, error) {
	// Fast path: cache hit.
	if v, ok, err := cache.Get(ctx, key); err == nil && ok {
		return v, nil
	}

	// Slow path: deduplicate concurrent misses. The group is package-wide,
	// so scope the flight key by namespace.
	res, err, _ := fetchGroup.Do(cache.Namespace()+"\x1f"+key, func() (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		_ = cache.Set(ctx, key, v) // best-effort
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}
