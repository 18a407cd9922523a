// Package backend defines the storage abstraction used by nscache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key (no prepended/appended
// metadata, no re-encoding, no mutation). If a store performs internal transforms
// (e.g., compression), they MUST be fully reversed so that the bytes returned by
// Get are identical to the bytes provided to Set.
//
// A backend may be shared by many cache instances; each instance owns only the
// keys under its namespace prefix. Keys enumerates the whole medium - filtering
// by namespace is the caller's job.
package backend

import "context"

// Backend is a minimal byte store addressed by string keys.
// Must be safe for concurrent use.
type Backend interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Del removes a key. Deleting an absent key is a no-op, not an error.
	Del(ctx context.Context, key string) error

	// Keys returns every key currently present in the medium,
	// not just the caller's namespace.
	Keys(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close(ctx context.Context) error
}
