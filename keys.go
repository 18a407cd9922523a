package nscache

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// DeriveKey maps a caller key to its storage key: namespace + "_" + the
// xxhash64 of the key, hex-encoded. xxhash is fast and deterministic;
// collision resistance here is for cache-key purposes, not security.
//
// A key that is already a member of the tracked key set is returned unchanged.
// This is a deliberate affordance for re-entrant internal paths (the sweep
// removes by storage key through the public remove path), not a type-safety
// boundary; it makes derivation idempotent under repeated application.
func (cc *cache[V]) DeriveKey(key string) string {
	cc.mu.Lock()
	_, tracked := cc.keyIdx[key]
	cc.mu.Unlock()
	if tracked {
		return key
	}
	return cc.prefix + strconv.FormatUint(xxhash.Sum64String(key), 16)
}
