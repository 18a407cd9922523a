// Package nscache implements a namespaced, TTL-expiring key-value cache over
// pluggable byte-store backends.
//
// Components:
//   - Backend: byte store addressed by string keys (in-process map, Redis,
//     BigCache). A backend may be shared by many cache instances.
//   - Codec[V]: (de)serializes V <-> []byte.
//   - Envelope: every stored value is framed with its write timestamp, so
//     expiry is decided without understanding the payload.
//
// Keys:
//
//	<namespace>_<xxhash64(key)> - storage keys are namespace-scoped and hashed,
//	so arbitrary caller keys never collide across namespaces sharing a backend.
//
// Expiry:
//
//	Entries older than the TTL are reported absent on read and evicted by a
//	background sweep that runs at the TTL interval. A non-positive TTL disables
//	both. Closing the cache stops the sweep; stored data is left in place.
package nscache
