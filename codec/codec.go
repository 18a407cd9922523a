// Package codec serializes cache values. The cache stores opaque payloads;
// a Codec turns the caller's value type into those bytes and back.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
