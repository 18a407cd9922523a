// Package wire frames cache entries for storage. Every value written through
// the cache is wrapped in an envelope carrying its write timestamp, so expiry
// can be decided without understanding the payload.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const version byte = 1

var (
	ErrCorrupt = errors.New("nscache: corrupt entry")
	magic4     = [...]byte{'N', 'S', 'C', 'E'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// HasEnvelope reports whether b starts with the envelope magic. Values without
// it are treated as pre-existing foreign data, never as corruption.
func HasEnvelope(b []byte) bool { return hasMagic(b) }

// Envelope: magic(4) | ver(1) | writtenAt unix millis (u64 be) | vlen(u32 be) | payload(vlen)
func Encode(writtenAtMillis uint64, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 8 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], writtenAtMillis)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

func Decode(b []byte) (writtenAtMillis uint64, payload []byte, err error) {
	const hdr = 4 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version {
		return 0, nil, ErrCorrupt
	}

	off := 5

	writtenAtMillis = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen != len(b)-off { // exact length; trailing junk is corruption
		return 0, nil, ErrCorrupt
	}

	return writtenAtMillis, b[off : off+vlen], nil
}
