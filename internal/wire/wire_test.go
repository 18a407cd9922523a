package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func mustDecode(t *testing.T, b []byte) (uint64, []byte) {
	t.Helper()
	at, p, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	return at, p
}

func TestRoundTripEmptyAndNonEmpty(t *testing.T) {
	cases := []struct {
		writtenAt uint64
		payload   []byte
	}{
		{0, nil},
		{1700000000000, []byte("hello")},
		{math.MaxUint64, []byte{0, 1, 2, 3, 4}},
	}
	for _, tc := range cases {
		enc := Encode(tc.writtenAt, tc.payload)
		at, p := mustDecode(t, enc)
		if at != tc.writtenAt {
			t.Fatalf("writtenAt mismatch: got %d want %d", at, tc.writtenAt)
		}
		if !bytes.Equal(p, tc.payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, tc.payload)
		}
	}
}

func TestRejectsTrailingBytes(t *testing.T) {
	enc := Encode(7, []byte("x"))
	enc = append(enc, 0xDE, 0xAD) // add junk
	if _, _, err := Decode(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestCorruptHeadersAndLengths(t *testing.T) {
	enc := Encode(1, []byte("abc"))

	// bad magic
	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, _, err := Decode(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	// wrong version
	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, _, err := Decode(badVer); err == nil {
		t.Fatalf("expected error on wrong version")
	}

	// truncated header
	if _, _, err := Decode(enc[:8]); err == nil {
		t.Fatalf("expected error on truncated header")
	}

	// vlen larger than remaining bytes
	badLen := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(badLen[13:17], 1<<30)
	if _, _, err := Decode(badLen); err == nil {
		t.Fatalf("expected error on oversized vlen")
	}
}

func TestHasEnvelope(t *testing.T) {
	if !HasEnvelope(Encode(1, []byte("v"))) {
		t.Fatalf("HasEnvelope false for encoded frame")
	}
	if HasEnvelope([]byte(`{"plain":"json"}`)) {
		t.Fatalf("HasEnvelope true for foreign bytes")
	}
	if HasEnvelope(nil) {
		t.Fatalf("HasEnvelope true for nil")
	}
}
