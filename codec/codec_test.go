package codec

import (
	"testing"
)

type sample struct {
	Name string `json:"name" msgpack:"name"`
	N    int    `json:"n" msgpack:"n"`
}

func TestJSONRoundTrip(t *testing.T) {
	var cod JSON[sample]
	in := sample{Name: "ada", N: 7}
	b, err := cod.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := cod.Decode(b)
	if err != nil || out != in {
		t.Fatalf("Decode: err=%v out=%+v", err, out)
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	var cod Msgpack[sample]
	in := sample{Name: "ada", N: 7}
	b, err := cod.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := cod.Decode(b)
	if err != nil || out != in {
		t.Fatalf("Decode: err=%v out=%+v", err, out)
	}
}

func TestCBORRoundTrip(t *testing.T) {
	cod := MustCBOR[sample](true)
	in := sample{Name: "ada", N: 7}
	b, err := cod.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := cod.Decode(b)
	if err != nil || out != in {
		t.Fatalf("Decode: err=%v out=%+v", err, out)
	}
}

func TestLimitRejectsOversized(t *testing.T) {
	cod := Limit[sample]{Inner: JSON[sample]{}, MaxDecode: 4}
	b, err := cod.Encode(sample{Name: "way too long"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := cod.Decode(b); err == nil {
		t.Fatalf("expected decode size error")
	}

	// Limit disabled.
	cod.MaxDecode = 0
	if _, err := cod.Decode(b); err != nil {
		t.Fatalf("Decode with limit off: %v", err)
	}
}

func TestIdentityCodecs(t *testing.T) {
	if b, err := (Bytes{}).Encode([]byte("x")); err != nil || string(b) != "x" {
		t.Fatalf("Bytes.Encode: %q %v", b, err)
	}
	if s, err := (String{}).Decode([]byte("x")); err != nil || s != "x" {
		t.Fatalf("String.Decode: %q %v", s, err)
	}
}
