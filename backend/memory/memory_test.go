package memory

import (
	"bytes"
	"context"
	"sort"
	"testing"
)

func TestGetSetDel(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, ok, err := s.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("Get on empty store: ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	b, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || !bytes.Equal(b, []byte("v1")) {
		t.Fatalf("Get: ok=%v err=%v b=%q", ok, err, b)
	}

	if err := s.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("overwrite Set: %v", err)
	}
	if b, _, _ := s.Get(ctx, "k"); !bytes.Equal(b, []byte("v2")) {
		t.Fatalf("overwrite not visible: %q", b)
	}

	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del absent key: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("key survived Del")
	}
}

func TestSetCopiesValue(t *testing.T) {
	ctx := context.Background()
	s := New()

	v := []byte("abc")
	if err := s.Set(ctx, "k", v); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v[0] = 'X' // caller mutates after Set

	b, _, _ := s.Get(ctx, "k")
	if !bytes.Equal(b, []byte("abc")) {
		t.Fatalf("stored bytes aliased caller slice: %q", b)
	}
}

func TestKeysEnumeratesAll(t *testing.T) {
	ctx := context.Background()
	s := New()

	want := []string{"a_1", "a_2", "b_1"}
	for _, k := range want {
		if err := s.Set(ctx, k, []byte("x")); err != nil {
			t.Fatalf("Set %q: %v", k, err)
		}
	}

	got, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(got)
	if len(got) != len(want) {
		t.Fatalf("Keys: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys: got %v want %v", got, want)
		}
	}
}

func TestCloseKeepsData(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); !ok {
		t.Fatalf("Close dropped stored data")
	}
}
