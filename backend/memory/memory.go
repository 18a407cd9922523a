// Package memory provides the in-process volatile backend.
package memory

import (
	"context"
	"sync"

	be "github.com/cachekit/nscache/backend"
)

// Store is a mutex-guarded map backend. Values live for the lifetime of the
// process (or until deleted); there is no eviction of any kind - expiry is the
// cache layer's job.
type Store struct {
	mu sync.RWMutex
	m  map[string][]byte
}

var _ be.Backend = (*Store)(nil)

func New() *Store {
	return &Store{m: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	// copy so callers can't mutate stored bytes after Set returns
	cp := make([]byte, len(value))
	copy(cp, value)
	s.mu.Lock()
	s.m[key] = cp
	s.mu.Unlock()
	return nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	s.mu.RUnlock()
	return out, nil
}

// Close is a no-op: the store may be shared by several cache instances, and
// closing one of them must not discard the others' data.
func (s *Store) Close(_ context.Context) error { return nil }

// Len reports the number of stored keys. Test/diagnostic helper,
// not part of the backend contract.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
