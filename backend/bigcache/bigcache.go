// Package bigcache provides the session-scoped backend: entries survive
// individual cache instances but not the process. Backed by allegro/bigcache,
// which keeps values off-heap and out of GC scans.
package bigcache

import (
	"context"
	"time"

	bc "github.com/allegro/bigcache/v3"

	be "github.com/cachekit/nscache/backend"
)

type Store struct {
	c *bc.BigCache
}

var _ be.Backend = (*Store)(nil)

type Config struct {
	// LifeWindow caps how long bigcache itself retains entries.
	// 0 => 24h. Keep it comfortably above the cache layer's TTL;
	// expiry decisions belong to the cache layer, this is a backstop.
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Store, error) {
	life := cfg.LifeWindow
	if life <= 0 {
		life = 24 * time.Hour
	}
	conf := bc.DefaultConfig(life)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.New(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := s.c.Get(key)
	if err == bc.ErrEntryNotFound {
		return nil, false, nil
	}
	return b, err == nil, err
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	return s.c.Set(key, value)
}

func (s *Store) Del(_ context.Context, key string) error {
	if err := s.c.Delete(key); err != nil && err != bc.ErrEntryNotFound {
		return err
	}
	return nil
}

func (s *Store) Keys(_ context.Context) ([]string, error) {
	var out []string
	it := s.c.Iterator()
	for it.SetNext() {
		info, err := it.Value()
		if err != nil {
			continue // entry evicted mid-iteration
		}
		out = append(out, info.Key())
	}
	return out, nil
}

func (s *Store) Close(_ context.Context) error {
	return s.c.Close()
}
