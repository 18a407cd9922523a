// Package asynchook decouples hook callbacks from the cache's hot paths:
// events are queued to a bounded channel and delivered by worker goroutines.
// When the queue is full, events are dropped rather than blocking the cache.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{ExpiredEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := nscache.New[User](ctx, nscache.Options[User]{
//	    Namespace: "user",
//	    Backend:   store,
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/cachekit/nscache"
)

type Hooks struct {
	inner nscache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ nscache.Hooks = (*Hooks)(nil)

func New(inner nscache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) EntryExpired(k, src string) { h.try(func() { h.inner.EntryExpired(k, src) }) }
func (h *Hooks) SelfHeal(k, r string)       { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) SweepDone(ns string, scanned, removed int) {
	h.try(func() { h.inner.SweepDone(ns, scanned, removed) })
}
func (h *Hooks) BackendError(op, k string, err error) {
	h.try(func() { h.inner.BackendError(op, k, err) })
}
