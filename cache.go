package nscache

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	be "github.com/cachekit/nscache/backend"
	c "github.com/cachekit/nscache/codec"
	"github.com/cachekit/nscache/internal/wire"
)

const defaultTTL = time.Hour

// maxSchedulable is the overflow guard for the sweep scheduler. A TTL at or
// above it disables expiry and sweeping entirely.
const maxSchedulable = time.Duration(math.MaxInt32) * time.Millisecond

type cache[V any] struct {
	ns     string
	prefix string // ns + "_"

	backend be.Backend
	codec   c.Codec[V]
	log     Logger
	hooks   Hooks
	now     func() time.Time

	mu     sync.Mutex
	ttl    time.Duration
	keys   []string            // tracked storage keys, stable order
	keyIdx map[string]struct{} // tracked-set membership
	ticker *time.Ticker
	stopCh chan struct{}
	closed bool

	sweepWg   sync.WaitGroup
	closeOnce sync.Once
}

func newCache[V any](ctx context.Context, opts Options[V]) (*cache[V], error) {
	if opts.Namespace == "" {
		return nil, ErrNamespaceRequired
	}
	if opts.Backend == nil {
		return nil, ErrBackendRequired
	}

	cc := &cache[V]{
		ns:      opts.Namespace,
		prefix:  opts.Namespace + "_",
		backend: opts.Backend,
		keyIdx:  make(map[string]struct{}),
		now:     time.Now,
	}

	// defaults
	cc.log = coalesce[Logger](opts.Logger, NopLogger{})
	cc.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	if opts.Codec != nil {
		cc.codec = opts.Codec
	} else {
		cc.codec = c.JSON[V]{}
	}

	// adopt keys already stored under this namespace
	all, err := cc.backend.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("nscache: scan backend: %w", err)
	}
	for _, k := range all {
		if strings.HasPrefix(k, cc.prefix) {
			cc.track(k)
		}
	}

	cc.SetTTL(coalesce[time.Duration](opts.TTL, defaultTTL))
	return cc, nil
}

func (cc *cache[V]) Namespace() string { return cc.ns }

func (cc *cache[V]) TTL() time.Duration {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.ttl
}

// SetTTL stores the new TTL and reschedules the sweep: the previous recurring
// sweep is cancelled first; an in-progress sweep run finishes on its own.
func (cc *cache[V]) SetTTL(ttl time.Duration) {
	cc.mu.Lock()
	cc.ttl = ttl
	oldStop, oldTicker := cc.stopCh, cc.ticker
	cc.stopCh, cc.ticker = nil, nil
	if !cc.closed && expiryActive(ttl) {
		t := time.NewTicker(ttl)
		stop := make(chan struct{})
		cc.ticker, cc.stopCh = t, stop
		cc.sweepWg.Add(1)
		go cc.sweepLoop(t, stop)
	}
	cc.mu.Unlock()

	if oldStop != nil {
		close(oldStop)
		oldTicker.Stop()
	}
}

func expiryActive(ttl time.Duration) bool {
	return ttl > 0 && ttl < maxSchedulable
}

// Close cancels the recurring sweep, waits for any in-flight run, and closes
// the backend. Stored entries are NOT deleted. Safe to call multiple times.
func (cc *cache[V]) Close(ctx context.Context) error {
	var err error
	cc.closeOnce.Do(func() {
		cc.mu.Lock()
		cc.closed = true
		stop, ticker := cc.stopCh, cc.ticker
		cc.stopCh, cc.ticker = nil, nil
		cc.keys = nil
		cc.keyIdx = make(map[string]struct{})
		cc.mu.Unlock()

		if stop != nil {
			close(stop)
			ticker.Stop()
		}
		cc.sweepWg.Wait()
		err = cc.backend.Close(ctx)
	})
	return err
}

func (cc *cache[V]) Set(ctx context.Context, key string, value V) error {
	k := cc.DeriveKey(key)
	payload, err := cc.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("nscache: encode %q: %w", key, err)
	}
	raw := wire.Encode(uint64(cc.now().UnixMilli()), payload)
	if err := cc.backend.Set(ctx, k, raw); err != nil {
		cc.hooks.BackendError("set", k, err)
		return fmt.Errorf("nscache: set %q: %w", key, err)
	}
	cc.track(k)
	return nil
}

func (cc *cache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	k := cc.DeriveKey(key)
	raw, ok, err := cc.backend.Get(ctx, k)
	if err != nil {
		cc.hooks.BackendError("get", k, err)
		return zero, false, err
	}
	if !ok {
		cc.untrack(k)
		return zero, false, nil
	}

	if !wire.HasEnvelope(raw) {
		// Pre-existing foreign value under our keyspace: pass it through.
		v, derr := cc.codec.Decode(raw)
		if derr != nil {
			return zero, false, nil
		}
		return v, true, nil
	}

	writtenAt, payload, derr := wire.Decode(raw)
	if derr != nil {
		cc.selfHeal(ctx, k, "corrupt")
		return zero, false, nil
	}
	if cc.expiredAt(writtenAt) {
		_ = cc.backend.Del(ctx, k)
		cc.untrack(k)
		cc.hooks.EntryExpired(k, "get")
		return zero, false, nil
	}
	v, derr := cc.codec.Decode(payload)
	if derr != nil {
		cc.selfHeal(ctx, k, "value_decode")
		return zero, false, nil
	}
	return v, true, nil
}

func (cc *cache[V]) Remove(ctx context.Context, key string) error {
	k := cc.DeriveKey(key)
	cc.mu.Lock()
	_, tracked := cc.keyIdx[k]
	cc.mu.Unlock()
	if !tracked {
		return nil
	}
	if err := cc.backend.Del(ctx, k); err != nil {
		cc.hooks.BackendError("del", k, err)
		return fmt.Errorf("nscache: remove %q: %w", key, err)
	}
	cc.untrack(k)
	return nil
}

func (cc *cache[V]) Collection(ctx context.Context) (map[string]V, error) {
	all, err := cc.backend.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("nscache: scan backend: %w", err)
	}
	var mine []string
	for _, k := range all {
		if strings.HasPrefix(k, cc.prefix) {
			mine = append(mine, k)
		}
	}
	sort.Strings(mine)
	cc.replaceTracked(mine)

	out := make(map[string]V, len(mine))
	for _, k := range mine {
		raw, ok, err := cc.backend.Get(ctx, k)
		if err != nil {
			cc.hooks.BackendError("get", k, err)
			return nil, fmt.Errorf("nscache: read %q: %w", k, err)
		}
		if !ok {
			continue
		}
		if !wire.HasEnvelope(raw) {
			if v, derr := cc.codec.Decode(raw); derr == nil {
				out[k] = v
			}
			continue
		}
		writtenAt, payload, derr := wire.Decode(raw)
		if derr != nil {
			continue
		}
		// expired entries are skipped but not removed; that's the sweep's job
		if cc.expiredAt(writtenAt) {
			continue
		}
		v, derr := cc.codec.Decode(payload)
		if derr != nil {
			continue
		}
		out[k] = v
	}
	return out, nil
}

// Clear removes every tracked key. A key whose delete fails stays tracked,
// so a retry covers exactly the leftovers.
func (cc *cache[V]) Clear(ctx context.Context) error {
	var errs []error
	for _, k := range cc.trackedSnapshot() {
		if err := cc.backend.Del(ctx, k); err != nil {
			cc.hooks.BackendError("del", k, err)
			errs = append(errs, fmt.Errorf("nscache: clear %s: %w", k, err))
			continue
		}
		cc.untrack(k)
	}
	return errors.Join(errs...)
}

func (cc *cache[V]) Size(ctx context.Context) (int, error) {
	coll, err := cc.Collection(ctx)
	if err != nil {
		return 0, err
	}
	return len(coll), nil
}

// Sweep evicts every tracked key whose entry has expired. A failure on one key
// never aborts the rest; failures are aggregated into a SweepError.
func (cc *cache[V]) Sweep(ctx context.Context) error {
	if !expiryActive(cc.TTL()) {
		return nil
	}
	snapshot := cc.trackedSnapshot()
	var (
		errs    []error
		removed int
	)
	for _, k := range snapshot {
		expired, err := cc.isExpired(ctx, k)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
			continue
		}
		if !expired {
			continue
		}
		// the tracked-set passthrough in DeriveKey routes this through the
		// ordinary remove path, keeping tracking consistent
		if err := cc.Remove(ctx, k); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
		cc.hooks.EntryExpired(k, "sweep")
	}
	cc.hooks.SweepDone(cc.ns, len(snapshot), removed)
	if removed > 0 {
		cc.log.Debug("sweep evicted expired entries", Fields{"namespace": cc.ns, "removed": removed, "scanned": len(snapshot)})
	}
	if len(errs) > 0 {
		return &SweepError{Namespace: cc.ns, Errs: errs}
	}
	return nil
}

// isExpired decides expiry for a storage key. An absent entry counts as
// expired; a value without envelope framing never does (legacy passthrough
// data); a corrupt frame behaves like an absent one.
func (cc *cache[V]) isExpired(ctx context.Context, storageKey string) (bool, error) {
	if !expiryActive(cc.TTL()) {
		return false, nil
	}
	raw, ok, err := cc.backend.Get(ctx, storageKey)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	if !wire.HasEnvelope(raw) {
		return false, nil
	}
	writtenAt, _, derr := wire.Decode(raw)
	if derr != nil {
		return true, nil
	}
	return cc.expiredAt(writtenAt), nil
}

func (cc *cache[V]) expiredAt(writtenAtMillis uint64) bool {
	ttl := cc.TTL()
	if !expiryActive(ttl) {
		return false
	}
	return time.UnixMilli(int64(writtenAtMillis)).Before(cc.now().Add(-ttl))
}

func (cc *cache[V]) selfHeal(ctx context.Context, storageKey, reason string) {
	_ = cc.backend.Del(ctx, storageKey)
	cc.untrack(storageKey)
	cc.hooks.SelfHeal(storageKey, reason)
	cc.log.Debug("self-healed bad entry", Fields{"key": storageKey, "reason": reason})
}

func (cc *cache[V]) sweepLoop(ticker *time.Ticker, stop chan struct{}) {
	defer cc.sweepWg.Done()
	for {
		select {
		case <-ticker.C:
			if err := cc.Sweep(context.Background()); err != nil {
				cc.log.Warn("sweep finished with errors", Fields{"namespace": cc.ns, "err": err})
			}
		case <-stop:
			return
		}
	}
}

// tracked key set

func (cc *cache[V]) track(k string) {
	cc.mu.Lock()
	if _, ok := cc.keyIdx[k]; !ok {
		cc.keyIdx[k] = struct{}{}
		cc.keys = append(cc.keys, k)
	}
	cc.mu.Unlock()
}

func (cc *cache[V]) untrack(k string) {
	cc.mu.Lock()
	if _, ok := cc.keyIdx[k]; ok {
		delete(cc.keyIdx, k)
		for i, kk := range cc.keys {
			if kk == k {
				cc.keys = append(cc.keys[:i], cc.keys[i+1:]...)
				break
			}
		}
	}
	cc.mu.Unlock()
}

func (cc *cache[V]) trackedSnapshot() []string {
	cc.mu.Lock()
	out := make([]string, len(cc.keys))
	copy(out, cc.keys)
	cc.mu.Unlock()
	return out
}

func (cc *cache[V]) replaceTracked(keys []string) {
	idx := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		idx[k] = struct{}{}
	}
	cc.mu.Lock()
	cc.keys = append([]string(nil), keys...)
	cc.keyIdx = idx
	cc.mu.Unlock()
}
