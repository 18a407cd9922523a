// Package sloghooks is a ready-made Hooks sink over log/slog, with sampling
// for the chatty events and key redaction (storage keys may embed namespaces
// you don't want in logs verbatim).
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/cachekit/nscache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	ExpiredEvery  uint64
	SelfHealEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	expiredCtr  atomic.Uint64
	selfHealCtr atomic.Uint64
}

var _ nscache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) EntryExpired(storageKey, source string) {
	if h.l == nil || !sample(h.opts.ExpiredEvery, &h.expiredCtr) {
		return
	}
	h.l.Debug("nscache.entry_expired",
		"key", h.redact(storageKey),
		"source", source)
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("nscache.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) SweepDone(namespace string, scanned, removed int) {
	if h.l == nil || removed == 0 {
		return
	}
	h.l.Debug("nscache.sweep_done",
		"namespace", namespace,
		"scanned", scanned,
		"removed", removed)
}

func (h *Hooks) BackendError(op, storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("nscache.backend_error",
		"op", op,
		"key", h.redact(storageKey),
		"err", err)
}
