// Package sloghooks logs corpus.Hooks events through log/slog, redacting
// keys to a short hash prefix by default so candidate content hashes never
// land in log output verbatim more than necessary.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/nrf1/corpus"
)

type Options struct {
	// SelfHealEvery samples self-heal logs; 0 or 1 logs every occurrence.
	SelfHealEvery uint64
	// Redact overrides the default key redactor (SHA-256 prefix).
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr atomic.Uint64
}

var _ corpus.Hooks = (*Hooks)(nil)

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

func (h *Hooks) SelfHeal(key, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("corpus.self_heal", "key", h.redact(key), "reason", reason)
}

func (h *Hooks) SetRejected(key string) {
	if h.l == nil {
		return
	}
	h.l.Warn("corpus.set_rejected", "key", h.redact(key))
}

func (h *Hooks) GenSnapshotError(err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("corpus.gen_snapshot_error", "err", err)
}

func (h *Hooks) GenBumpError(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("corpus.gen_bump_error", "key", h.redact(key), "err", err)
}
