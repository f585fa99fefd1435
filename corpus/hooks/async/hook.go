// Package asynchook wraps a corpus.Hooks so that every callback runs on a
// small worker pool instead of the caller's goroutine. Events are dropped
// (not blocked on) once the queue is full, trading completeness for the
// guarantee that a slow hook never stalls a cache operation.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{SelfHealEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000)
//	defer hooks.Close()
//
//	cc, _ := corpus.New(corpus.Options{Provider: p, Hooks: hooks})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/nrf1/corpus"
)

type Hooks struct {
	inner corpus.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ corpus.Hooks = (*Hooks)(nil)

func New(inner corpus.Hooks, workers, qlen int) *Hooks {
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

// Close stops accepting new events, drains the queue and waits for workers
// to finish. Safe to call more than once.
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

func (h *Hooks) SelfHeal(k, r string)     { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) SetRejected(k string)     { h.try(func() { h.inner.SetRejected(k) }) }
func (h *Hooks) GenSnapshotError(e error) { h.try(func() { h.inner.GenSnapshotError(e) }) }
func (h *Hooks) GenBumpError(k string, e error) {
	h.try(func() { h.inner.GenBumpError(k, e) })
}
