// Package crashtrack keeps a ledger of fuzzer-discovered inputs that made
// the codec misbehave, reduces them to a minimal repro, and re-verifies the
// whole ledger still reproduces after a code change.
//
// A "failure" here is broader than a panic: it is whatever the caller's
// Predicate says. The default, RoundTripPredicate, counts any input that
// fails to decode or that decodes but does not re-encode byte-identically,
// matching the closed-loop checks a fuzz harness built around this codec's
// own round-trip law would run.
package crashtrack

import (
	"sync"

	"github.com/unkn0wn-root/nrf1/corpus"
)

// Record is one tracked crasher: its content-addressed key, the bytes
// themselves, and the human-readable reason it was flagged.
type Record struct {
	Key    string
	Bytes  []byte
	Reason string
}

// Tracker deduplicates crashers by content hash so the same input found by
// two fuzz workers (or before and after minimization) is recorded once.
type Tracker struct {
	mu      sync.Mutex
	records map[string]Record
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{records: make(map[string]Record)}
}

// Record adds b to the ledger under its content key if not already present.
// Returns the key and whether this call actually inserted a new record.
func (t *Tracker) Record(b []byte, reason string) (key string, inserted bool) {
	key = corpus.Key(b)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.records[key]; ok {
		return key, false
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	t.records[key] = Record{Key: key, Bytes: cp, Reason: reason}
	return key, true
}

// Known reports whether b's content hash is already tracked.
func (t *Tracker) Known(b []byte) bool {
	key := corpus.Key(b)
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.records[key]
	return ok
}

// Forget removes a record, e.g. after generate_regression-style promotion
// to a permanent regression test.
func (t *Tracker) Forget(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, key)
}

// Records returns a snapshot of every tracked crasher, in no particular
// order.
func (t *Tracker) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Record, 0, len(t.records))
	for _, r := range t.records {
		out = append(out, r)
	}
	return out
}
