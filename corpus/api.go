package corpus

import (
	"context"
	"time"

	"github.com/unkn0wn-root/nrf1"
	c "github.com/unkn0wn-root/nrf1/corpus/codec"
	gen "github.com/unkn0wn-root/nrf1/corpus/genstore"
)

// Cache is the provider-agnostic corpus cache API, keyed by content hash
// with CAS safety via a single schema generation.
type Cache interface {
	Enabled() bool
	Close(context.Context) error

	// Get looks up the verdict previously recorded for key, the hex xxhash
	// of a candidate's bytes (see Key). ok is false on miss or on a stale
	// entry recorded under a superseded schema generation.
	Get(ctx context.Context, key string) (e Entry, ok bool, err error)
	// Set records e's verdict under key, tagged with the schema generation
	// observed via SnapshotGen. A write against a stale generation is
	// silently skipped.
	Set(ctx context.Context, key string, e Entry, observedGen uint64, ttl time.Duration) error
	// Invalidate forgets key's entry and bumps the schema generation. Since
	// there is one generation for the whole cache, the bump also supersedes
	// every other entry recorded under the previous generation.
	Invalidate(ctx context.Context, key string) error

	// SnapshotGen returns the schema generation in effect right now.
	SnapshotGen() uint64
	// BumpGen advances the schema generation, invalidating every entry
	// recorded against an earlier one. Call this when the pinned Unicode
	// table version changes or any other change could alter
	// a previously recorded verdict.
	BumpGen(ctx context.Context) (uint64, error)

	// Stats reports this instance's cumulative Get hit/miss counts.
	Stats() Stats
}

// Stats is a point-in-time snapshot of a cache instance's lookup counters.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// HitRate returns Hits / (Hits + Misses), or 0 if there have been no
// lookups yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Options tune the corpus cache. Only Provider is required.
type Options struct {
	Provider Provider
	Codec    c.Codec[Entry] // nil => codec.CBOR[Entry] (deterministic)

	Logger          nrf1.Logger
	Hooks           Hooks // nil => NopHooks
	DefaultTTL      time.Duration // 0 => 30 days
	CleanupInterval time.Duration // 0 => 1h
	GenRetention    time.Duration // 0 => 30 days
	Disabled        bool
	GenStore        gen.GenStore // nil => LocalGenStore (in-process)
}

// New constructs a Cache from opts.
func New(opts Options) (Cache, error) {
	return newCache(opts)
}
