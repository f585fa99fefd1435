// Package corpus is a provider-agnostic, content-addressed cache of
// previously-validated NRF-1.1 byte vectors: given a candidate input, has it
// already been decoded (or rejected) during this or a prior fuzzing/
// differential-test run, and with what verdict? Reusing that verdict lets a
// sweep skip re-running the decoder on inputs it has already classified.
//
// The design borrows its CAS-with-generations shape directly from a
// general-purpose cache library: a pluggable Provider stores opaque bytes,
// a pluggable Codec serializes the cached value, and a GenStore tracks a
// per-key generation so a write can be rejected as stale. Here the
// generation doubles as a schema version: bumping it invalidates every
// previously cached verdict at once, which is what must happen when the
// pinned Unicode table version changes and a string that was rejected
// NotNFC under the old table might now be accepted.
package corpus

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs. Implementations must be safe
// for concurrent use and byte-for-byte transparent: Get must return exactly
// the bytes previously passed to Set for the same key, with no prepended or
// appended metadata.
//
// The keyspaces "single:<ns>:" and "bulk:<ns>:" are owned by this package;
// external writers must not write under these prefixes.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value with the given TTL, returning ok=false if the store
	// rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)
	// Del removes a key, best-effort.
	Del(ctx context.Context, key string) error
	// Close releases resources.
	Close(ctx context.Context) error
}
