package corpus

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/nrf1"
	c "github.com/unkn0wn-root/nrf1/corpus/codec"
	gen "github.com/unkn0wn-root/nrf1/corpus/genstore"
	"github.com/unkn0wn-root/nrf1/corpus/internal/frame"
)

const (
	defaultTTL          = 30 * 24 * time.Hour
	defaultGenRetention = 30 * 24 * time.Hour
	defaultSweep        = time.Hour

	// schemaGenKey is the single generation key every entry is checked
	// against. Unlike a per-entity cache, a corpus entry's correctness
	// depends on global decoder state (the pinned Unicode table), not on
	// anything tied to its own key, so there is exactly one generation.
	schemaGenKey = "schema"
)

type cache struct {
	provider     Provider
	codec        c.Codec[Entry]
	log          nrf1.Logger
	hooks        Hooks
	enabled      bool
	defaultTTL   time.Duration
	genRetention time.Duration
	gen          gen.GenStore

	hits   atomic.Uint64
	misses atomic.Uint64
}

func newCache(opts Options) (*cache, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("corpus: provider is required")
	}

	ch := &cache{
		provider: opts.Provider,
		enabled:  !opts.Disabled,
	}
	ch.codec = opts.Codec
	if ch.codec == nil {
		ch.codec = c.MustCBOR[Entry](true)
	}
	ch.log = coalesce[nrf1.Logger](opts.Logger, nrf1.NopLogger{})
	ch.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	ch.defaultTTL = coalesce(opts.DefaultTTL, defaultTTL)
	ch.genRetention = coalesce(opts.GenRetention, defaultGenRetention)

	sweep := coalesce(opts.CleanupInterval, defaultSweep)
	if opts.GenStore != nil {
		ch.gen = opts.GenStore
	} else {
		ch.gen = gen.NewLocalGenStore(sweep, ch.genRetention)
	}
	return ch, nil
}

func (c *cache) Enabled() bool { return c.enabled }

func (c *cache) Close(ctx context.Context) error {
	if c.gen != nil {
		_ = c.gen.Close(ctx)
	}
	if c.provider != nil {
		return c.provider.Close(ctx)
	}
	return nil
}

func (c *cache) storageKey(key string) string { return "single:corpus:" + key }

func (c *cache) Get(ctx context.Context, key string) (Entry, bool, error) {
	var zero Entry
	if !c.enabled {
		return zero, false, nil
	}
	sk := c.storageKey(key)
	raw, ok, err := c.provider.Get(ctx, sk)
	if err != nil || !ok {
		c.misses.Add(1)
		return zero, false, err
	}
	genv, payload, err := frame.DecodeSingle(raw)
	if err != nil {
		_ = c.provider.Del(ctx, sk)
		c.log.Warn("corpus self-heal: corrupt frame", nrf1.Fields{"key": key})
		c.hooks.SelfHeal(key, "corrupt frame")
		c.misses.Add(1)
		return zero, false, nil
	}
	if genv != c.snapshotGen(ctx) {
		_ = c.provider.Del(ctx, sk)
		c.log.Debug("corpus self-heal: stale generation", nrf1.Fields{"key": key})
		c.hooks.SelfHeal(key, "stale generation")
		c.misses.Add(1)
		return zero, false, nil
	}
	e, err := c.codec.Decode(payload)
	if err != nil {
		_ = c.provider.Del(ctx, sk)
		c.log.Warn("corpus self-heal: undecodable entry", nrf1.Fields{"key": key})
		c.hooks.SelfHeal(key, "undecodable entry")
		c.misses.Add(1)
		return zero, false, nil
	}
	c.hits.Add(1)
	return e, true, nil
}

// Stats reports cumulative lookup counts for this cache instance since
// construction; it does not reflect state from other processes sharing the
// same provider.
func (c *cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func (c *cache) Set(ctx context.Context, key string, e Entry, observedGen uint64, ttl time.Duration) error {
	if !c.enabled {
		return nil
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	if c.snapshotGen(ctx) != observedGen {
		c.log.Debug("corpus set skipped (gen mismatch)", nrf1.Fields{"key": key, "obs": observedGen})
		return nil
	}
	payload, err := c.codec.Encode(e)
	if err != nil {
		return err
	}
	wireb := frame.EncodeSingle(observedGen, payload)
	ok, err := c.provider.Set(ctx, c.storageKey(key), wireb, int64(len(wireb)), ttl)
	if err != nil {
		return err
	}
	if !ok {
		c.log.Debug("corpus set rejected by provider", nrf1.Fields{"key": key})
		c.hooks.SetRejected(key)
	}
	return nil
}

func (c *cache) Invalidate(ctx context.Context, key string) error {
	if !c.enabled {
		return nil
	}
	sk := c.storageKey(key)
	bumpErr := c.bumpGen(ctx)
	delErr := c.provider.Del(ctx, sk)
	if bumpErr != nil || delErr != nil {
		if delErr != nil {
			return &InvalidateError{Key: key, BumpErr: bumpErr, DelErr: delErr}
		}
		c.log.Error("corpus invalidate: gen bump failed, delete ok", nrf1.Fields{"key": key, "err": bumpErr})
		c.hooks.GenBumpError(key, bumpErr)
	}
	return nil
}

func (c *cache) SnapshotGen() uint64 { return c.snapshotGen(context.Background()) }

func (c *cache) BumpGen(ctx context.Context) (uint64, error) {
	g, err := c.gen.Bump(ctx, schemaGenKey)
	if err != nil {
		c.log.Error("corpus gen bump error", nrf1.Fields{"err": err})
		c.hooks.GenBumpError(schemaGenKey, err)
		return 0, err
	}
	return g, nil
}

func (c *cache) snapshotGen(ctx context.Context) uint64 {
	g, err := c.gen.Snapshot(ctx, schemaGenKey)
	if err != nil {
		c.log.Warn("corpus gen snapshot error", nrf1.Fields{"err": err})
		c.hooks.GenSnapshotError(err)
		return 0
	}
	return g
}

func (c *cache) bumpGen(ctx context.Context) error {
	_, err := c.gen.Bump(ctx, schemaGenKey)
	return err
}
