package corpus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/unkn0wn-root/nrf1"
	"github.com/unkn0wn-root/nrf1/corpus/codec"
	"github.com/unkn0wn-root/nrf1/corpus/internal/frame"
)

type memEntry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type memProvider struct {
	m map[string]memEntry
}

var _ Provider = (*memProvider)(nil)

func newMemProvider() *memProvider { return &memProvider{m: make(map[string]memEntry)} }

func (p *memProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := p.m[key]
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(p.m, key)
		return nil, false, nil
	}
	return e.v, true, nil
}

func (p *memProvider) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	p.m[key] = memEntry{v: value, exp: exp}
	return true, nil
}

func (p *memProvider) Del(_ context.Context, key string) error { delete(p.m, key); return nil }
func (p *memProvider) Close(_ context.Context) error           { return nil }

func newTestCache(t *testing.T, mp Provider, optFn func(*Options)) Cache {
	t.Helper()
	opts := Options{Provider: mp}
	if optFn != nil {
		optFn(&opts)
	}
	cc, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return cc
}

func TestCacheGetMiss(t *testing.T) {
	cc := newTestCache(t, newMemProvider(), nil)
	_, ok, err := cc.Get(context.Background(), "deadbeef")
	if err != nil || ok {
		t.Fatalf("Get on empty cache = (%v, %v, %v), want miss", ok, ok, err)
	}
}

func TestCacheSetThenGet(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, newMemProvider(), nil)

	e := Classify([]byte("nrf1\x03"))
	if err := cc.Set(ctx, "k1", e, cc.SnapshotGen(), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := cc.Get(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("Get after Set = (%v, %v, %v), want hit", got, ok, err)
	}
	if got.Accepted != e.Accepted || got.Kind != e.Kind {
		t.Fatalf("Get returned %+v, want %+v", got, e)
	}
}

func TestCacheStatsTracksHitsAndMisses(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, newMemProvider(), nil)

	if _, _, err := cc.Get(ctx, "missing"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	e := Classify([]byte("nrf1\x03"))
	if err := cc.Set(ctx, "k1", e, cc.SnapshotGen(), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, _, err := cc.Get(ctx, "k1"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	st := cc.Stats()
	if st.Hits != 1 || st.Misses != 1 {
		t.Fatalf("Stats = %+v, want 1 hit and 1 miss", st)
	}
	if rate := st.HitRate(); rate != 0.5 {
		t.Fatalf("HitRate = %v, want 0.5", rate)
	}
}

func TestCacheSetSkippedOnStaleGeneration(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, newMemProvider(), nil)

	staleGen := cc.SnapshotGen()
	if _, err := cc.BumpGen(ctx); err != nil {
		t.Fatalf("BumpGen: %v", err)
	}

	e := Classify([]byte("nrf1\x00"))
	if err := cc.Set(ctx, "k1", e, staleGen, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, ok, _ := cc.Get(ctx, "k1"); ok {
		t.Fatalf("Get after stale-generation Set: want miss, got hit")
	}
}

func TestCacheSelfHealsCorruptFrame(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	cc := newTestCache(t, mp, nil)

	impl := cc.(*cache)
	mp.m[impl.storageKey("k1")] = memEntry{v: []byte("not a frame at all")}

	if _, ok, err := cc.Get(ctx, "k1"); err != nil || ok {
		t.Fatalf("Get on corrupt frame = (%v, %v), want (false, nil)", ok, err)
	}
	if _, ok := mp.m[impl.storageKey("k1")]; ok {
		t.Fatalf("corrupt entry was not evicted on self-heal")
	}
}

func TestCacheSelfHealsStaleEntryAfterBumpGen(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, newMemProvider(), nil)

	e := Classify([]byte("nrf1\x00"))
	g := cc.SnapshotGen()
	if err := cc.Set(ctx, "k1", e, g, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := cc.BumpGen(ctx); err != nil {
		t.Fatalf("BumpGen: %v", err)
	}

	if _, ok, err := cc.Get(ctx, "k1"); err != nil || ok {
		t.Fatalf("Get after BumpGen = (%v, %v), want miss", ok, err)
	}
}

func TestCacheInvalidateThenMiss(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, newMemProvider(), nil)

	e := Classify([]byte("nrf1\x00"))
	if err := cc.Set(ctx, "k1", e, cc.SnapshotGen(), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := cc.Invalidate(ctx, "k1"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, err := cc.Get(ctx, "k1"); err != nil || ok {
		t.Fatalf("Get after Invalidate = (%v, %v), want miss", ok, err)
	}
}

func TestCacheDisabledIsAlwaysMiss(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, newMemProvider(), func(o *Options) { o.Disabled = true })

	e := Classify([]byte("nrf1\x00"))
	if err := cc.Set(ctx, "k1", e, cc.SnapshotGen(), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, err := cc.Get(ctx, "k1"); err != nil || ok {
		t.Fatalf("Get on disabled cache = (%v, %v), want miss", ok, err)
	}
	if cc.Enabled() {
		t.Fatalf("Enabled() = true, want false")
	}
}

type countingHooks struct {
	selfHeal int
}

func (h *countingHooks) SelfHeal(string, string)    { h.selfHeal++ }
func (h *countingHooks) SetRejected(string)         {}
func (h *countingHooks) GenSnapshotError(error)     {}
func (h *countingHooks) GenBumpError(string, error) {}

func TestCacheHooksFireOnSelfHeal(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	hooks := &countingHooks{}
	cc := newTestCache(t, mp, func(o *Options) { o.Hooks = hooks })

	impl := cc.(*cache)
	mp.m[impl.storageKey("k1")] = memEntry{v: []byte("garbage")}

	if _, _, err := cc.Get(ctx, "k1"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hooks.selfHeal != 1 {
		t.Fatalf("selfHeal count = %d, want 1", hooks.selfHeal)
	}
}

func TestNewRequiresProvider(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("New with nil Provider: want error, got nil")
	}
}

func TestClassifyRoundTripsThroughFrame(t *testing.T) {
	e := Classify([]byte{0x6e, 0x72, 0x66, 0x31, 0x00})
	if !e.Accepted {
		t.Fatalf("Classify(null) = %+v, want Accepted", e)
	}

	enc := codec.MustCBOR[Entry](true)
	payload, err := enc.Encode(e)
	if err != nil {
		t.Fatalf("encode entry: %v", err)
	}
	framed := frame.EncodeSingle(1, payload)
	gen, raw, err := frame.DecodeSingle(framed)
	if err != nil || gen != 1 {
		t.Fatalf("DecodeSingle = (%v, %v, %v)", gen, raw, err)
	}
	got, err := enc.Decode(raw)
	if err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if got.Accepted != e.Accepted {
		t.Fatalf("round-tripped entry = %+v, want %+v", got, e)
	}
}

func TestClassifyRejectedRecordsKindAndOffset(t *testing.T) {
	e := Classify([]byte{0x6e, 0x72, 0x66, 0x31, 0xFF})
	if e.Accepted {
		t.Fatalf("Classify(bad tag) = %+v, want rejected", e)
	}
	if e.Kind != nrf1.KindInvalidTypeTag {
		t.Fatalf("Kind = %v, want %v", e.Kind, nrf1.KindInvalidTypeTag)
	}
	// the bad tag byte follows the 4-byte magic.
	if e.Offset != 4 {
		t.Fatalf("Offset = %d, want 4", e.Offset)
	}
}

func TestInvalidateErrorUnwrap(t *testing.T) {
	bumpErr := errors.New("bump failed")
	delErr := errors.New("delete failed")
	ie := &InvalidateError{Key: "k1", BumpErr: bumpErr, DelErr: delErr}

	if !errors.Is(ie, bumpErr) || !errors.Is(ie, delErr) {
		t.Fatalf("InvalidateError does not unwrap to its component errors")
	}
}
