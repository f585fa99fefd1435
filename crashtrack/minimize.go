package crashtrack

import (
	"github.com/pkg/errors"

	"github.com/unkn0wn-root/nrf1"
)

// Predicate reports whether b still exhibits the failure being chased.
// Implementations are expected to be pure and side-effect free; Minimize
// may call one many times over slight variations of the same input.
type Predicate func(b []byte) bool

// Minimize reduces orig to a smaller input that still satisfies pred,
// greedily applying the first size-reducing, still-failing candidate it
// finds until none remain. If orig can be decoded into a Value, shrinking
// works on the value's structure (dropping array elements, map keys,
// shortening strings/bytes, moving integers toward zero); otherwise it
// falls back to halving the raw bytes.
//
// Minimize never mutates orig and always returns a result for which pred
// holds, even if that result is orig itself.
func Minimize(orig []byte, pred Predicate) ([]byte, error) {
	if !pred(orig) {
		return nil, errors.New("crashtrack: input does not satisfy the failure predicate")
	}

	v, err := nrf1.Decode(orig)
	if err != nil {
		return minimizeBytes(orig, pred), nil
	}

	best := orig
	bestVal := v
	for {
		improved := false
		for _, cand := range shrinkValue(bestVal) {
			encoded, err := nrf1.Encode(cand)
			if err != nil {
				continue
			}
			if len(encoded) < len(best) && pred(encoded) {
				best = encoded
				bestVal = cand
				improved = true
				break
			}
		}
		if !improved {
			return best, nil
		}
	}
}

func minimizeBytes(orig []byte, pred Predicate) []byte {
	best := orig
	for len(best) > 8 {
		mid := len(best) / 2
		cand := best[:mid]
		if !pred(cand) {
			break
		}
		best = cand
	}
	return best
}

// shrinkValue returns candidate values smaller than v, in roughly
// decreasing order of how much they shrink the encoding. The caller is
// responsible for checking each candidate against the failure predicate.
func shrinkValue(v nrf1.Value) []nrf1.Value {
	switch t := v.(type) {
	case nrf1.Null, nrf1.Bool:
		return nil
	case nrf1.Int64:
		return shrinkInt64(t)
	case nrf1.String:
		return shrinkString(t)
	case nrf1.Bytes:
		return shrinkBytes(t)
	case nrf1.Array:
		return shrinkArray(t)
	case nrf1.Map:
		return shrinkMap(t)
	default:
		return nil
	}
}

func shrinkInt64(v nrf1.Int64) []nrf1.Value {
	if v == 0 {
		return nil
	}
	candidates := []nrf1.Int64{0, 1, -1, v / 2}
	out := make([]nrf1.Value, 0, len(candidates))
	seen := map[nrf1.Int64]bool{v: true}
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func shrinkString(s nrf1.String) []nrf1.Value {
	n := len(s)
	if n == 0 {
		return nil
	}
	out := []nrf1.Value{s[:n/2]}
	if n/3 > 0 {
		out = append(out, s[:n/3])
	}
	out = append(out, s[:n-1])
	if n > 1 {
		out = append(out, s[:1])
	}
	return out
}

func shrinkBytes(b nrf1.Bytes) []nrf1.Value {
	n := len(b)
	if n == 0 {
		return nil
	}
	out := []nrf1.Value{dupBytes(b[:n/2])}
	out = append(out, dupBytes(b[:n-1]))
	if n > 1 {
		out = append(out, dupBytes(b[:1]))
	}
	return out
}

func dupBytes(b nrf1.Bytes) nrf1.Bytes {
	cp := make(nrf1.Bytes, len(b))
	copy(cp, b)
	return cp
}

func shrinkArray(a nrf1.Array) []nrf1.Value {
	n := len(a)
	if n == 0 {
		return nil
	}
	out := []nrf1.Value{append(nrf1.Array{}, a[:n/2]...)}
	for i := range a {
		without := make(nrf1.Array, 0, n-1)
		without = append(without, a[:i]...)
		without = append(without, a[i+1:]...)
		out = append(out, without)
	}
	for i, elem := range a {
		for _, cand := range shrinkValue(elem) {
			replaced := make(nrf1.Array, n)
			copy(replaced, a)
			replaced[i] = cand
			out = append(out, replaced)
		}
	}
	return out
}

func shrinkMap(m nrf1.Map) []nrf1.Value {
	n := len(m)
	if n == 0 {
		return nil
	}
	out := []nrf1.Value{append(nrf1.Map{}, m[:n/2]...)}
	for i := range m {
		without := make(nrf1.Map, 0, n-1)
		without = append(without, m[:i]...)
		without = append(without, m[i+1:]...)
		out = append(out, without)
	}
	for i, entry := range m {
		for _, cand := range shrinkValue(entry.Value) {
			replaced := make(nrf1.Map, n)
			copy(replaced, m)
			replaced[i] = nrf1.MapEntry{Key: entry.Key, Value: cand}
			out = append(out, replaced)
		}
	}
	return out
}
