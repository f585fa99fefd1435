// Package wire implements the NRF-1.1 canonical binary codec: encoding and
// decoding of the sealed value.Value union to and from the wire format.
//
// Encoding choices:
//   - A 4-byte ASCII magic ("nrf1") opens every stream.
//   - Every value is a one-byte tag followed by a kind-specific payload.
//   - Collection lengths and string/byte lengths are varint32 (internal/varint).
//   - Map keys are sorted by raw UTF-8 bytes before encoding and rejected on
//     duplicate; decode enforces the same order and rejects out-of-order or
//     duplicate keys rather than silently re-sorting.
//   - Decode paths are bounds-checked before every slice read; any read past
//     the end of input fails UnexpectedEOF rather than panicking.
//   - Decoded String and Bytes payloads are copied out of the input; a
//     decoded Value never aliases the caller's buffer.
//
// Strict framing:
//   - Decode requires the input to be fully consumed by exactly one value
//     (plus the leading magic). Trailing bytes fail TrailingData.
//
// This package is pure: no I/O, no shared state, safe for concurrent use on
// disjoint inputs.
package wire

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/unkn0wn-root/nrf1/internal/nrferr"
	"github.com/unkn0wn-root/nrf1/internal/strval"
	"github.com/unkn0wn-root/nrf1/internal/varint"
	"github.com/unkn0wn-root/nrf1/internal/value"
)

// Magic is the fixed 4-byte stream prefix, "nrf1".
var Magic = [4]byte{'n', 'r', 'f', '1'}

const (
	tagNull   = 0x00
	tagFalse  = 0x01
	tagTrue   = 0x02
	tagInt64  = 0x03
	tagString = 0x04
	tagBytes  = 0x05
	tagArray  = 0x06
	tagMap    = 0x07
)

// Encode serialises v to canonical NRF-1.1 bytes.
func Encode(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(4 + estimateSize(v))
	buf.Write(Magic[:])
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// estimateSize is a cheap, non-authoritative size hint to pre-size the
// output buffer and avoid reallocation on the common cases; it is never
// relied on for correctness.
func estimateSize(v value.Value) int {
	switch vv := v.(type) {
	case value.Null, value.Bool:
		return 1
	case value.Int64:
		return 9
	case value.String:
		return 1 + 5 + len(vv)
	case value.Bytes:
		return 1 + 5 + len(vv)
	case value.Array:
		n := 1 + 5
		for _, e := range vv {
			n += estimateSize(e)
		}
		return n
	case value.Map:
		n := 1 + 5
		for _, e := range vv {
			n += 1 + 5 + len(e.Key) + estimateSize(e.Value)
		}
		return n
	default:
		return 1
	}
}

func encodeValue(buf *bytes.Buffer, v value.Value) error {
	switch vv := v.(type) {
	case value.Null:
		buf.WriteByte(tagNull)
		return nil
	case value.Bool:
		if vv {
			buf.WriteByte(tagTrue)
		} else {
			buf.WriteByte(tagFalse)
		}
		return nil
	case value.Int64:
		buf.WriteByte(tagInt64)
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(vv))
		buf.Write(b[:])
		return nil
	case value.String:
		return encodeString(buf, string(vv))
	case value.Bytes:
		return encodeBytes(buf, vv)
	case value.Array:
		return encodeArray(buf, vv)
	case value.Map:
		return encodeMap(buf, vv)
	default:
		// value.Value is sealed; this is unreachable for well-formed input.
		return nrferr.New(nrferr.InvalidTypeTag).WithDetail("unknown value kind")
	}
}

func encodeString(buf *bytes.Buffer, s string) error {
	if err := strval.Validate(s); err != nil {
		return err
	}
	buf.WriteByte(tagString)
	if err := writeLen(buf, len(s)); err != nil {
		return err
	}
	buf.WriteString(s)
	return nil
}

func encodeBytes(buf *bytes.Buffer, b []byte) error {
	buf.WriteByte(tagBytes)
	if err := writeLen(buf, len(b)); err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func encodeArray(buf *bytes.Buffer, a value.Array) error {
	buf.WriteByte(tagArray)
	if err := writeLen(buf, len(a)); err != nil {
		return err
	}
	for _, elem := range a {
		if err := encodeValue(buf, elem); err != nil {
			return err
		}
	}
	return nil
}

func encodeMap(buf *bytes.Buffer, m value.Map) error {
	entries := make([]value.MapEntry, len(m))
	copy(entries, m)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	for _, e := range entries {
		if err := strval.Validate(e.Key); err != nil {
			return err
		}
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Key == entries[i].Key {
			return nrferr.New(nrferr.DuplicateKey).WithDetail(quote(entries[i].Key))
		}
	}

	buf.WriteByte(tagMap)
	if err := writeLen(buf, len(entries)); err != nil {
		return err
	}
	for _, e := range entries {
		buf.WriteByte(tagString)
		if err := writeLen(buf, len(e.Key)); err != nil {
			return err
		}
		buf.WriteString(e.Key)
		if err := encodeValue(buf, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func writeLen(buf *bytes.Buffer, n int) error {
	if n < 0 || uint64(n) > 1<<32-1 {
		return nrferr.New(nrferr.VarintOutOfRange)
	}
	buf.Write(varint.Encode(uint32(n)))
	return nil
}

func quote(s string) string {
	return "\"" + s + "\""
}

// Decode parses b into a Value, enforcing magic, tag, length, string, and
// map-ordering validity exactly as Encode produces them.
func Decode(b []byte) (value.Value, error) {
	if len(b) < 4 || !bytes.Equal(b[:4], Magic[:]) {
		return nil, nrferr.New(nrferr.InvalidMagic)
	}
	v, off, err := decodeValue(b, 4)
	if err != nil {
		return nil, err
	}
	if off != len(b) {
		return nil, nrferr.At(nrferr.TrailingData, off)
	}
	return v, nil
}

func readExact(b []byte, off, n int) ([]byte, int, error) {
	if off+n > len(b) || off+n < off {
		return nil, 0, nrferr.At(nrferr.UnexpectedEOF, off)
	}
	return b[off : off+n], off + n, nil
}

func readLen(b []byte, off int) (int, int, error) {
	n, consumed, err := varint.Decode(b[off:], off)
	if err != nil {
		return 0, 0, err
	}
	return int(n), off + consumed, nil
}

func decodeValue(b []byte, off int) (value.Value, int, error) {
	tagb, off, err := readExact(b, off, 1)
	if err != nil {
		return nil, 0, err
	}
	switch tagb[0] {
	case tagNull:
		return value.Null{}, off, nil
	case tagFalse:
		return value.Bool(false), off, nil
	case tagTrue:
		return value.Bool(true), off, nil
	case tagInt64:
		bs, off, err := readExact(b, off, 8)
		if err != nil {
			return nil, 0, err
		}
		return value.Int64(int64(binary.BigEndian.Uint64(bs))), off, nil
	case tagString:
		return decodeStringValue(b, off)
	case tagBytes:
		l, off2, err := readLen(b, off)
		if err != nil {
			return nil, 0, err
		}
		bs, off3, err := readExact(b, off2, l)
		if err != nil {
			return nil, 0, err
		}
		// copy so the decoded value does not alias the caller's input.
		out := make(value.Bytes, len(bs))
		copy(out, bs)
		return out, off3, nil
	case tagArray:
		return decodeArray(b, off)
	case tagMap:
		return decodeMap(b, off)
	default:
		return nil, 0, nrferr.At(nrferr.InvalidTypeTag, off-1)
	}
}

// decodeStringValue decodes a string value given that the 0x04 tag byte has
// already been consumed (off points just past it).
func decodeStringValue(b []byte, off int) (value.Value, int, error) {
	s, off, err := decodeStringPayload(b, off)
	if err != nil {
		return nil, 0, err
	}
	return value.String(s), off, nil
}

func decodeStringPayload(b []byte, off int) (string, int, error) {
	l, off2, err := readLen(b, off)
	if err != nil {
		return "", 0, err
	}
	bs, off3, err := readExact(b, off2, l)
	if err != nil {
		return "", 0, err
	}
	s, err := strval.FromUTF8(bs, off2)
	if err != nil {
		return "", 0, err
	}
	return s, off3, nil
}

func decodeArray(b []byte, off int) (value.Value, int, error) {
	n, off, err := readLen(b, off)
	if err != nil {
		return nil, 0, err
	}
	arr := make(value.Array, 0, clampCap(n, len(b)-off))
	for i := 0; i < n; i++ {
		var elem value.Value
		elem, off, err = decodeValue(b, off)
		if err != nil {
			return nil, 0, err
		}
		arr = append(arr, elem)
	}
	return arr, off, nil
}

func decodeMap(b []byte, off int) (value.Value, int, error) {
	n, off, err := readLen(b, off)
	if err != nil {
		return nil, 0, err
	}
	entries := make(value.Map, 0, clampCap(n, len(b)-off))
	prevSet := false
	var prev string
	for i := 0; i < n; i++ {
		keyTag, keyOff, err := readExact(b, off, 1)
		if err != nil {
			return nil, 0, err
		}
		if keyTag[0] != tagString {
			return nil, 0, nrferr.At(nrferr.NonStringKey, off)
		}
		var key string
		key, off, err = decodeStringPayload(b, keyOff)
		if err != nil {
			return nil, 0, err
		}
		if prevSet {
			switch {
			case key == prev:
				return nil, 0, nrferr.At(nrferr.DuplicateKey, off).WithDetail(quote(key))
			case key < prev:
				return nil, 0, nrferr.At(nrferr.UnsortedKeys, off).WithDetail(quote(key))
			}
		}
		prev, prevSet = key, true

		var val value.Value
		val, off, err = decodeValue(b, off)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, value.MapEntry{Key: key, Value: val})
	}
	return entries, off, nil
}

// clampCap bounds a preallocation hint by what the remaining input could
// plausibly hold, so a bogus huge count can't force a large allocation
// before any bytes have actually been validated.
func clampCap(n, remaining int) int {
	if n < 0 {
		return 0
	}
	if n > remaining {
		if remaining < 0 {
			return 0
		}
		return remaining
	}
	return n
}
