package nrf1

import "github.com/unkn0wn-root/nrf1/internal/value"

// Value is the sealed NRF-1.1 value union. It has exactly seven concrete
// implementations: Null, Bool, Int64, String, Bytes, Array, and Map.
type Value = value.Value

// Kind identifies which arm of the Value union a concrete value occupies.
type Kind = value.Kind

const (
	KindNull   = value.KindNull
	KindBool   = value.KindBool
	KindInt64  = value.KindInt64
	KindString = value.KindString
	KindBytes  = value.KindBytes
	KindArray  = value.KindArray
	KindMap    = value.KindMap
)

// Null is the single inhabitant of the null kind.
type Null = value.Null

// Bool is a boolean value.
type Bool = value.Bool

// Int64 is a signed 64-bit integer value.
type Int64 = value.Int64

// String is Unicode text, validated as NFC UTF-8 with no BOM at encode and
// decode time.
type String = value.String

// Bytes is an opaque octet sequence, disjoint from String.
type Bytes = value.Bytes

// Array is an ordered sequence of values.
type Array = value.Array

// MapEntry is one key/value pair of a Map.
type MapEntry = value.MapEntry

// Map is an ordered sequence of key/value pairs, canonicalised to strictly
// ascending key order by Encode regardless of construction order.
type Map = value.Map

// NewMap builds a Map from a Go map, sorted by raw UTF-8 byte order of its
// keys. It does not itself validate NFC or BOM rules; Encode does that.
func NewMap(m map[string]Value) Map {
	return value.FromGoMap(m)
}
