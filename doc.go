// Package nrf1 implements the NRF-1.1 canonical binary codec: a
// self-describing, length-prefixed, deterministically ordered encoding for
// null, bool, int64, string, bytes, array, and map values.
//
// The defining property of the format is bijective canonicalisation: for
// every Value the encoder accepts, decoding its encoded bytes reproduces
// the original value, and for every byte sequence the decoder accepts,
// re-encoding the decoded value reproduces the original bytes exactly. See
// Encode and Decode.
//
// The core type family (Value, Null, Bool, Int64, String, Bytes, Array,
// Map) is re-exported here as type aliases over internal/value so that
// callers work entirely against the nrf1 package while the sum type itself
// lives in an internal package that the decoder and encoder also share.
package nrf1
