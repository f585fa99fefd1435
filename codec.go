package nrf1

import "github.com/unkn0wn-root/nrf1/internal/wire"

// Magic is the fixed 4-byte stream prefix "nrf1" every encoded value opens
// with.
var Magic = wire.Magic

// Encode serialises v to canonical NRF-1.1 bytes: the magic prefix followed
// by the tagged, length-prefixed value. Map keys are sorted into strictly
// ascending raw-byte order before emission and rejected on duplicate.
// Strings are validated as NFC UTF-8 with no U+FEFF; a violation fails
// with the corresponding *CodecError and no bytes are returned.
func Encode(v Value) ([]byte, error) {
	return wire.Encode(v)
}

// Decode parses b, which must be a complete NRF-1.1 stream with no trailing
// bytes, into a Value. Every invariant violation — bad magic, truncated
// input, an out-of-order or duplicate map key, a non-canonical varint, an
// invalid or non-NFC string — fails with a *CodecError and no Value.
func Decode(b []byte) (Value, error) {
	return wire.Decode(b)
}
