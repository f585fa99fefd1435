// Package varint implements the NRF-1.1 unsigned 32-bit varint: little-endian
// base-128 groups, high bit as continuation, shortest encoding only.
package varint

import "github.com/unkn0wn-root/nrf1/internal/nrferr"

// maxBytes is the maximum number of groups a 32-bit value can require
// (ceil(32/7) = 5).
const maxBytes = 5

// Encode returns the unique shortest varint32 encoding of n. Since n is a
// uint32, it is always in range; the wire encoder is responsible for
// rejecting collection lengths that don't fit in 32 bits (VarintOutOfRange)
// before ever converting them to a uint32.
func Encode(n uint32) []byte {
	out := make([]byte, 0, maxBytes)
	for {
		b := byte(n & 0x7F)
		n >>= 7
		if n == 0 {
			out = append(out, b)
			return out
		}
		out = append(out, b|0x80)
	}
}

// Decode parses a varint32 at the start of b, returning the value, the
// number of bytes consumed, and an error. offset is the absolute byte
// offset of b[0] in the enclosing input, used only to annotate errors.
func Decode(b []byte, offset int) (value uint32, n int, err error) {
	var result uint32
	var shift uint

	for i := 0; i < maxBytes; i++ {
		if i >= len(b) {
			return 0, 0, nrferr.At(nrferr.UnexpectedEOF, offset+i)
		}
		cur := b[i]
		payload := cur & 0x7F

		if cur&0x80 == 0 {
			// terminal byte of a multi-byte group must carry a non-zero
			// payload bit, otherwise the encoding is an overlong run of
			// continuation bytes ending in a padding zero (law 6, §8).
			if i > 0 && cur == 0x00 {
				return 0, 0, nrferr.At(nrferr.NonMinimalVarint, offset)
			}
			if i == 4 {
				// fifth byte: payload bits beyond bit 31 would overflow
				// uint32. A valid fifth group carries at most 4 payload
				// bits (28..31).
				if payload&0xF0 != 0 {
					return 0, 0, nrferr.At(nrferr.NonMinimalVarint, offset)
				}
			}
			result |= uint32(payload) << shift
			return result, i + 1, nil
		}

		result |= uint32(payload) << shift
		shift += 7
	}

	// a sixth continuation byte would be required.
	return 0, 0, nrferr.At(nrferr.NonMinimalVarint, offset)
}
