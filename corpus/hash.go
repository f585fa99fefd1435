package corpus

import "github.com/cespare/xxhash/v2"

// Key returns the content-addressed cache key for a candidate byte vector:
// the lowercase hex xxhash of its bytes. Two byte-identical vectors always
// map to the same key regardless of how many times or where they were
// submitted.
func Key(b []byte) string {
	const hexDigits = "0123456789abcdef"
	sum := xxhash.Sum64(b)
	out := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		out[i] = hexDigits[sum&0xF]
		sum >>= 4
	}
	return string(out)
}
