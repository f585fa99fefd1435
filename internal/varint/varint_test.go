package varint

import (
	"bytes"
	"errors"
	"testing"

	"github.com/unkn0wn-root/nrf1/internal/nrferr"
)

func TestRoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 127, 128, 129, 16383, 16384, 1 << 20, 1<<32 - 1}
	for _, n := range cases {
		enc := Encode(n)
		got, consumed, err := Decode(enc, 0)
		if err != nil {
			t.Fatalf("Decode(%d) error: %v", n, err)
		}
		if got != n {
			t.Fatalf("round-trip mismatch: got %d want %d", got, n)
		}
		if consumed != len(enc) {
			t.Fatalf("consumed %d, encoded length %d", consumed, len(enc))
		}
	}
}

func TestEncodeShortestForm(t *testing.T) {
	cases := []struct {
		n   uint32
		hex []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{1 << 32 - 1, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}},
	}
	for _, tc := range cases {
		got := Encode(tc.n)
		if !bytes.Equal(got, tc.hex) {
			t.Fatalf("Encode(%d) = % x, want % x", tc.n, got, tc.hex)
		}
	}
}

func TestDecodeRejectsOverlongZero(t *testing.T) {
	// 0x80 0x00 encodes 0 using two bytes; the terminal byte is zero.
	_, _, err := Decode([]byte{0x80, 0x00}, 0)
	assertKind(t, err, nrferr.NonMinimalVarint)
}

func TestDecodeRejectsOverlongRun(t *testing.T) {
	_, _, err := Decode([]byte{0x80, 0x80, 0x80, 0x00}, 0)
	assertKind(t, err, nrferr.NonMinimalVarint)
}

func TestDecodeAllows128(t *testing.T) {
	// 0x80 0x01 is the unique minimal encoding of 128: a leading 0x80 byte
	// is only invalid when the run terminates in a zero byte, not merely
	// for appearing first.
	v, n, err := Decode([]byte{0x80, 0x01}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 128 || n != 2 {
		t.Fatalf("got v=%d n=%d, want v=128 n=2", v, n)
	}
}

func TestDecodeRejectsSixthByte(t *testing.T) {
	_, _, err := Decode([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, 0)
	assertKind(t, err, nrferr.NonMinimalVarint)
}

func TestDecodeFifthByteOverflow(t *testing.T) {
	// 5-byte varint whose payload would exceed 2^32-1.
	_, _, err := Decode([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x1F}, 0)
	assertKind(t, err, nrferr.NonMinimalVarint)
}

func TestDecodeUnexpectedEOF(t *testing.T) {
	_, _, err := Decode([]byte{0x80, 0x80}, 0)
	assertKind(t, err, nrferr.UnexpectedEOF)

	_, _, err = Decode(nil, 0)
	assertKind(t, err, nrferr.UnexpectedEOF)
}

func assertKind(t *testing.T, err error, k nrferr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %v, got nil", k)
	}
	if !errors.Is(err, nrferr.New(k)) {
		t.Fatalf("expected kind %v, got %v", k, err)
	}
}
