package nrf1

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	v := NewMap(map[string]Value{
		"name":  String("test"),
		"value": Int64(42),
	})
	enc, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	reenc, err := Encode(dec)
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if !bytes.Equal(enc, reenc) {
		t.Fatalf("round-trip mismatch: % x vs % x", enc, reenc)
	}
}

func TestSeedVectorMap(t *testing.T) {
	v := Map{
		{Key: "name", Value: String("test")},
		{Key: "value", Value: Int64(42)},
	}
	got, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{
		0x6e, 0x72, 0x66, 0x31, 0x07, 0x02,
		0x04, 0x04, 'n', 'a', 'm', 'e', 0x04, 0x04, 't', 'e', 's', 't',
		0x04, 0x05, 'v', 'a', 'l', 'u', 'e', 0x03, 0, 0, 0, 0, 0, 0, 0, 0x2a,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode = % x, want % x", got, want)
	}
}

func TestDecodeErrorsUseSentinels(t *testing.T) {
	_, err := Decode([]byte("nrf0\x00"))
	if !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("got %v, want ErrInvalidMagic", err)
	}

	var ce *CodecError
	if !errors.As(err, &ce) {
		t.Fatalf("error is not a *CodecError: %#v", err)
	}
	if ce.Kind != KindInvalidMagic {
		t.Fatalf("got Kind %v, want KindInvalidMagic", ce.Kind)
	}
}

func TestEncodeMagicConstant(t *testing.T) {
	got, err := Encode(Null{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(got[:4], Magic[:]) {
		t.Fatalf("got magic % x, want % x", got[:4], Magic)
	}
}

func TestNopLoggerDiscardsEverything(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debug("x", Fields{"a": 1})
	l.Info("x", nil)
	l.Warn("x", Fields{})
	l.Error("x", Fields{"err": errors.New("boom")})
}
