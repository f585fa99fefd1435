package corpus

import (
	"errors"

	"github.com/unkn0wn-root/nrf1"
	c "github.com/unkn0wn-root/nrf1/corpus/codec"
	"github.com/unkn0wn-root/nrf1/corpus/internal/frame"
)

// Entry is a single corpus record: a candidate byte vector and the verdict
// a prior decode run reached for it. Accepted records remember nothing
// beyond the bytes themselves (the whole point is avoiding a second
// decode); rejected records also remember which ErrorKind the decoder
// produced, so a differential sweep can assert the same candidate still
// fails the same way after a code change.
type Entry struct {
	Bytes    []byte         `cbor:"b"`
	Accepted bool           `cbor:"a"`
	Kind     nrf1.ErrorKind `cbor:"k,omitempty"`
	Offset   int            `cbor:"o,omitempty"`
}

// Classify runs b through nrf1.Decode and builds the Entry a corpus cache
// should remember for it.
func Classify(b []byte) Entry {
	_, err := nrf1.Decode(b)
	if err == nil {
		return Entry{Bytes: b, Accepted: true}
	}
	var ce *nrf1.CodecError
	if errors.As(err, &ce) {
		return Entry{Bytes: b, Accepted: false, Kind: ce.Kind, Offset: ce.Offset}
	}
	return Entry{Bytes: b, Accepted: false}
}

// DecodeEntry decodes raw as a value previously returned by a Provider's
// Get for a cache's storage key (i.e. the gen-framed, codec-encoded bytes
// passed to Provider.Set), independent of any running Cache. A nil codec
// uses the same default CBOR codec newCache does. It is meant for tooling
// that inspects a Provider's backing store directly, such as reporting
// corpus-wide statistics from a disk-backed directory.
func DecodeEntry(raw []byte, codec c.Codec[Entry]) (Entry, error) {
	if codec == nil {
		codec = c.MustCBOR[Entry](true)
	}
	_, payload, err := frame.DecodeSingle(raw)
	if err != nil {
		return Entry{}, err
	}
	return codec.Decode(payload)
}
