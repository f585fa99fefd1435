// Package nrferr defines the NRF-1.1 error taxonomy: a closed set of failure
// kinds with stable identity, shared by the varint codec, the string
// validator, and the wire encoder/decoder.
//
// Identity matters more than message text here: downstream differential
// tooling dispatches on Kind, not on Error() strings, so CodecError.Is
// compares Kind alone.
package nrferr

import "fmt"

// Kind enumerates the failure modes a conforming NRF-1.1 implementation can
// report. The zero value is not a valid Kind; callers always construct a
// CodecError through New or At.
type Kind int

const (
	InvalidMagic Kind = iota + 1
	InvalidTypeTag
	NonMinimalVarint
	UnexpectedEOF
	InvalidUTF8
	NotNFC
	BOMPresent
	NonStringKey
	UnsortedKeys
	DuplicateKey
	TrailingData
	// VarintOutOfRange is encoder-only: a collection length exceeds
	// 2^32-1 and cannot be represented as a varint32.
	VarintOutOfRange
)

func (k Kind) String() string {
	switch k {
	case InvalidMagic:
		return "invalid magic"
	case InvalidTypeTag:
		return "invalid type tag"
	case NonMinimalVarint:
		return "non-minimal varint"
	case UnexpectedEOF:
		return "unexpected end of input"
	case InvalidUTF8:
		return "invalid UTF-8"
	case NotNFC:
		return "string not in NFC"
	case BOMPresent:
		return "string contains U+FEFF"
	case NonStringKey:
		return "map key is not a string"
	case UnsortedKeys:
		return "map keys not in ascending order"
	case DuplicateKey:
		return "duplicate map key"
	case TrailingData:
		return "trailing data after value"
	case VarintOutOfRange:
		return "varint32 value out of range"
	default:
		return fmt.Sprintf("nrferr.Kind(%d)", int(k))
	}
}

// CodecError is the single error type NRF-1.1 returns. Offset is the byte
// offset into the input at which the failure was detected, or -1 when the
// failure has no single byte offset (e.g. an encode-time VarintOutOfRange).
type CodecError struct {
	Kind   Kind
	Offset int
	detail string
	cause  error
}

// New constructs a CodecError with no offset and no detail.
func New(k Kind) *CodecError {
	return &CodecError{Kind: k, Offset: -1}
}

// At constructs a CodecError anchored to a byte offset.
func At(k Kind, offset int) *CodecError {
	return &CodecError{Kind: k, Offset: offset}
}

// WithDetail returns a copy of e with a human-readable detail suffix.
func (e *CodecError) WithDetail(detail string) *CodecError {
	n := *e
	n.detail = detail
	return &n
}

// WithCause returns a copy of e wrapping cause for Unwrap.
func (e *CodecError) WithCause(cause error) *CodecError {
	n := *e
	n.cause = cause
	return &n
}

func (e *CodecError) Error() string {
	switch {
	case e.Offset >= 0 && e.detail != "":
		return fmt.Sprintf("nrf1: %s at offset %d: %s", e.Kind, e.Offset, e.detail)
	case e.Offset >= 0:
		return fmt.Sprintf("nrf1: %s at offset %d", e.Kind, e.Offset)
	case e.detail != "":
		return fmt.Sprintf("nrf1: %s: %s", e.Kind, e.detail)
	default:
		return fmt.Sprintf("nrf1: %s", e.Kind)
	}
}

func (e *CodecError) Unwrap() error { return e.cause }

// Is reports whether target is a *CodecError of the same Kind. Offset and
// detail are deliberately excluded so that callers can compare against a
// bare sentinel (e.g. nrf1.ErrDuplicateKey) regardless of where the error
// was detected.
func (e *CodecError) Is(target error) bool {
	t, ok := target.(*CodecError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
