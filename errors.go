package nrf1

import "github.com/unkn0wn-root/nrf1/internal/nrferr"

// ErrorKind identifies why Encode or Decode failed.
type ErrorKind = nrferr.Kind

// CodecError is the single error type Encode and Decode return. Offset is
// the byte position in the input at which Decode detected the failure, or
// -1 for encode-time failures and failures with no single byte position.
type CodecError = nrferr.CodecError

// Kind constants, re-exported for callers that switch on (*CodecError).Kind
// rather than comparing against a sentinel with errors.Is.
const (
	KindInvalidMagic     = nrferr.InvalidMagic
	KindInvalidTypeTag   = nrferr.InvalidTypeTag
	KindNonMinimalVarint = nrferr.NonMinimalVarint
	KindUnexpectedEOF    = nrferr.UnexpectedEOF
	KindInvalidUTF8      = nrferr.InvalidUTF8
	KindNotNFC           = nrferr.NotNFC
	KindBOMPresent       = nrferr.BOMPresent
	KindNonStringKey     = nrferr.NonStringKey
	KindUnsortedKeys     = nrferr.UnsortedKeys
	KindDuplicateKey     = nrferr.DuplicateKey
	KindTrailingData     = nrferr.TrailingData
	KindVarintOutOfRange = nrferr.VarintOutOfRange
)

// Sentinel errors for use with errors.Is; CodecError.Is compares Kind only,
// so any of these matches a *CodecError of the same kind regardless of
// where it was produced or what offset/detail it carries.
var (
	ErrInvalidMagic     = nrferr.New(KindInvalidMagic)
	ErrInvalidTypeTag   = nrferr.New(KindInvalidTypeTag)
	ErrNonMinimalVarint = nrferr.New(KindNonMinimalVarint)
	ErrUnexpectedEOF    = nrferr.New(KindUnexpectedEOF)
	ErrInvalidUTF8      = nrferr.New(KindInvalidUTF8)
	ErrNotNFC           = nrferr.New(KindNotNFC)
	ErrBOMPresent       = nrferr.New(KindBOMPresent)
	ErrNonStringKey     = nrferr.New(KindNonStringKey)
	ErrUnsortedKeys     = nrferr.New(KindUnsortedKeys)
	ErrDuplicateKey     = nrferr.New(KindDuplicateKey)
	ErrTrailingData     = nrferr.New(KindTrailingData)
	ErrVarintOutOfRange = nrferr.New(KindVarintOutOfRange)
)
