// Package strval implements the NRF-1.1 string validator: strict UTF-8,
// BOM (U+FEFF) rejection, and NFC normalisation, applied identically on the
// encode and decode paths.
//
// NFC is checked against golang.org/x/text/unicode/norm, pinned to the
// golang.org/x/text version in go.mod. NFC is not invariant across Unicode
// major revisions for a small number of code points, so a conforming
// implementation must pin and advertise its Unicode version: this package
// targets the Unicode version shipped by that x/text release.
package strval

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/unkn0wn-root/nrf1/internal/nrferr"
)

// bomRune is U+FEFF, the byte order mark.
const bomRune = '﻿'

// FromUTF8 decodes b as strict UTF-8 and validates it per the string rules.
// offset anchors any error to its position in the enclosing input.
func FromUTF8(b []byte, offset int) (string, error) {
	if !utf8.Valid(b) {
		return "", nrferr.At(nrferr.InvalidUTF8, offset)
	}
	s := string(b)
	if err := checkRules(s, offset); err != nil {
		return "", err
	}
	return s, nil
}

// Validate checks an in-memory Go string against the same rules applied on
// decode, used before a string is admitted into encoder output.
func Validate(s string) error {
	if !utf8.ValidString(s) {
		return nrferr.New(nrferr.InvalidUTF8)
	}
	return checkRules(s, -1)
}

func checkRules(s string, offset int) error {
	if containsBOM(s) {
		return nrferr.At(nrferr.BOMPresent, offset)
	}
	if !norm.NFC.IsNormalString(s) {
		return nrferr.At(nrferr.NotNFC, offset)
	}
	return nil
}

func containsBOM(s string) bool {
	for _, r := range s {
		if r == bomRune {
			return true
		}
	}
	return false
}
