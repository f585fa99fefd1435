package crashtrack

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/unkn0wn-root/nrf1"
)

// Case is one entry in a golden crasher corpus: a minimized input and the
// reason it's tracked, so a regression is reported with context instead of
// a bare byte mismatch.
type Case struct {
	Name   string
	Bytes  []byte
	Reason string
}

// VerifyAll re-runs every case's failure predicate and returns a combined
// error naming every case that stopped reproducing (i.e. got silently
// fixed without being promoted out of the corpus). A case's Reason is only
// quoted in that report; a case that still satisfies pred is not checked
// against it, so one that now fails a different way is not reported. A
// combined nil means every case still satisfies pred.
func VerifyAll(cases []Case, pred Predicate) error {
	var errs error
	for _, c := range cases {
		if !pred(c.Bytes) {
			errs = multierr.Append(errs, fmt.Errorf(
				"crashtrack: %s (%s) no longer reproduces; promote it to a regression test or remove it",
				c.Name, c.Reason))
		}
	}
	return errs
}

// RoundTripPredicate is the default failure predicate: a case "fails" if
// decode errors, or if decode succeeds but re-encoding the result isn't
// byte-identical to the input. This is exactly the round-trip law every
// other NRF-1.1 operation is built to preserve, so a tracked crasher is, by
// construction, a round-trip law violation.
func RoundTripPredicate(b []byte) bool {
	v, err := nrf1.Decode(b)
	if err != nil {
		return true
	}
	re, err := nrf1.Encode(v)
	if err != nil {
		return true
	}
	return string(re) != string(b)
}
