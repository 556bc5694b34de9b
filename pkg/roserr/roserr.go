// Package roserr carries the status kind behind a master-API response.
//
// Every RPC the facade serves returns the triple [code, message, value]
// described in spec §4.5/§7. Facade handlers report failures as a
// roserr.Error, which carries the message together with the status code it
// should become, so the facade's single translation point (pkg/master) never
// has to guess whether a failure was a soft no-op or an invalid argument.
package roserr

import "fmt"

// Code is one of the three status kinds the master API ever returns.
type Code int

const (
	// Success means the operation applied; code 1 on the wire.
	Success Code = 1
	// Failure means a benign no-op; code 0 on the wire. Currently unused:
	// every unregister/unsubscribe handler reports its no-op case through
	// the int VALUE slot instead (see DESIGN.md's Open Question
	// resolution), not this code. Kept for a future soft-failure case that
	// needs to signal through the code itself.
	Failure Code = 0
	// Invalid means a bad argument or a failed lookup; code -1 on the wire.
	Invalid Code = -1
)

// Error pairs an error message with the status code it should surface as.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Wrap builds a roserr.Error from a format string, in the style of
// fmt.Errorf.
func Wrap(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Invalidf builds an Invalid-coded error.
func Invalidf(format string, args ...interface{}) *Error {
	return Wrap(Invalid, format, args...)
}

// Failuref builds a Failure-coded (soft, code 0) error. Reserved for a
// future soft-failure case; see the Failure constant's doc comment.
func Failuref(format string, args ...interface{}) *Error {
	return Wrap(Failure, format, args...)
}

// CodeOf extracts the status code carried by err, defaulting to Invalid for
// any error that isn't a *Error — an internal exception the facade did not
// anticipate is still reported as an invalid-argument failure rather than
// crashing the caller's RPC.
func CodeOf(err error) Code {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return Invalid
}
