package cql

import (
	"fmt"
	"regexp"
)

// WireFormatError reports that the byte stream could no longer be trusted:
// a short read, invalid UTF-8 where a string was required, a direction-bit
// mismatch, or a frame whose declared length the reader could not satisfy.
// A WireFormatError raised while writing or reading a frame closes the
// Session that produced it; one raised while decoding an already-read body
// (a result, an error, a row, an event) leaves the Session open.
type WireFormatError struct {
	msg string
}

func (e *WireFormatError) Error() string { return "cql: wire format: " + e.msg }

func errWireFormat(format string, a ...interface{}) error {
	return &WireFormatError{msg: fmt.Sprintf(format, a...)}
}

// IsWireFormatError reports whether err is a *WireFormatError. It checks
// err's dynamic type only; wrapped errors are not unwrapped.
func IsWireFormatError(err error) bool {
	_, ok := err.(*WireFormatError)
	return ok
}

// UsageError reports that the caller violated a usage invariant of this
// package -- e.g. issuing a request while a RowSet from the same Session is
// still live, or calling a session method after Close. It is never produced
// by anything the server sent.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string { return "cql: " + e.msg }

func errUsage(format string, a ...interface{}) error {
	return &UsageError{msg: fmt.Sprintf(format, a...)}
}

// InvalidArgumentError reports that a caller-supplied identifier (keyspace,
// table, column name) failed local validation before any bytes were sent.
type InvalidArgumentError struct {
	msg string
}

func (e *InvalidArgumentError) Error() string { return "cql: invalid argument: " + e.msg }

func errInvalidArgument(format string, a ...interface{}) error {
	return &InvalidArgumentError{msg: fmt.Sprintf(format, a...)}
}

// IsInvalidArgumentError reports whether err is an *InvalidArgumentError. It
// checks err's dynamic type only; wrapped errors are not unwrapped.
func IsInvalidArgumentError(err error) bool {
	_, ok := err.(*InvalidArgumentError)
	return ok
}

// ExhaustedError reports that a RowSet was read one past its last row. It is
// the distinguishable signal RowSet.Err returns once Next has returned false
// because the result set is exhausted, as opposed to false with a nil Err
// meaning Next simply hasn't been called yet.
type ExhaustedError struct{}

func (e *ExhaustedError) Error() string { return "cql: row set exhausted" }

func errExhausted() error { return &ExhaustedError{} }

// IsExhaustedError reports whether err is an *ExhaustedError. It checks
// err's dynamic type only; wrapped errors are not unwrapped.
func IsExhaustedError(err error) bool {
	_, ok := err.(*ExhaustedError)
	return ok
}

var identifierRE = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// validateIdentifier enforces the unquoted-identifier charset this client
// accepts for keyspace/table names it interpolates into a statement itself
// (USE, keyspace creation): callers that need a name outside this charset
// must quote it themselves in the CQL text they pass to Query.
func validateIdentifier(name string) error {
	if !identifierRE.MatchString(name) {
		return errInvalidArgument("identifier %q must match [A-Za-z0-9_]+", name)
	}
	return nil
}
