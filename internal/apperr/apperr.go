// Package apperr defines the error kinds the service layer raises and the
// transport layer translates to status codes. Every violation is detected
// and raised at the point it occurs; nothing is clamped or retried here.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller.
type Kind int

const (
	// KindNotFound: a referenced trip/user/expense/split/membership does not exist.
	KindNotFound Kind = iota + 1
	// KindInvalid: malformed input (non-positive amount, empty participants,
	// future date, duplicate split, ...).
	KindInvalid
	// KindForbidden: authenticated but insufficient privilege.
	KindForbidden
	// KindConflict: duplicate membership, or a mutation that would violate
	// the sole-owner invariant.
	KindConflict
	// KindInternal: storage or unexpected failure. Detail is logged, never
	// surfaced to the caller.
	KindInternal
)

// Error is a classified service error. Wrapped causes stay reachable
// through errors.Is / errors.As.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the caller-safe message, without any wrapped cause.
func (e *Error) Message() string { return e.msg }

// NotFound reports a missing resource.
func NotFound(format string, args ...any) *Error {
	return &Error{kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}

// Invalid reports malformed input.
func Invalid(format string, args ...any) *Error {
	return &Error{kind: KindInvalid, msg: fmt.Sprintf(format, args...)}
}

// Forbidden reports insufficient privilege.
func Forbidden(format string, args ...any) *Error {
	return &Error{kind: KindForbidden, msg: fmt.Sprintf(format, args...)}
}

// Conflict reports a state conflict such as a duplicate membership or a
// sole-owner violation.
func Conflict(format string, args ...any) *Error {
	return &Error{kind: KindConflict, msg: fmt.Sprintf(format, args...)}
}

// Internal wraps a storage or unexpected failure. msg is safe for callers;
// err carries the detail for logs.
func Internal(err error, format string, args ...any) *Error {
	return &Error{kind: KindInternal, msg: fmt.Sprintf(format, args...), err: err}
}

// Message returns the caller-safe message of a classified error, or the
// plain error text for unclassified errors.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// KindOf classifies any error. Unclassified errors count as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}
