// Package bsonerr defines the error taxonomy shared by the encoder, decoder,
// document container and record bridge.
package bsonerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind distinguishes the broad category of failure a caller is dealing
// with, independent of the wrapped message text.
type Kind int

const (
	// KindInvalidArgument means a caller-supplied value failed a
	// precondition checkable at construction time (bad UUID length,
	// malformed hex ObjectId string, ...).
	KindInvalidArgument Kind = iota + 1

	// KindInvalidBSON means raw bytes failed to decode per the BSON
	// specification: truncation, a negative length prefix, invalid
	// UTF-8, an unterminated c-string, an unrecognized type tag.
	KindInvalidBSON

	// KindInternal means a buffer invariant was violated that the
	// caller could not plausibly have caused. Reaching this indicates
	// a bug in this package, not bad input.
	KindInternal

	// KindTypeMismatch means a document could not be coerced into a
	// target record shape via the generic record bridge.
	KindTypeMismatch

	// KindUnsupportedType means the bytes name a recognized-but-not-
	// implemented BSON type (decimal128, tag 0x13).
	KindUnsupportedType
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindInvalidBSON:
		return "InvalidBSON"
	case KindInternal:
		return "Internal"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindUnsupportedType:
		return "UnsupportedType"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by this module. It carries a
// Kind so callers can branch on failure category without string matching,
// and wraps an underlying cause (via github.com/pkg/errors) so %+v still
// prints a stack trace from the point the error was constructed.
type Error struct {
	Kind Kind
	Path string // dotted field path, populated for TypeMismatch
	err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.err)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.err }

// Cause exposes the wrapped cause to github.com/pkg/errors.Cause.
func (e *Error) Cause() error { return e.err }

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, err: errors.Errorf(format, args...)}
}

// InvalidArgument builds a KindInvalidArgument error.
func InvalidArgument(format string, args ...interface{}) *Error {
	return newError(KindInvalidArgument, format, args...)
}

// InvalidBSON builds a KindInvalidBSON error.
func InvalidBSON(format string, args ...interface{}) *Error {
	return newError(KindInvalidBSON, format, args...)
}

// WrapInvalidBSON wraps an existing error (typically from a cursor read)
// as KindInvalidBSON, preserving its message and attaching a stack frame.
func WrapInvalidBSON(cause error, format string, args ...interface{}) *Error {
	if cause == nil {
		return InvalidBSON(format, args...)
	}
	return &Error{Kind: KindInvalidBSON, err: errors.Wrapf(cause, format, args...)}
}

// Internal builds a KindInternal error. Reaching this is a bug.
func Internal(format string, args ...interface{}) *Error {
	return newError(KindInternal, format, args...)
}

// UnsupportedType builds a KindUnsupportedType error.
func UnsupportedType(format string, args ...interface{}) *Error {
	return newError(KindUnsupportedType, format, args...)
}

// TypeMismatch builds a KindTypeMismatch error carrying the offending
// document key path.
func TypeMismatch(path string, format string, args ...interface{}) *Error {
	e := newError(KindTypeMismatch, format, args...)
	e.Path = path
	return e
}

// Is reports whether err is a *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
