// Package apperr defines the stable error kinds the transport layer maps to
// response codes. Errors wrap their cause so errors.Is/As keep working.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller: it tells them whether to fix the
// input, retry, or give up.
type Kind string

const (
	KindValidation      Kind = "VALIDATION"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindAuthorization   Kind = "AUTHORIZATION"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindUpstream        Kind = "UPSTREAM"
	KindIntegrity       Kind = "DATA_INTEGRITY"
)

// Error carries a kind, a human-readable message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func Validation(format string, args ...any) *Error {
	return newError(KindValidation, nil, format, args...)
}

func ValidationWrap(err error, format string, args ...any) *Error {
	return newError(KindValidation, err, format, args...)
}

func Unauthenticated(format string, args ...any) *Error {
	return newError(KindUnauthenticated, nil, format, args...)
}

func Authorization(format string, args ...any) *Error {
	return newError(KindAuthorization, nil, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, nil, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, nil, format, args...)
}

func Upstream(err error, format string, args ...any) *Error {
	return newError(KindUpstream, err, format, args...)
}

func Integrity(format string, args ...any) *Error {
	return newError(KindIntegrity, nil, format, args...)
}

// KindOf returns the kind of err, or KindUpstream for errors that were never
// classified (an unclassified failure is by definition not the caller's fault).
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstream
}

// Message returns the human-readable message of err, falling back to
// err.Error() for unclassified errors.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Msg
	}
	return err.Error()
}
