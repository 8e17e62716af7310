// Package apperr defines the outcome kinds returned by the catalog, ledger and list stores.
package apperr

import "errors"

// Kind classifies an expected failure so callers can translate it to a transport status.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindForbidden    Kind = "FORBIDDEN"
	KindInvalidState Kind = "INVALID_STATE"
)

// Error is an expected, recoverable failure with a human-readable message.
type Error struct {
	Kind    Kind
	Message string

	anyOfKind bool
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors of the same Kind and Message. The Err* kind sentinels match
// every error of their Kind, so errors.Is(err, ErrConflict) holds for any conflict.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Kind != e.Kind {
		return false
	}
	return t.anyOfKind || t.Message == e.Message
}

var (
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found", anyOfKind: true}
	ErrConflict     = &Error{Kind: KindConflict, Message: "conflict", anyOfKind: true}
	ErrForbidden    = &Error{Kind: KindForbidden, Message: "forbidden", anyOfKind: true}
	ErrInvalidState = &Error{Kind: KindInvalidState, Message: "invalid state", anyOfKind: true}
)

func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) error     { return &Error{Kind: KindConflict, Message: msg} }
func Forbidden(msg string) error    { return &Error{Kind: KindForbidden, Message: msg} }
func InvalidState(msg string) error { return &Error{Kind: KindInvalidState, Message: msg} }

// KindOf returns the Kind carried by err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
