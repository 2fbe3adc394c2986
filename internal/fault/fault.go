// Package fault defines the error taxonomy shared by services and handlers.
// Every failure crossing a service boundary is one of four kinds, so callers
// can map errors to transport responses without string matching.
package fault

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	// KindValidation: client-fixable input problems, rejected before any
	// store access (malformed ids, empty text, out-of-range values).
	KindValidation Kind = iota + 1
	// KindNotFound: the referenced club/message/user does not exist.
	// Surfaced distinctly from authorization failures.
	KindNotFound
	// KindPermission: authenticated but not authorized for this action.
	// Always checked after existence checks.
	KindPermission
	// KindTransient: the underlying store call failed or timed out. Not
	// retried automatically; details stay in server logs.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindPermission:
		return "permission"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error carries a kind, a user-facing message, and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Permission(format string, args ...any) error {
	return &Error{Kind: KindPermission, Message: fmt.Sprintf(format, args...)}
}

// Transient wraps a store/infrastructure failure. The message is what a log
// line leads with; err keeps the cause for errors.Is/As chains.
func Transient(err error, format string, args ...any) error {
	return &Error{Kind: KindTransient, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf classifies any error. Errors outside the taxonomy count as
// transient so an unclassified failure is never shown to a client verbatim.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindTransient
}

// UserMessage returns the client-safe message for err. Transient and
// unclassified errors collapse to a generic retry hint.
func UserMessage(err error) string {
	var fe *Error
	if errors.As(err, &fe) && fe.Kind != KindTransient {
		return fe.Message
	}
	return "something went wrong, please try again"
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsPermission(err error) bool { return KindOf(err) == KindPermission }
func IsTransient(err error) bool  { return KindOf(err) == KindTransient }
