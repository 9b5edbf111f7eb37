package errx

import (
	"errors"
	"fmt"
)

// Kind classifies failures so callers can decide whether to surface them
// to the user or recover locally.
type Kind int

const (
	// KindInternal covers unexpected failures with no better classification.
	KindInternal Kind = iota
	// KindParse marks user input that could not be converted to a monetary
	// or percentage value. Aborts the calculation.
	KindParse
	// KindInvalidEnum marks an unrecognized loan-type or lien-type token.
	KindInvalidEnum
	// KindValidation marks structural or limit breaches (missing price,
	// conforming-limit overflow, LTV policy, negative down payment).
	KindValidation
	// KindExternalFetch marks rate-source failures. Always recovered via
	// the static fallback rate and logged, never surfaced.
	KindExternalFetch
	// KindComputation marks numeric simulation failures recovered via an
	// approximation. Logged, never surfaced.
	KindComputation
	// KindCache marks quote-cache failures (Redis).
	KindCache
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindInvalidEnum:
		return "invalid_enum"
	case KindValidation:
		return "validation"
	case KindExternalFetch:
		return "external_fetch"
	case KindComputation:
		return "computation"
	case KindCache:
		return "cache"
	default:
		return "internal"
	}
}

// Error wraps an underlying error with a kind and a user-safe message.
type Error struct {
	Err     error
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the provided information.
func New(err error, kind Kind, message string) *Error {
	return &Error{
		Err:     err,
		Kind:    kind,
		Message: message,
	}
}

// Newf creates an Error with a formatted user-safe message and no cause.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Is reports whether the target matches the underlying error or the Error itself.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind && e.Message == t.Message
	}
	return errors.Is(e.Err, target)
}

// As allows casting to Error or the wrapped error in a chain.
func (e *Error) As(target any) bool {
	if t, ok := target.(**Error); ok {
		*t = e
		return true
	}
	return errors.As(e.Err, target)
}

// KindOf returns the Kind carried by err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// UserMessage returns the user-safe message carried by err. Unclassified
// errors map to a generic message so internals never leak to the caller.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
