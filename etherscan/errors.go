package etherscan

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a client failure. The original API surfaces
// one category per API module plus the cross-cutting initialization,
// connection, request and data categories.
type Kind string

const (
	KindInitialization Kind = "initialization"
	KindConnection     Kind = "connection"
	KindRequest        Kind = "request"
	KindData           Kind = "data"
	KindAddress        Kind = "address"
	KindContract       Kind = "contract"
	KindTransaction    Kind = "transaction"
	KindBlock          Kind = "block"
	KindEventLog       Kind = "event_log"
	KindGethProxy      Kind = "geth_proxy"
	KindWebsocket      Kind = "websocket"
	KindToken          Kind = "token"
	KindStats          Kind = "stats"
)

// Error is the error type returned by every operation in this module. Callers
// match any client error with errors.As and a specific category with IsKind.
type Error struct {
	Kind    Kind   // the failure category
	Message string // human-readable description
	Err     error  // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("etherscan: %s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("etherscan: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError builds an *Error with a formatted message.
func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapError builds an *Error around an underlying cause.
func wrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err is (or wraps) a client error of the given kind.
func IsKind(err error, kind Kind) bool {
	var esErr *Error
	return errors.As(err, &esErr) && esErr.Kind == kind
}

// retryable reports whether a failed attempt is worth repeating. Request
// errors (malformed requests, rate limits, undecodable bodies) and data
// errors (the API answered and said no) will not succeed on a retry; anything
// else is assumed to be transient.
func retryable(err error) bool {
	var esErr *Error
	if errors.As(err, &esErr) {
		return esErr.Kind != KindRequest && esErr.Kind != KindData
	}

	return true
}
