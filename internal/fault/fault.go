// Package fault defines the engine-wide error taxonomy. Every externally
// triggered operation terminates in success or exactly one of these kinds,
// so callers and the HTTP facade can map outcomes mechanically.
package fault

import (
	"errors"
	"fmt"
)

// Kind categorizes engine errors.
type Kind string

const (
	// KindNotFound indicates a requested entity, version, or identifier is
	// absent. Recoverable by the caller, not retried automatically.
	KindNotFound Kind = "NOT_FOUND"

	// KindUpstreamUnavailable indicates an external source is unreachable or
	// erroring. Safe to retry with backoff; no partial state was persisted.
	KindUpstreamUnavailable Kind = "UPSTREAM_UNAVAILABLE"

	// KindExtractionFailed indicates text was present but unprocessable.
	// Surfaced to the operator, never silently treated as zero requirements.
	KindExtractionFailed Kind = "EXTRACTION_FAILED"

	// KindBusy indicates a conflicting operation is in flight for the same
	// key. Callers should retry after a delay.
	KindBusy Kind = "BUSY"

	// KindConflict indicates an invariant violation was detected and
	// averted, e.g. a duplicate-version race was lost.
	KindConflict Kind = "CONFLICT"

	// KindInvalid indicates the request itself was malformed.
	KindInvalid Kind = "INVALID"
)

// Error is a categorized engine error.
//
// Subject names the affected entity (regulation id, requirement id, external
// identifier) when one exists.
type Error struct {
	Kind    Kind
	Subject string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: %s (subject=%s)", e.Kind, e.Message, e.Subject)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given kind and message.
func New(kind Kind, subject, message string) *Error {
	return &Error{Kind: kind, Subject: subject, Message: message}
}

// Wrap creates an Error that carries an underlying cause.
func Wrap(kind Kind, subject, message string, err error) *Error {
	return &Error{Kind: kind, Subject: subject, Message: message, Err: err}
}

// KindOf returns the Kind of err, or "" if err carries no Error.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsUpstreamUnavailable reports whether err is an UPSTREAM_UNAVAILABLE error.
func IsUpstreamUnavailable(err error) bool { return KindOf(err) == KindUpstreamUnavailable }

// IsExtractionFailed reports whether err is an EXTRACTION_FAILED error.
func IsExtractionFailed(err error) bool { return KindOf(err) == KindExtractionFailed }

// IsBusy reports whether err is a BUSY error.
func IsBusy(err error) bool { return KindOf(err) == KindBusy }

// IsConflict reports whether err is a CONFLICT error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsInvalid reports whether err is an INVALID error.
func IsInvalid(err error) bool { return KindOf(err) == KindInvalid }
