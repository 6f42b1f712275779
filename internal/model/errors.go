package model

import (
	"errors"
	"fmt"
)

// DomainError is an invariant violation reported by a module. It is returned
// verbatim to the caller and never poisons the actor.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// ConflictError is an optimistic-concurrency mismatch on append. It never
// crosses the RPC edge; the actor rehydrates and retries once.
type ConflictError struct {
	StreamName       StreamName
	ExpectedSequence uint64
	CurrentSequence  uint64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("stream %s: expected sequence %d, stream is at %d",
		e.StreamName, e.ExpectedSequence, e.CurrentSequence)
}

// NotFoundError reports a missing module, stream, or subscription.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// InvalidInputError reports malformed caller input.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ErrInternal is the opaque error surfaced for system failures. The full
// detail is logged at the point of failure, never returned to the caller.
var ErrInternal = errors.New("internal error")

// IsConflict reports whether err is a store sequence conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsDomain reports whether err is a module-reported domain error.
func IsDomain(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
