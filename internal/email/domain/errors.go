package domain

import (
	"errors"
	"fmt"
)

// ErrEmailNotFound is returned when an operation references an unknown
// email id.
var ErrEmailNotFound = errors.New("email not found")

// ErrSimulatedFailure is the structured failure reported by sync when
// error simulation is requested but the active provider cannot inject one
// itself. Nothing is written in that case.
var ErrSimulatedFailure = errors.New("simulated provider failure")

// PreconditionError reports an invalid state transition attempt, e.g.
// drafting a reply for an unclassified email. The stored email is never
// mutated on this path.
type PreconditionError struct {
	Op     string
	Status string
	Reason string
}

func (e *PreconditionError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s: %s (status %s)", e.Op, e.Reason, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// ConflictError reports an attempt to repeat a terminal action, such as
// sending a reply that was already sent.
type ConflictError struct {
	Op     string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// AuthScopeError means the mail backend rejected a call for missing
// permissions. It is surfaced distinctly from transient failures because
// the operator remedy is re-authorization, not retry.
type AuthScopeError struct {
	Provider string
	Err      error
}

func (e *AuthScopeError) Error() string {
	return fmt.Sprintf("%s: missing required scope: %v", e.Provider, e.Err)
}

func (e *AuthScopeError) Unwrap() error { return e.Err }

// ProviderError wraps a transient adapter failure (timeout, network error,
// malformed response). Safe to retry the same stage; no state was written.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
