package domain

import (
	"errors"
	"fmt"
)

var (
	errRequestNotFound = errors.New("request not found")
	errOfferNotFound   = errors.New("offer not found")
	errBookingNotFound = errors.New("booking not found")
	errDisputeNotFound = errors.New("dispute not found")

	// ErrRequestClosed means the negotiation on a request has ended and no
	// further offer submissions, revisions or counters are accepted.
	ErrRequestClosed = errors.New("request is no longer open")

	// ErrWriteConflict means a concurrent writer won the race on the same
	// document; the caller should re-fetch and retry or inform the user.
	ErrWriteConflict = errors.New("write conflict, state changed concurrently")

	// ErrCounterAlreadySet means a guest counter price was already submitted
	// for this offer; it may never be overwritten.
	ErrCounterAlreadySet = errors.New("counter price already set")

	ErrPaymentDeclined = errors.New("payment was declined")

	ErrDisputeWindowClosed = errors.New("dispute window is closed for this period")
	ErrDisputeExists       = errors.New("dispute already opened for this booking and period")
)

func ErrRequestNotFound() error { return errRequestNotFound }
func ErrOfferNotFound() error   { return errOfferNotFound }
func ErrBookingNotFound() error { return errBookingNotFound }
func ErrDisputeNotFound() error { return errDisputeNotFound }

// ValidationError reports malformed input. Always recoverable, surfaced to
// the caller before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) ValidationError {
	return ValidationError{Field: field, Reason: reason}
}

// InvalidTransition reports a state-machine guard failure. It names the
// attempted action and the guard that rejected it so callers can show a
// precise message without parsing error strings.
type InvalidTransition struct {
	Entity string
	From   string
	Action string
	Guard  string
}

func (e InvalidTransition) Error() string {
	return fmt.Sprintf("invalid transition: %s %q cannot %s (%s)", e.Entity, e.From, e.Action, e.Guard)
}

// InconsistentError marks a partial multi-document write. It is fatal and
// must be logged for manual reconciliation, never swallowed.
type InconsistentError struct {
	Op     string
	Detail string
	Err    error
}

func (e InconsistentError) Error() string {
	return fmt.Sprintf("inconsistent state after %s: %s: %v", e.Op, e.Detail, e.Err)
}

func (e InconsistentError) Unwrap() error { return e.Err }
