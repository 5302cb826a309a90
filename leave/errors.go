/*
errors.go - Error taxonomy for the leave core

PURPOSE:
  All request-lifecycle failures in one place. Every error here is a typed,
  recoverable business outcome surfaced synchronously to the caller - none is
  a fatal process error, and the core never retries on its own.

ERROR CATEGORIES:
  1. Lookup errors   - referenced user/policy/request absent
  2. Validation      - range, notice, consecutive-day, overlap violations
  3. Lifecycle       - transition not allowed, actor lacks authority

Balance errors (insufficiency, missing debit) live in the ledger package;
IsClientError below recognizes them so the transport layer can classify with
a single call.

USAGE:
  if errors.Is(err, leave.ErrOverlappingRequest) { ... }

  var stateErr *leave.InvalidStateError
  if errors.As(err, &stateErr) { ... stateErr.From, stateErr.To ... }
*/
package leave

import (
	"errors"
	"fmt"

	"github.com/andesmind/vacation-engine/ledger"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced user or request doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrPolicyNotFound is returned when a policy is absent, or inactive in a
	// context that requires an active one.
	ErrPolicyNotFound = errors.New("policy not found")

	// ErrInvalidRange is returned when a date range is malformed
	// (end before start, half-day over multiple days, no business days).
	ErrInvalidRange = errors.New("invalid date range")

	// ErrInsufficientNotice is returned when a request starts sooner than the
	// policy's advance-notice window allows.
	ErrInsufficientNotice = errors.New("insufficient advance notice")

	// ErrExceedsMaxConsecutiveDays is returned when a request is longer than
	// the policy's consecutive-day cap.
	ErrExceedsMaxConsecutiveDays = errors.New("exceeds maximum consecutive days")

	// ErrOverlappingRequest is returned when the user already has a pending or
	// approved request intersecting the range.
	ErrOverlappingRequest = errors.New("overlapping request")

	// ErrInvalidState is returned when a lifecycle transition is not allowed
	// from the request's current status.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrForbidden is returned when the actor lacks authority for the action.
	ErrForbidden = errors.New("forbidden")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NoticeError reports how short the advance notice was.
type NoticeError struct {
	RequiredDays int
	GivenDays    int
}

func (e *NoticeError) Error() string {
	return fmt.Sprintf("insufficient notice: %d days required, %d given", e.RequiredDays, e.GivenDays)
}

func (e *NoticeError) Unwrap() error { return ErrInsufficientNotice }

// OverlapError names the request that already occupies the range.
type OverlapError struct {
	ExistingID RequestID
	Start      Date
	End        Date
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlaps request %s (%s to %s)", e.ExistingID, e.Start, e.End)
}

func (e *OverlapError) Unwrap() error { return ErrOverlappingRequest }

// InvalidStateError reports the transition that was attempted.
type InvalidStateError struct {
	RequestID RequestID
	From      RequestStatus
	To        RequestStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("request %s: cannot transition %s -> %s", e.RequestID, e.From, e.To)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrPolicyNotFound) ||
		errors.Is(err, ledger.ErrAccountNotFound) ||
		errors.Is(err, ledger.ErrNoPriorDebit)
}

// IsClientError returns true if the error is a business outcome the caller
// should present to the user, as opposed to an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInsufficientNotice) ||
		errors.Is(err, ErrExceedsMaxConsecutiveDays) ||
		errors.Is(err, ErrOverlappingRequest) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ledger.ErrInsufficientBalance)
}
