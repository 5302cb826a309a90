package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAccountNotFound is returned when no balance exists for the
	// (user, scope) pair.
	ErrAccountNotFound = errors.New("balance account not found")

	// ErrInsufficientBalance is returned when a debit would make the
	// remaining balance negative. Debit-time re-check failures under
	// concurrency surface as this same error: the caller's remedy is
	// identical either way.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNoPriorDebit is returned when a credit references a cause request
	// that was never debited.
	ErrNoPriorDebit = errors.New("no prior debit for cause")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// InsufficientBalanceError details a balance shortage.
type InsufficientBalanceError struct {
	UserID    UserID
	Scope     Scope
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for %s/%s: available %s, requested %s",
		e.UserID, e.Scope, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }
