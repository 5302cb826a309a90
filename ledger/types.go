/*
Package ledger implements per-user, per-scope balance accounting for
time-off days.

PURPOSE:
  The ledger is the source of truth for whether a request is affordable.
  Each account tracks an annual allocation and the days used against it;
  every change is recorded as a debit or credit entry keyed by the request
  that caused it, so approvals can be reversed exactly on cancellation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Account: the (user, scope) balance row; remaining is always derived
  - Entry: an immutable record of a single debit/credit/adjustment
  - Store: the persistence contract the ledger runs against

CRITICAL INVARIANTS:
  1. used + remaining == annual after every mutation (by construction:
     remaining is computed, never stored independently)
  2. Entries are append-only; corrections are opposite entries, not edits
  3. Each cause request ID has at most one outstanding debit: replayed
     debits and credits are no-ops until the opposite entry re-opens them

SEE ALSO:
  - ledger.go: Debit/credit/sufficiency operations
  - ../store/sqlite: Persistent implementation of Store
  - ../store/memory: In-memory implementation for tests
*/
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string

// Scope is the policy-type bucket an account belongs to
// (vacation, sick_leave, personal_leave).
type Scope string

// =============================================================================
// ACCOUNT - The (user, scope) balance
// =============================================================================

// Account is a per-user, per-scope day balance. UsedDays is the only mutable
// quantity; RemainingDays is derived so the accounting identity cannot drift.
type Account struct {
	UserID      UserID
	Scope       Scope
	AnnualDays  decimal.Decimal
	UsedDays    decimal.Decimal
	AccrualRate decimal.Decimal
	UpdatedAt   time.Time
}

// RemainingDays returns annual - used.
func (a Account) RemainingDays() decimal.Decimal {
	return a.AnnualDays.Sub(a.UsedDays)
}

// CanAfford reports whether debiting days would keep remaining non-negative.
func (a Account) CanAfford(days decimal.Decimal) bool {
	return a.RemainingDays().GreaterThanOrEqual(days)
}

// =============================================================================
// ENTRY - Immutable record of a balance change
// =============================================================================

type EntryKind string

const (
	EntryDebit      EntryKind = "debit"      // approved request consumed days
	EntryCredit     EntryKind = "credit"     // cancellation returned days
	EntryAdjustment EntryKind = "adjustment" // manual admin correction
)

// Entry records one balance change. Days is positive for debits and credits,
// with Kind carrying the direction; adjustment entries store the signed delta
// so the direction of a manual correction stays recoverable from history.
// CauseID is the request identifier for debits/credits and the idempotency
// key: a cause's net position is at most one outstanding debit.
type Entry struct {
	ID         string
	UserID     UserID
	Scope      Scope
	Kind       EntryKind
	Days       decimal.Decimal
	CauseID    string
	Reason     string
	RecordedBy string
	RecordedAt time.Time
}

// =============================================================================
// STORE - Persistence contract
// =============================================================================

// Store persists accounts and entries. Implementations must be safe for
// concurrent use; the ledger serializes mutations per (user, scope) above
// this interface, so a store only needs internally consistent reads/writes.
type Store interface {
	// Account returns the balance row, or ErrAccountNotFound.
	Account(ctx context.Context, userID UserID, scope Scope) (Account, error)

	// SaveAccount inserts or replaces the balance row.
	SaveAccount(ctx context.Context, account Account) error

	// Apply persists a mutated account together with the entry recording the
	// change, as one atomic write. Entries are never updated or deleted.
	Apply(ctx context.Context, account Account, entry Entry) error

	// EntriesByCause returns all entries recorded for a cause request ID,
	// oldest first.
	EntriesByCause(ctx context.Context, causeID string) ([]Entry, error)

	// EntriesByAccount returns all entries for an account, oldest first.
	EntriesByAccount(ctx context.Context, userID UserID, scope Scope) ([]Entry, error)
}
