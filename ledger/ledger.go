/*
ledger.go - Debit, credit, and sufficiency operations

PURPOSE:
  Implements the balance mutations tied to the request lifecycle. A debit is
  recorded when a request is approved, a credit when an approved request is
  later cancelled. Both are keyed by the causing request so replays are
  no-ops and reversals restore exactly what was taken.

CONCURRENCY:
  The hazard is two callers observing a sufficient balance and both debiting,
  overdrawing the account. Every mutation here runs under an exclusive lock
  for its (user, scope) pair and re-checks sufficiency after acquiring it.
  Different accounts never contend.

OVERDRAFT:
  Debit never drives remaining negative. The only path that may is a manual
  adjustment with AllowNegative set - the administrative override of the
  balance bound.
*/
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger performs balance accounting over a Store.
type Ledger struct {
	store Store

	mu    sync.Mutex
	locks map[accountKey]*sync.Mutex
}

type accountKey struct {
	UserID UserID
	Scope  Scope
}

func New(store Store) *Ledger {
	return &Ledger{
		store: store,
		locks: make(map[accountKey]*sync.Mutex),
	}
}

// lock returns the mutex serializing mutations for one account.
func (l *Ledger) lock(userID UserID, scope Scope) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := accountKey{UserID: userID, Scope: scope}
	m, ok := l.locks[k]
	if !ok {
		m = &sync.Mutex{}
		l.locks[k] = m
	}
	return m
}

// =============================================================================
// READS
// =============================================================================

// Balance returns the account for a (user, scope) pair.
func (l *Ledger) Balance(ctx context.Context, userID UserID, scope Scope) (Account, error) {
	return l.store.Account(ctx, userID, scope)
}

// CheckSufficiency reports whether the committed balance can afford days.
// Purely advisory: Debit re-checks under its lock, closing the race window
// between this call and the mutation.
func (l *Ledger) CheckSufficiency(ctx context.Context, userID UserID, scope Scope, days decimal.Decimal) (bool, error) {
	account, err := l.store.Account(ctx, userID, scope)
	if err != nil {
		return false, err
	}
	return account.CanAfford(days), nil
}

// Entries returns the full entry history for an account, oldest first.
func (l *Ledger) Entries(ctx context.Context, userID UserID, scope Scope) ([]Entry, error) {
	return l.store.EntriesByAccount(ctx, userID, scope)
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Open provisions a balance account. Replaces any existing row for the pair.
func (l *Ledger) Open(ctx context.Context, account Account) error {
	m := l.lock(account.UserID, account.Scope)
	m.Lock()
	defer m.Unlock()

	account.UpdatedAt = time.Now().UTC()
	return l.store.SaveAccount(ctx, account)
}

// Debit consumes days from an account, increasing used and decreasing
// remaining by the same amount. Idempotent per causeID: while the cause has
// an outstanding debit (more debits than credits recorded), another debit is
// a no-op, not a double debit. A cause fully reversed by credit can be
// debited again, which is what lets a failed approval be retried after its
// compensating credit. Fails with ErrInsufficientBalance if the balance
// cannot afford the days at debit time.
func (l *Ledger) Debit(ctx context.Context, userID UserID, scope Scope, days decimal.Decimal, causeID, recordedBy string) error {
	m := l.lock(userID, scope)
	m.Lock()
	defer m.Unlock()

	debits, credits, err := l.causePosition(ctx, causeID)
	if err != nil {
		return err
	}
	if debits > credits {
		return nil // already applied
	}

	account, err := l.store.Account(ctx, userID, scope)
	if err != nil {
		return err
	}
	if !account.CanAfford(days) {
		return &InsufficientBalanceError{
			UserID:    userID,
			Scope:     scope,
			Available: account.RemainingDays(),
			Requested: days,
		}
	}

	account.UsedDays = account.UsedDays.Add(days)
	return l.apply(ctx, account, Entry{
		Kind:       EntryDebit,
		Days:       days,
		CauseID:    causeID,
		Reason:     "request approved",
		RecordedBy: recordedBy,
	})
}

// Credit is the exact inverse of Debit, used when cancelling a previously
// approved request or compensating an approval that failed to persist. Fails
// with ErrNoPriorDebit if the cause was never debited; a credit for a cause
// with no outstanding debit is a no-op.
func (l *Ledger) Credit(ctx context.Context, userID UserID, scope Scope, days decimal.Decimal, causeID, recordedBy string) error {
	m := l.lock(userID, scope)
	m.Lock()
	defer m.Unlock()

	debits, credits, err := l.causePosition(ctx, causeID)
	if err != nil {
		return err
	}
	if debits == 0 {
		return fmt.Errorf("credit %s for %s/%s: %w", causeID, userID, scope, ErrNoPriorDebit)
	}
	if credits >= debits {
		return nil // already reversed
	}

	account, err := l.store.Account(ctx, userID, scope)
	if err != nil {
		return err
	}

	account.UsedDays = account.UsedDays.Sub(days)
	return l.apply(ctx, account, Entry{
		Kind:       EntryCredit,
		Days:       days,
		CauseID:    causeID,
		Reason:     "approved request cancelled",
		RecordedBy: recordedBy,
	})
}

// AdjustmentOpts configures a manual correction.
type AdjustmentOpts struct {
	// AllowNegative permits the adjustment to drive remaining below zero.
	AllowNegative bool
}

// Adjust applies a manual admin correction. Delta is signed: positive grants
// days back (decreases used), negative consumes them. This is the only
// operation that may leave remaining negative, and only when opts allow it.
func (l *Ledger) Adjust(ctx context.Context, userID UserID, scope Scope, delta decimal.Decimal, reason, recordedBy string, opts AdjustmentOpts) error {
	m := l.lock(userID, scope)
	m.Lock()
	defer m.Unlock()

	account, err := l.store.Account(ctx, userID, scope)
	if err != nil {
		return err
	}

	used := account.UsedDays.Sub(delta)
	if !opts.AllowNegative && account.AnnualDays.Sub(used).IsNegative() {
		return &InsufficientBalanceError{
			UserID:    userID,
			Scope:     scope,
			Available: account.RemainingDays(),
			Requested: delta.Neg(),
		}
	}

	account.UsedDays = used
	return l.apply(ctx, account, Entry{
		Kind:       EntryAdjustment,
		Days:       delta,
		Reason:     reason,
		RecordedBy: recordedBy,
	})
}

// causePosition counts the debit and credit entries recorded for a cause.
// Caller holds the account lock.
func (l *Ledger) causePosition(ctx context.Context, causeID string) (debits, credits int, err error) {
	prior, err := l.store.EntriesByCause(ctx, causeID)
	if err != nil {
		return 0, 0, err
	}
	for _, e := range prior {
		switch e.Kind {
		case EntryDebit:
			debits++
		case EntryCredit:
			credits++
		}
	}
	return debits, credits, nil
}

// apply persists the mutated account and its entry as one atomic write.
// Caller holds the account lock.
func (l *Ledger) apply(ctx context.Context, account Account, entry Entry) error {
	now := time.Now().UTC()

	entry.ID = uuid.NewString()
	entry.UserID = account.UserID
	entry.Scope = account.Scope
	entry.RecordedAt = now
	account.UpdatedAt = now

	return l.store.Apply(ctx, account, entry)
}
