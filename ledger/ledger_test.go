package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andesmind/vacation-engine/ledger"
	"github.com/andesmind/vacation-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	return ledger.New(memory.New())
}

func openAccount(t *testing.T, l *ledger.Ledger, userID string, scope string, annual int64) {
	t.Helper()
	err := l.Open(context.Background(), ledger.Account{
		UserID:     ledger.UserID(userID),
		Scope:      ledger.Scope(scope),
		AnnualDays: decimal.NewFromInt(annual),
		UsedDays:   decimal.Zero,
	})
	require.NoError(t, err)
}

func days(n float64) decimal.Decimal { return decimal.NewFromFloat(n) }

// =============================================================================
// BALANCE INVARIANT
// =============================================================================

func TestLedger_RemainingEqualsAnnualMinusUsed(t *testing.T) {
	// GIVEN: An account with 25 annual days
	// WHEN: 3.5 days are debited
	// THEN: remaining == annual - used at every observation

	l := newTestLedger(t)
	ctx := context.Background()
	openAccount(t, l, "emp-1", "vacation", 25)

	err := l.Debit(ctx, "emp-1", "vacation", days(3.5), "req-1", "mgr-1")
	require.NoError(t, err)

	account, err := l.Balance(ctx, "emp-1", "vacation")
	require.NoError(t, err)

	assert.True(t, account.UsedDays.Equal(days(3.5)))
	assert.True(t, account.RemainingDays().Equal(days(21.5)))
	assert.True(t, account.RemainingDays().Equal(account.AnnualDays.Sub(account.UsedDays)))
}

func TestLedger_DebitRejectsOverdraft(t *testing.T) {
	// GIVEN: An account with 2 remaining days
	// WHEN: Debiting 3 days
	// THEN: The debit fails with balance details and nothing is recorded

	l := newTestLedger(t)
	ctx := context.Background()
	openAccount(t, l, "emp-1", "vacation", 2)

	err := l.Debit(ctx, "emp-1", "vacation", days(3), "req-1", "mgr-1")
	require.Error(t, err)

	var balErr *ledger.InsufficientBalanceError
	require.ErrorAs(t, err, &balErr)
	assert.True(t, balErr.Available.Equal(days(2)))
	assert.True(t, balErr.Requested.Equal(days(3)))
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	entries, err := l.Entries(ctx, "emp-1", "vacation")
	require.NoError(t, err)
	assert.Empty(t, entries, "failed debit must not append an entry")
}

func TestLedger_DebitExactRemainingAllowed(t *testing.T) {
	// GIVEN: An account with exactly 5 remaining days
	// WHEN: Debiting exactly 5 days
	// THEN: The debit succeeds and remaining is zero

	l := newTestLedger(t)
	ctx := context.Background()
	openAccount(t, l, "emp-1", "vacation", 5)

	err := l.Debit(ctx, "emp-1", "vacation", days(5), "req-1", "mgr-1")
	require.NoError(t, err)

	account, err := l.Balance(ctx, "emp-1", "vacation")
	require.NoError(t, err)
	assert.True(t, account.RemainingDays().IsZero())
}

// =============================================================================
// IDEMPOTENCY
// =============================================================================

func TestLedger_DebitIdempotentPerCause(t *testing.T) {
	// GIVEN: A debit already recorded for request req-1
	// WHEN: Debiting again with the same cause
	// THEN: The second call is a no-op, not a double debit

	l := newTestLedger(t)
	ctx := context.Background()
	openAccount(t, l, "emp-1", "vacation", 25)

	require.NoError(t, l.Debit(ctx, "emp-1", "vacation", days(4), "req-1", "mgr-1"))
	require.NoError(t, l.Debit(ctx, "emp-1", "vacation", days(4), "req-1", "mgr-1"))

	account, err := l.Balance(ctx, "emp-1", "vacation")
	require.NoError(t, err)
	assert.True(t, account.UsedDays.Equal(days(4)), "used should reflect one debit")

	entries, err := l.Entries(ctx, "emp-1", "vacation")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLedger_CreditRequiresPriorDebit(t *testing.T) {
	// GIVEN: No debit for request req-1
	// WHEN: Crediting against req-1
	// THEN: ErrNoPriorDebit

	l := newTestLedger(t)
	ctx := context.Background()
	openAccount(t, l, "emp-1", "vacation", 25)

	err := l.Credit(ctx, "emp-1", "vacation", days(4), "req-1", "emp-1")
	assert.ErrorIs(t, err, ledger.ErrNoPriorDebit)
}

func TestLedger_CreditReversesDebitExactly(t *testing.T) {
	// GIVEN: 4 days debited for req-1
	// WHEN: The request is cancelled and credited back
	// THEN: Used returns to zero; a second credit is a no-op

	l := newTestLedger(t)
	ctx := context.Background()
	openAccount(t, l, "emp-1", "vacation", 25)

	require.NoError(t, l.Debit(ctx, "emp-1", "vacation", days(4), "req-1", "mgr-1"))
	require.NoError(t, l.Credit(ctx, "emp-1", "vacation", days(4), "req-1", "emp-1"))

	account, err := l.Balance(ctx, "emp-1", "vacation")
	require.NoError(t, err)
	assert.True(t, account.UsedDays.IsZero())

	// Double-cancel race: second credit must not over-restore.
	require.NoError(t, l.Credit(ctx, "emp-1", "vacation", days(4), "req-1", "emp-1"))

	account, err = l.Balance(ctx, "emp-1", "vacation")
	require.NoError(t, err)
	assert.True(t, account.UsedDays.IsZero())

	entries, err := l.Entries(ctx, "emp-1", "vacation")
	require.NoError(t, err)
	assert.Len(t, entries, 2, "one debit plus one credit")
}

func TestLedger_DebitReappliesAfterFullReversal(t *testing.T) {
	// GIVEN: req-1 debited and then fully credited back
	// WHEN: Debiting req-1 again
	// THEN: The debit applies; replay protection tracks the cause's
	// outstanding position, not whether a debit ever existed

	l := newTestLedger(t)
	ctx := context.Background()
	openAccount(t, l, "emp-1", "vacation", 25)

	require.NoError(t, l.Debit(ctx, "emp-1", "vacation", days(4), "req-1", "mgr-1"))
	require.NoError(t, l.Credit(ctx, "emp-1", "vacation", days(4), "req-1", "emp-1"))
	require.NoError(t, l.Debit(ctx, "emp-1", "vacation", days(4), "req-1", "mgr-1"))

	account, err := l.Balance(ctx, "emp-1", "vacation")
	require.NoError(t, err)
	assert.True(t, account.UsedDays.Equal(days(4)))

	entries, err := l.Entries(ctx, "emp-1", "vacation")
	require.NoError(t, err)
	assert.Len(t, entries, 3, "debit, credit, debit")
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

func TestLedger_AdjustGrantsAndConsumes(t *testing.T) {
	// GIVEN: An account with 10 annual days, 4 used
	// WHEN: Adjusting by +2 then by -1
	// THEN: Used moves opposite the signed delta

	l := newTestLedger(t)
	ctx := context.Background()
	openAccount(t, l, "emp-1", "vacation", 10)
	require.NoError(t, l.Debit(ctx, "emp-1", "vacation", days(4), "req-1", "mgr-1"))

	require.NoError(t, l.Adjust(ctx, "emp-1", "vacation", days(2), "service award", "hr-1", ledger.AdjustmentOpts{}))
	require.NoError(t, l.Adjust(ctx, "emp-1", "vacation", days(-1), "correction", "hr-1", ledger.AdjustmentOpts{}))

	account, err := l.Balance(ctx, "emp-1", "vacation")
	require.NoError(t, err)
	assert.True(t, account.UsedDays.Equal(days(3)))
	assert.True(t, account.RemainingDays().Equal(days(7)))
}

func TestLedger_AdjustmentEntriesKeepSign(t *testing.T) {
	// GIVEN: A +2 grant followed by a -1 clawback
	// THEN: The entries record the signed deltas, so the direction of each
	// correction stays readable from the history alone

	l := newTestLedger(t)
	ctx := context.Background()
	openAccount(t, l, "emp-1", "vacation", 10)

	require.NoError(t, l.Adjust(ctx, "emp-1", "vacation", days(2), "service award", "hr-1", ledger.AdjustmentOpts{}))
	require.NoError(t, l.Adjust(ctx, "emp-1", "vacation", days(-1), "correction", "hr-1", ledger.AdjustmentOpts{}))

	entries, err := l.Entries(ctx, "emp-1", "vacation")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Days.Equal(days(2)))
	assert.True(t, entries[1].Days.Equal(days(-1)))
}

func TestLedger_AdjustNegativeRequiresOverride(t *testing.T) {
	// GIVEN: An account with 1 remaining day
	// WHEN: Adjusting by -2 without AllowNegative, then with it
	// THEN: The first is rejected, the second drives remaining to -1

	l := newTestLedger(t)
	ctx := context.Background()
	openAccount(t, l, "emp-1", "vacation", 1)

	err := l.Adjust(ctx, "emp-1", "vacation", days(-2), "clawback", "hr-1", ledger.AdjustmentOpts{})
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	err = l.Adjust(ctx, "emp-1", "vacation", days(-2), "clawback", "hr-1", ledger.AdjustmentOpts{AllowNegative: true})
	require.NoError(t, err)

	account, err := l.Balance(ctx, "emp-1", "vacation")
	require.NoError(t, err)
	assert.True(t, account.RemainingDays().Equal(days(-1)))
}

// =============================================================================
// ACCOUNTS AND SCOPES
// =============================================================================

func TestLedger_MissingAccount(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.Balance(context.Background(), "ghost", "vacation")
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestLedger_ScopesAreIndependent(t *testing.T) {
	// GIVEN: Accounts for vacation and sick_leave
	// WHEN: Debiting the vacation scope
	// THEN: The sick_leave balance is untouched

	l := newTestLedger(t)
	ctx := context.Background()
	openAccount(t, l, "emp-1", "vacation", 25)
	openAccount(t, l, "emp-1", "sick_leave", 10)

	require.NoError(t, l.Debit(ctx, "emp-1", "vacation", days(5), "req-1", "mgr-1"))

	sick, err := l.Balance(ctx, "emp-1", "sick_leave")
	require.NoError(t, err)
	assert.True(t, sick.UsedDays.IsZero())
}

// =============================================================================
// CONCURRENCY
// =============================================================================

func TestLedger_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	// GIVEN: An account with 5 remaining days
	// WHEN: 20 goroutines each try to debit 1 day with distinct causes
	// THEN: Exactly 5 succeed and remaining ends at zero, never negative

	l := newTestLedger(t)
	ctx := context.Background()
	openAccount(t, l, "emp-1", "vacation", 5)

	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cause := "req-" + string(rune('a'+i))
			errs[i] = l.Debit(ctx, "emp-1", "vacation", days(1), cause, "mgr-1")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)
		}
	}
	assert.Equal(t, 5, succeeded)

	account, err := l.Balance(ctx, "emp-1", "vacation")
	require.NoError(t, err)
	assert.True(t, account.RemainingDays().IsZero())
	assert.False(t, account.RemainingDays().IsNegative(), "balance must never go negative")
}
