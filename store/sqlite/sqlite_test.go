package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andesmind/vacation-engine/leave"
	"github.com/andesmind/vacation-engine/ledger"
	"github.com/andesmind/vacation-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedRequest(t *testing.T, store *sqlite.Store, id, user string, status leave.RequestStatus, start, end leave.Date, createdAt time.Time) {
	t.Helper()
	require.NoError(t, store.SaveRequest(context.Background(), &leave.TimeOffRequest{
		ID:           leave.RequestID(id),
		UserID:       leave.UserID(user),
		PolicyID:     "pol-vac",
		PolicyType:   leave.PolicyVacation,
		StartDate:    start,
		EndDate:      end,
		BusinessDays: decimal.NewFromInt(3),
		CalendarDays: 3,
		Status:       status,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}))
}

// =============================================================================
// ROUND TRIPS
// =============================================================================

func TestSQLite_UserRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mgrID := leave.UserID("mgr-1")
	user := &leave.User{
		ID:         "emp-1",
		Email:      "ana@corp.test",
		Name:       "Ana",
		EmployeeID: "E-100",
		Department: "Engineering",
		Position:   "Engineer",
		Role:       leave.RoleEmployee,
		ManagerID:  &mgrID,
		Active:     true,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.SaveUser(ctx, user))

	got, err := store.UserByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	require.NotNil(t, got.ManagerID)
	assert.Equal(t, mgrID, *got.ManagerID)
	assert.Equal(t, user.CreatedAt, got.CreatedAt)

	// NULL manager round-trips as nil.
	user2 := &leave.User{ID: "mgr-1", Email: "mia@corp.test", Name: "Mia", Role: leave.RoleManager, Active: true, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.SaveUser(ctx, user2))
	got, err = store.UserByID(ctx, "mgr-1")
	require.NoError(t, err)
	assert.Nil(t, got.ManagerID)

	_, err = store.UserByID(ctx, "ghost")
	assert.ErrorIs(t, err, leave.ErrNotFound)
}

func TestSQLite_PolicyDecimalsExact(t *testing.T) {
	// GIVEN: A policy with fractional day quantities
	// THEN: TEXT-encoded decimals survive the round trip exactly

	store := newTestStore(t)
	ctx := context.Background()

	max := decimal.NewFromFloat(7.5)
	policy := &leave.Policy{
		ID:                 "pol-1",
		Name:               "Vacation",
		Type:               leave.PolicyVacation,
		DaysAllocated:      decimal.NewFromFloat(22.5),
		RequiresApproval:   true,
		AdvanceNoticeDays:  14,
		MaxConsecutiveDays: &max,
		Active:             true,
		CreatedAt:          time.Now().UTC(),
	}
	require.NoError(t, store.SavePolicy(ctx, policy))

	got, err := store.PolicyByID(ctx, "pol-1")
	require.NoError(t, err)
	assert.True(t, got.DaysAllocated.Equal(decimal.NewFromFloat(22.5)))
	require.NotNil(t, got.MaxConsecutiveDays)
	assert.True(t, got.MaxConsecutiveDays.Equal(max))

	_, err = store.PolicyByID(ctx, "ghost")
	assert.ErrorIs(t, err, leave.ErrPolicyNotFound)
}

// =============================================================================
// REQUEST QUERIES
// =============================================================================

func TestSQLite_RequestsOverlapping(t *testing.T) {
	// GIVEN: Requests around a query window
	// THEN: Inclusive intersection on the ISO date columns, status-filtered

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mar := func(d int) leave.Date { return leave.NewDate(2026, time.March, d) }
	seedRequest(t, store, "r1", "emp-1", leave.StatusApproved, mar(2), mar(6), now)
	seedRequest(t, store, "r2", "emp-2", leave.StatusPending, mar(5), mar(9), now)
	seedRequest(t, store, "r3", "emp-3", leave.StatusApproved, mar(20), mar(24), now)
	seedRequest(t, store, "r4", "emp-1", leave.StatusCancelled, mar(4), mar(5), now)

	// Window Mar 6-10 touches r1 (ends on the 6th) and r2, not r3/r4 states.
	got, err := store.RequestsOverlapping(ctx, mar(6), mar(10),
		[]leave.RequestStatus{leave.StatusApproved, leave.StatusPending})
	require.NoError(t, err)
	require.Len(t, got, 2)

	ids := []string{string(got[0].ID), string(got[1].ID)}
	assert.ElementsMatch(t, []string{"r1", "r2"}, ids)

	// No statuses means all statuses.
	got, err = store.RequestsOverlapping(ctx, mar(4), mar(5), nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSQLite_ListRequestsFilterAndOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mar := func(d int) leave.Date { return leave.NewDate(2026, time.March, d) }
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	seedRequest(t, store, "old", "emp-1", leave.StatusApproved, mar(2), mar(4), base)
	seedRequest(t, store, "mid", "emp-1", leave.StatusPending, mar(9), mar(11), base.Add(time.Hour))
	seedRequest(t, store, "new", "emp-2", leave.StatusPending, mar(16), mar(18), base.Add(2*time.Hour))

	// Newest first, no filter.
	got, err := store.ListRequests(ctx, leave.RequestFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, leave.RequestID("new"), got[0].ID)
	assert.Equal(t, leave.RequestID("old"), got[2].ID)

	// User and status filters combine.
	userID := leave.UserID("emp-1")
	status := leave.StatusPending
	got, err = store.ListRequests(ctx, leave.RequestFilter{UserID: &userID, Status: &status})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, leave.RequestID("mid"), got[0].ID)

	// Date window filter.
	from := mar(15)
	got, err = store.ListRequests(ctx, leave.RequestFilter{DateFrom: &from})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, leave.RequestID("new"), got[0].ID)
}

// =============================================================================
// LEDGER ATOMICITY
// =============================================================================

func TestSQLite_ApplyWritesAccountAndEntryTogether(t *testing.T) {
	// GIVEN: An account row
	// WHEN: Apply persists a mutated account with its entry
	// THEN: Both are visible afterwards with exact decimal values

	store := newTestStore(t)
	ctx := context.Background()

	account := ledger.Account{
		UserID:     "emp-1",
		Scope:      "vacation",
		AnnualDays: decimal.NewFromInt(25),
		UsedDays:   decimal.Zero,
		UpdatedAt:  time.Now().UTC(),
	}
	require.NoError(t, store.SaveAccount(ctx, account))

	account.UsedDays = decimal.NewFromFloat(4.5)
	entry := ledger.Entry{
		ID:         "entry-1",
		UserID:     "emp-1",
		Scope:      "vacation",
		Kind:       ledger.EntryDebit,
		Days:       decimal.NewFromFloat(4.5),
		CauseID:    "req-1",
		Reason:     "request approved",
		RecordedBy: "mgr-1",
		RecordedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Apply(ctx, account, entry))

	got, err := store.Account(ctx, "emp-1", "vacation")
	require.NoError(t, err)
	assert.True(t, got.UsedDays.Equal(decimal.NewFromFloat(4.5)))
	assert.True(t, got.RemainingDays().Equal(decimal.NewFromFloat(20.5)))

	byCause, err := store.EntriesByCause(ctx, "req-1")
	require.NoError(t, err)
	require.Len(t, byCause, 1)
	assert.Equal(t, ledger.EntryDebit, byCause[0].Kind)

	byAccount, err := store.EntriesByAccount(ctx, "emp-1", "vacation")
	require.NoError(t, err)
	assert.Len(t, byAccount, 1)

	_, err = store.Account(ctx, "ghost", "vacation")
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestSQLite_HolidayLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveHoliday(ctx, leave.Holiday{
		ID: "h2", Date: leave.NewDate(2026, time.July, 14), Name: "National Day", Recurring: true,
	}))
	require.NoError(t, store.SaveHoliday(ctx, leave.Holiday{
		ID: "h1", Date: leave.NewDate(2026, time.April, 8), Name: "Spring Day",
	}))

	holidays, err := store.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, "h1", holidays[0].ID, "sorted by date")
	assert.True(t, holidays[1].Recurring)

	require.NoError(t, store.DeleteHoliday(ctx, "h1"))
	holidays, err = store.ListHolidays(ctx)
	require.NoError(t, err)
	assert.Len(t, holidays, 1)
}
