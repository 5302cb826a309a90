package reporting_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andesmind/vacation-engine/leave"
	"github.com/andesmind/vacation-engine/ledger"
	"github.com/andesmind/vacation-engine/reporting"
)

// =============================================================================
// PERIOD RESOLUTION
// =============================================================================

func TestPeriod_Resolve(t *testing.T) {
	start, end, err := reporting.Period{Type: reporting.PeriodMonth, Year: 2026, Month: time.February}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", start.String())
	assert.Equal(t, "2026-02-28", end.String())

	start, end, err = reporting.Period{Type: reporting.PeriodYear, Year: 2026}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", start.String())
	assert.Equal(t, "2026-12-31", end.String())

	_, _, err = reporting.Period{Type: "quarter", Year: 2026}.Resolve()
	assert.ErrorIs(t, err, leave.ErrInvalidRange)

	_, _, err = reporting.Period{Type: reporting.PeriodMonth, Year: 2026, Month: 13}.Resolve()
	assert.ErrorIs(t, err, leave.ErrInvalidRange)
}

// =============================================================================
// REPORT GENERATION
// =============================================================================

func TestBuildReport_MonthSummary(t *testing.T) {
	// GIVEN: March 2026 with two approved requests (5 and 3 days), one
	//        rejected, one pending, and one approved request in April
	// WHEN: Building the March monthly report
	// THEN: Counts per status, days from approved only, averages over the
	//       distinct employees with requests in the period

	mar := func(d int) leave.Date { return leave.NewDate(2026, time.March, d) }
	users := calendarUsers()

	mk := func(id, user string, status leave.RequestStatus, start, end leave.Date, days int64) leave.TimeOffRequest {
		r := request(id, user, status, start, end)
		r.BusinessDays = decimal.NewFromInt(days)
		return r
	}

	requests := []leave.TimeOffRequest{
		mk("r1", "emp-1", leave.StatusApproved, mar(2), mar(6), 5),
		mk("r2", "emp-2", leave.StatusApproved, mar(9), mar(11), 3),
		mk("r3", "emp-1", leave.StatusRejected, mar(16), mar(17), 2),
		mk("r4", "emp-3", leave.StatusPending, mar(23), mar(24), 2),
		mk("r5", "emp-3", leave.StatusApproved, leave.NewDate(2026, time.April, 6), leave.NewDate(2026, time.April, 7), 2),
	}

	report, err := reporting.BuildReport(requests, users,
		reporting.Period{Type: reporting.PeriodMonth, Year: 2026, Month: time.March})
	require.NoError(t, err)

	assert.Equal(t, 4, report.Summary.TotalRequests, "April request excluded")
	assert.Equal(t, 2, report.Summary.Approved)
	assert.Equal(t, 1, report.Summary.Rejected)
	assert.Equal(t, 1, report.Summary.Pending)
	assert.InDelta(t, 8.0, report.Summary.TotalDaysTaken, 1e-9)

	// Three distinct employees had requests: 8 days / 3.
	assert.InDelta(t, 8.0/3.0, report.Summary.AverageDaysPerEmployee, 1e-9)

	// Departments sorted by name: Engineering (emp-1, emp-3), Sales (emp-2).
	require.Len(t, report.ByDepartment, 2)
	eng := report.ByDepartment[0]
	assert.Equal(t, "Engineering", eng.Department)
	assert.Equal(t, 2, eng.Employees)
	assert.Equal(t, 3, eng.Requests)
	assert.InDelta(t, 5.0, eng.DaysTaken, 1e-9)
	assert.InDelta(t, 2.5, eng.AveragePerEmployee, 1e-9)

	sales := report.ByDepartment[1]
	assert.Equal(t, "Sales", sales.Department)
	assert.InDelta(t, 3.0, sales.DaysTaken, 1e-9)

	assert.Equal(t, 4, report.ByPolicyType["vacation"])

	require.NotNil(t, report.Period.Month)
	assert.Equal(t, 3, *report.Period.Month)
}

func TestBuildReport_EmptyPeriod(t *testing.T) {
	// GIVEN: No requests in the period
	// THEN: Zero counts, zero average (no division by zero)

	report, err := reporting.BuildReport(nil, calendarUsers(),
		reporting.Period{Type: reporting.PeriodYear, Year: 2030})
	require.NoError(t, err)

	assert.Zero(t, report.Summary.TotalRequests)
	assert.Zero(t, report.Summary.AverageDaysPerEmployee)
	assert.NotNil(t, report.ByDepartment)
	assert.Empty(t, report.ByDepartment)
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestBuildDashboard(t *testing.T) {
	mar := func(d int) leave.Date { return leave.NewDate(2026, time.March, d) }

	requests := []leave.TimeOffRequest{
		request("r1", "emp-1", leave.StatusApproved, mar(2), mar(4)),
		request("r2", "emp-1", leave.StatusPending, mar(9), mar(10)),
		request("r3", "emp-1", leave.StatusRejected, mar(16), mar(17)),
	}
	account := ledger.Account{
		UserID:     "emp-1",
		Scope:      "vacation",
		AnnualDays: decimal.NewFromInt(25),
		UsedDays:   decimal.NewFromFloat(3.5),
	}

	stats := reporting.BuildDashboard(requests, account)

	assert.Equal(t, 3, stats.TotalRequests)
	assert.Equal(t, 1, stats.PendingRequests)
	assert.Equal(t, 1, stats.ApprovedRequests)
	assert.InDelta(t, 21.5, stats.RemainingVacationDays, 1e-9)
	assert.InDelta(t, 3.5, stats.UsedVacationDays, 1e-9)
}
