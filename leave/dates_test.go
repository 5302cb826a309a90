package leave_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andesmind/vacation-engine/leave"
)

// =============================================================================
// DATE PARSING AND ARITHMETIC
// =============================================================================

func TestParseDate(t *testing.T) {
	d, err := leave.ParseDate("2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 10, d.Day())
	assert.Equal(t, "2026-03-10", d.String())

	_, err = leave.ParseDate("10/03/2026")
	assert.Error(t, err)
}

func TestDaysUntil(t *testing.T) {
	start := leave.NewDate(2026, time.March, 1)
	assert.Equal(t, 9, start.DaysUntil(leave.NewDate(2026, time.March, 10)))
	assert.Equal(t, 0, start.DaysUntil(start))
	assert.Equal(t, -1, start.DaysUntil(leave.NewDate(2026, time.February, 28)))
}

// =============================================================================
// BUSINESS DAY COUNTING
// =============================================================================

func TestBusinessDays_FullWeek(t *testing.T) {
	// GIVEN: Monday 2026-03-02 through Sunday 2026-03-08
	// WHEN: Counting business days with no holidays
	// THEN: 5 (the weekend does not count)

	start := leave.NewDate(2026, time.March, 2)
	end := leave.NewDate(2026, time.March, 8)

	got := leave.BusinessDays(start, end, false, nil)
	assert.True(t, got.Equal(decimal.NewFromInt(5)), "got %s", got)
}

func TestBusinessDays_WeekendOnly(t *testing.T) {
	// GIVEN: Saturday through Sunday
	// THEN: Zero business days

	start := leave.NewDate(2026, time.March, 7)
	end := leave.NewDate(2026, time.March, 8)

	got := leave.BusinessDays(start, end, false, nil)
	assert.True(t, got.IsZero())
}

func TestBusinessDays_SkipsHolidays(t *testing.T) {
	// GIVEN: A week containing one fixed holiday
	// THEN: The holiday is excluded from the count

	holidays := leave.NewHolidaySet([]leave.Holiday{
		{Date: leave.NewDate(2026, time.March, 4), Name: "Founders Day"},
	})

	start := leave.NewDate(2026, time.March, 2)
	end := leave.NewDate(2026, time.March, 6)

	got := leave.BusinessDays(start, end, false, holidays)
	assert.True(t, got.Equal(decimal.NewFromInt(4)), "got %s", got)
}

func TestBusinessDays_RecurringHoliday(t *testing.T) {
	// GIVEN: A recurring holiday configured in a past year
	// THEN: It applies to the same month/day in any year

	holidays := leave.NewHolidaySet([]leave.Holiday{
		{Date: leave.NewDate(2020, time.July, 14), Name: "National Day", Recurring: true},
	})

	assert.True(t, holidays.IsHoliday(leave.NewDate(2026, time.July, 14)))
	assert.False(t, holidays.IsHoliday(leave.NewDate(2026, time.July, 15)))
}

func TestBusinessDays_HalfDay(t *testing.T) {
	// GIVEN: A half-day on a Tuesday
	// THEN: 0.5 days; on a Saturday it counts zero

	tuesday := leave.NewDate(2026, time.March, 3)
	got := leave.BusinessDays(tuesday, tuesday, true, nil)
	assert.True(t, got.Equal(decimal.NewFromFloat(0.5)), "got %s", got)

	saturday := leave.NewDate(2026, time.March, 7)
	got = leave.BusinessDays(saturday, saturday, true, nil)
	assert.True(t, got.IsZero())
}

func TestBusinessDays_ReversedRange(t *testing.T) {
	start := leave.NewDate(2026, time.March, 10)
	end := leave.NewDate(2026, time.March, 2)

	assert.True(t, leave.BusinessDays(start, end, false, nil).IsZero())
	assert.Equal(t, 0, leave.CalendarDays(start, end))
}

func TestCalendarDays_InclusiveSpan(t *testing.T) {
	start := leave.NewDate(2026, time.March, 2)
	end := leave.NewDate(2026, time.March, 8)
	assert.Equal(t, 7, leave.CalendarDays(start, end))
	assert.Equal(t, 1, leave.CalendarDays(start, start))
}
