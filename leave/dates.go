package leave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DATE - Calendar date (day granularity, UTC)
// =============================================================================

// Date is an ISO calendar date. The zero value is the zero date.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) IsZero() bool           { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// DaysUntil returns the signed number of calendar days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) Time() time.Time { return d.t }
func (d Date) String() string  { return d.t.Format("2006-01-02") }

// =============================================================================
// COLLABORATORS - Clock and holiday calendar
// =============================================================================

// Clock supplies "today" for the advance-notice computation, so tests can
// pin the current date.
type Clock interface {
	Today() Date
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Today() Date { return DateOf(time.Now().UTC()) }

// FixedClock always reports the same date.
type FixedClock struct{ Date Date }

func (c FixedClock) Today() Date { return c.Date }

// Holiday is a configured non-working day.
type Holiday struct {
	ID        string
	Date      Date
	Name      string
	Recurring bool // same month/day every year
}

// HolidayCalendar answers whether a date is a configured holiday.
type HolidayCalendar interface {
	IsHoliday(date Date) bool
}

// NoHolidays is the calendar used when no holidays are configured.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(Date) bool { return false }

// HolidaySet is an in-memory HolidayCalendar.
type HolidaySet struct {
	fixed     map[Date]bool
	recurring map[[2]int]bool // month, day
}

func NewHolidaySet(holidays []Holiday) *HolidaySet {
	s := &HolidaySet{
		fixed:     make(map[Date]bool),
		recurring: make(map[[2]int]bool),
	}
	for _, h := range holidays {
		if h.Recurring {
			s.recurring[[2]int{int(h.Date.Month()), h.Date.Day()}] = true
		} else {
			s.fixed[h.Date] = true
		}
	}
	return s
}

func (s *HolidaySet) IsHoliday(date Date) bool {
	return s.fixed[date] || s.recurring[[2]int{int(date.Month()), date.Day()}]
}

// StoreCalendar is a HolidayCalendar backed by a HolidayStore. It caches the
// configured set and swaps it atomically on Reload, so lookups during a
// business-day sweep never hit the store.
type StoreCalendar struct {
	store HolidayStore

	mu  sync.RWMutex
	set *HolidaySet
}

func NewStoreCalendar(store HolidayStore) *StoreCalendar {
	return &StoreCalendar{store: store, set: NewHolidaySet(nil)}
}

// Reload rebuilds the cached set from the store. Call after any holiday
// mutation.
func (c *StoreCalendar) Reload(ctx context.Context) error {
	holidays, err := c.store.ListHolidays(ctx)
	if err != nil {
		return err
	}
	set := NewHolidaySet(holidays)

	c.mu.Lock()
	c.set = set
	c.mu.Unlock()
	return nil
}

func (c *StoreCalendar) IsHoliday(date Date) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.set.IsHoliday(date)
}

// IsBusinessDay reports whether a date counts against a time-off balance:
// a weekday that is not a configured holiday.
func IsBusinessDay(date Date, calendar HolidayCalendar) bool {
	if date.IsWeekend() {
		return false
	}
	if calendar != nil && calendar.IsHoliday(date) {
		return false
	}
	return true
}

// =============================================================================
// DAY COUNTING
// =============================================================================

var half = decimal.NewFromFloat(0.5)

// BusinessDays counts workdays in [start, end] inclusive, skipping weekends
// and configured holidays. A half-day request counts as 0.5 on its single day
// (and 0 if that day is not a business day).
func BusinessDays(start, end Date, halfDay bool, calendar HolidayCalendar) decimal.Decimal {
	if end.Before(start) {
		return decimal.Zero
	}

	if halfDay {
		if IsBusinessDay(start, calendar) {
			return half
		}
		return decimal.Zero
	}

	count := decimal.Zero
	for d := start; !d.After(end); d = d.AddDays(1) {
		if IsBusinessDay(d, calendar) {
			count = count.Add(decimal.NewFromInt(1))
		}
	}
	return count
}

// CalendarDays returns the inclusive span length of [start, end].
func CalendarDays(start, end Date) int {
	if end.Before(start) {
		return 0
	}
	return start.DaysUntil(end) + 1
}
