package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andesmind/vacation-engine/leave"
)

// =============================================================================
// PERIOD RESOLUTION
// =============================================================================

type PeriodType string

const (
	PeriodMonth PeriodType = "month"
	PeriodYear  PeriodType = "year"
)

// Period identifies the reporting window.
type Period struct {
	Type  PeriodType
	Year  int
	Month time.Month // only for PeriodMonth
}

// Resolve returns the inclusive date range of the period.
func (p Period) Resolve() (leave.Date, leave.Date, error) {
	switch p.Type {
	case PeriodYear:
		return leave.NewDate(p.Year, time.January, 1), leave.NewDate(p.Year, time.December, 31), nil
	case PeriodMonth:
		if p.Month < time.January || p.Month > time.December {
			return leave.Date{}, leave.Date{}, fmt.Errorf("invalid month %d: %w", p.Month, leave.ErrInvalidRange)
		}
		start := leave.NewDate(p.Year, p.Month, 1)
		end := leave.NewDate(p.Year, p.Month+1, 1).AddDays(-1)
		return start, end, nil
	default:
		return leave.Date{}, leave.Date{}, fmt.Errorf("unknown period type %q: %w", p.Type, leave.ErrInvalidRange)
	}
}

// =============================================================================
// REPORT SHAPES
// =============================================================================

type ReportPeriod struct {
	Type  string `json:"type"`
	Year  int    `json:"year"`
	Month *int   `json:"month,omitempty"`
}

type ReportSummary struct {
	TotalRequests          int     `json:"total_requests"`
	Approved               int     `json:"approved"`
	Rejected               int     `json:"rejected"`
	Pending                int     `json:"pending"`
	TotalDaysTaken         float64 `json:"total_days_taken"`
	AverageDaysPerEmployee float64 `json:"average_days_per_employee"`
}

type DepartmentRollup struct {
	Department         string  `json:"department"`
	Employees          int     `json:"employees"`
	Requests           int     `json:"requests"`
	DaysTaken          float64 `json:"days_taken"`
	AveragePerEmployee float64 `json:"average_per_employee"`
}

// ReportData is the periodic summary of historical request data.
type ReportData struct {
	Period       ReportPeriod       `json:"period"`
	Summary      ReportSummary      `json:"summary"`
	ByDepartment []DepartmentRollup `json:"by_department"`
	ByPolicyType map[string]int     `json:"by_policy_type"`
}

// =============================================================================
// REPORT GENERATOR
// =============================================================================

type departmentAccum struct {
	employees map[leave.UserID]bool
	requests  int
	daysTaken decimal.Decimal
}

// BuildReport aggregates requests overlapping the period into per-department
// and per-policy-type rollups plus a global summary. Days taken counts only
// approved requests; average days per employee divides approved days by the
// distinct employees with at least one request in the period (0 if none).
// Read-only over the snapshot.
func BuildReport(requests []leave.TimeOffRequest, users map[leave.UserID]leave.User, period Period) (ReportData, error) {
	start, end, err := period.Resolve()
	if err != nil {
		return ReportData{}, err
	}

	data := ReportData{
		Period:       ReportPeriod{Type: string(period.Type), Year: period.Year},
		ByDepartment: []DepartmentRollup{},
		ByPolicyType: map[string]int{},
	}
	if period.Type == PeriodMonth {
		m := int(period.Month)
		data.Period.Month = &m
	}

	totalDays := decimal.Zero
	employees := map[leave.UserID]bool{}
	departments := map[string]*departmentAccum{}

	for i := range requests {
		r := &requests[i]
		if !r.Overlaps(start, end) {
			continue
		}

		data.Summary.TotalRequests++
		data.ByPolicyType[string(r.PolicyType)]++
		employees[r.UserID] = true

		dept := users[r.UserID].Department
		acc := departments[dept]
		if acc == nil {
			acc = &departmentAccum{employees: map[leave.UserID]bool{}, daysTaken: decimal.Zero}
			departments[dept] = acc
		}
		acc.employees[r.UserID] = true
		acc.requests++

		switch r.Status {
		case leave.StatusApproved:
			data.Summary.Approved++
			totalDays = totalDays.Add(r.BusinessDays)
			acc.daysTaken = acc.daysTaken.Add(r.BusinessDays)
		case leave.StatusRejected:
			data.Summary.Rejected++
		case leave.StatusPending:
			data.Summary.Pending++
		}
	}

	data.Summary.TotalDaysTaken = totalDays.InexactFloat64()
	if n := len(employees); n > 0 {
		avg := totalDays.Div(decimal.NewFromInt(int64(n)))
		data.Summary.AverageDaysPerEmployee = avg.InexactFloat64()
	}

	names := make([]string, 0, len(departments))
	for name := range departments {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		acc := departments[name]
		rollup := DepartmentRollup{
			Department: name,
			Employees:  len(acc.employees),
			Requests:   acc.requests,
			DaysTaken:  acc.daysTaken.InexactFloat64(),
		}
		if rollup.Employees > 0 {
			avg := acc.daysTaken.Div(decimal.NewFromInt(int64(rollup.Employees)))
			rollup.AveragePerEmployee = avg.InexactFloat64()
		}
		data.ByDepartment = append(data.ByDepartment, rollup)
	}

	return data, nil
}
