/*
Package reporting derives calendar views, periodic reports, and dashboard
statistics from persisted request state.

PURPOSE:
  Everything here is a pure function over a snapshot of requests (plus user
  records for grouping). Nothing mutates request or ledger state, and no
  internal cache exists: projections are recomputed on every read, so there
  is no invalidation to get wrong.

KEY CONCEPTS IN THIS FILE (calendar.go):
  - Window: the inclusive date range being viewed
  - CalendarAbsence: one request projected into the window
  - CalendarData: absences plus department/status totals

SEE ALSO:
  - report.go: Periodic per-department and per-policy rollups
  - dashboard.go: Per-user dashboard counters
*/
package reporting

import (
	"github.com/andesmind/vacation-engine/leave"
)

// =============================================================================
// CALENDAR PROJECTION
// =============================================================================

// Window is an inclusive date range.
type Window struct {
	Start leave.Date
	End   leave.Date
}

// CalendarOptions narrow the projection.
type CalendarOptions struct {
	// Department restricts absences to one department when non-empty.
	Department string

	// IncludePending adds pending requests alongside approved ones.
	IncludePending bool
}

// CalendarPerson identifies the absent user.
type CalendarPerson struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// CalendarAbsence is one request projected into the window.
type CalendarAbsence struct {
	User       CalendarPerson `json:"user"`
	RequestID  string         `json:"request_id"`
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	PolicyType string         `json:"policy_type"`
	Status     string         `json:"status"`
}

// CalendarPeriod echoes the queried window.
type CalendarPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CalendarSummary totals the projection.
type CalendarSummary struct {
	TotalAbsences int            `json:"total_absences"`
	ByDepartment  map[string]int `json:"by_department"`
	ByStatus      map[string]int `json:"by_status"`
}

// CalendarData is the department/team absence view.
type CalendarData struct {
	Period   CalendarPeriod    `json:"period"`
	Absences []CalendarAbsence `json:"absences"`
	Summary  CalendarSummary   `json:"summary"`
}

// BuildCalendar projects requests overlapping the window into an absence
// view. Approved requests always appear; pending ones only when requested;
// rejected and cancelled never. A window with no matching requests yields an
// empty absence list and zero totals, not an error.
func BuildCalendar(requests []leave.TimeOffRequest, users map[leave.UserID]leave.User, window Window, opts CalendarOptions) CalendarData {
	data := CalendarData{
		Period: CalendarPeriod{
			StartDate: window.Start.String(),
			EndDate:   window.End.String(),
		},
		Absences: []CalendarAbsence{},
		Summary: CalendarSummary{
			ByDepartment: map[string]int{},
			ByStatus:     map[string]int{},
		},
	}

	for i := range requests {
		r := &requests[i]

		switch r.Status {
		case leave.StatusApproved:
		case leave.StatusPending:
			if !opts.IncludePending {
				continue
			}
		default:
			continue
		}
		if !r.Overlaps(window.Start, window.End) {
			continue
		}

		user := users[r.UserID]
		if opts.Department != "" && user.Department != opts.Department {
			continue
		}

		data.Absences = append(data.Absences, CalendarAbsence{
			User: CalendarPerson{
				ID:         string(user.ID),
				Name:       user.Name,
				Department: user.Department,
			},
			RequestID:  string(r.ID),
			StartDate:  r.StartDate.String(),
			EndDate:    r.EndDate.String(),
			PolicyType: string(r.PolicyType),
			Status:     string(r.Status),
		})
		data.Summary.TotalAbsences++
		data.Summary.ByDepartment[user.Department]++
		data.Summary.ByStatus[string(r.Status)]++
	}

	return data
}
