package reporting

import (
	"github.com/andesmind/vacation-engine/leave"
	"github.com/andesmind/vacation-engine/ledger"
)

// DashboardStats is the per-user dashboard summary.
type DashboardStats struct {
	TotalRequests         int     `json:"total_requests"`
	PendingRequests       int     `json:"pending_requests"`
	ApprovedRequests      int     `json:"approved_requests"`
	RemainingVacationDays float64 `json:"remaining_vacation_days"`
	UsedVacationDays      float64 `json:"used_vacation_days"`
}

// BuildDashboard computes dashboard counters from one user's requests and
// their vacation account.
func BuildDashboard(requests []leave.TimeOffRequest, account ledger.Account) DashboardStats {
	stats := DashboardStats{
		TotalRequests:         len(requests),
		RemainingVacationDays: account.RemainingDays().InexactFloat64(),
		UsedVacationDays:      account.UsedDays.InexactFloat64(),
	}
	for i := range requests {
		switch requests[i].Status {
		case leave.StatusPending:
			stats.PendingRequests++
		case leave.StatusApproved:
			stats.ApprovedRequests++
		}
	}
	return stats
}
