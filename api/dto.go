/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DAY QUANTITIES:
  Decimals are rendered as JSON numbers via float conversion at the edge.
  The domain keeps exact decimals; only the presentation rounds.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - ../leave/types.go: Domain model these project from
*/
package api

import (
	"time"

	"github.com/andesmind/vacation-engine/leave"
	"github.com/andesmind/vacation-engine/ledger"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// UserDTO represents a user in API responses.
type UserDTO struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	EmployeeID string  `json:"employee_id"`
	Department string  `json:"department,omitempty"`
	Position   string  `json:"position,omitempty"`
	Role       string  `json:"role"`
	ManagerID  *string `json:"manager_id,omitempty"`
	Active     bool    `json:"active"`
	CreatedAt  string  `json:"created_at,omitempty"`
}

// CreateUserRequest is the admin request to provision a user.
type CreateUserRequest struct {
	ID         string  `json:"id,omitempty"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	EmployeeID string  `json:"employee_id"`
	Department string  `json:"department,omitempty"`
	Position   string  `json:"position,omitempty"`
	Role       string  `json:"role"`
	ManagerID  *string `json:"manager_id,omitempty"`
}

// PolicyDTO represents a leave policy in API responses.
type PolicyDTO struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	PolicyType         string   `json:"policy_type"`
	DaysAllocated      float64  `json:"days_allocated"`
	RequiresApproval   bool     `json:"requires_approval"`
	AdvanceNoticeDays  int      `json:"advance_notice_days"`
	MaxConsecutiveDays *float64 `json:"max_consecutive_days,omitempty"`
	Active             bool     `json:"active"`
	CreatedAt          string   `json:"created_at,omitempty"`
}

// CreateRequestDTO is the body of POST /api/requests. Dates are ISO
// (YYYY-MM-DD). UserID is admin-only; everyone else requests for themselves.
type CreateRequestDTO struct {
	UserID    string `json:"user_id,omitempty"`
	PolicyID  string `json:"policy_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	HalfDay   bool   `json:"half_day,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// DecisionDTO is the body of the approve/reject endpoints.
type DecisionDTO struct {
	Note string `json:"note,omitempty"`
}

// RequestDTO represents a time-off request in API responses.
type RequestDTO struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	PolicyID     string  `json:"policy_id"`
	PolicyType   string  `json:"policy_type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	BusinessDays float64 `json:"business_days"`
	CalendarDays int     `json:"calendar_days"`
	HalfDay      bool    `json:"half_day"`
	Reason       string  `json:"reason,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	Status       string  `json:"status"`
	ApproverID   *string `json:"approver_id,omitempty"`
	DecisionNote string  `json:"decision_note,omitempty"`
	DecidedAt    *string `json:"decided_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// BalanceDTO represents a per-scope balance account.
type BalanceDTO struct {
	UserID        string  `json:"user_id"`
	Scope         string  `json:"scope"`
	AnnualDays    float64 `json:"annual_days"`
	UsedDays      float64 `json:"used_days"`
	RemainingDays float64 `json:"remaining_days"`
	AccrualRate   float64 `json:"accrual_rate"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
}

// EntryDTO represents one ledger entry in transaction history responses.
type EntryDTO struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	Days       float64 `json:"days"`
	CauseID    string  `json:"cause_id,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	RecordedBy string  `json:"recorded_by,omitempty"`
	RecordedAt string  `json:"recorded_at"`
}

// OpenAccountRequest is the admin request to provision a balance account.
type OpenAccountRequest struct {
	UserID      string  `json:"user_id"`
	Scope       string  `json:"scope"`
	AnnualDays  float64 `json:"annual_days"`
	AccrualRate float64 `json:"accrual_rate,omitempty"`
}

// AdjustmentRequest is the admin request for a manual balance correction.
type AdjustmentRequest struct {
	UserID        string  `json:"user_id"`
	Scope         string  `json:"scope"`
	Delta         float64 `json:"delta"`
	Reason        string  `json:"reason"`
	AllowNegative bool    `json:"allow_negative,omitempty"`
}

// HolidayDTO represents a configured holiday.
type HolidayDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toUserDTO(u leave.User) UserDTO {
	dto := UserDTO{
		ID:         string(u.ID),
		Email:      u.Email,
		Name:       u.Name,
		EmployeeID: u.EmployeeID,
		Department: u.Department,
		Position:   u.Position,
		Role:       string(u.Role),
		Active:     u.Active,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
	if u.ManagerID != nil {
		id := string(*u.ManagerID)
		dto.ManagerID = &id
	}
	return dto
}

func toPolicyDTO(p leave.Policy) PolicyDTO {
	dto := PolicyDTO{
		ID:                string(p.ID),
		Name:              p.Name,
		PolicyType:        string(p.Type),
		DaysAllocated:     p.DaysAllocated.InexactFloat64(),
		RequiresApproval:  p.RequiresApproval,
		AdvanceNoticeDays: p.AdvanceNoticeDays,
		Active:            p.Active,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
	if p.MaxConsecutiveDays != nil {
		max := p.MaxConsecutiveDays.InexactFloat64()
		dto.MaxConsecutiveDays = &max
	}
	return dto
}

func toRequestDTO(r *leave.TimeOffRequest) RequestDTO {
	dto := RequestDTO{
		ID:           string(r.ID),
		UserID:       string(r.UserID),
		PolicyID:     string(r.PolicyID),
		PolicyType:   string(r.PolicyType),
		StartDate:    r.StartDate.String(),
		EndDate:      r.EndDate.String(),
		BusinessDays: r.BusinessDays.InexactFloat64(),
		CalendarDays: r.CalendarDays,
		HalfDay:      r.HalfDay,
		Reason:       r.Reason,
		Notes:        r.Notes,
		Status:       string(r.Status),
		DecisionNote: r.DecisionNote,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
	if r.ApproverID != nil {
		id := string(*r.ApproverID)
		dto.ApproverID = &id
	}
	if r.DecidedAt != nil {
		at := r.DecidedAt.Format(time.RFC3339)
		dto.DecidedAt = &at
	}
	return dto
}

func toRequestDTOs(requests []leave.TimeOffRequest) []RequestDTO {
	dtos := make([]RequestDTO, len(requests))
	for i := range requests {
		dtos[i] = toRequestDTO(&requests[i])
	}
	return dtos
}

func toBalanceDTO(a ledger.Account) BalanceDTO {
	return BalanceDTO{
		UserID:        string(a.UserID),
		Scope:         string(a.Scope),
		AnnualDays:    a.AnnualDays.InexactFloat64(),
		UsedDays:      a.UsedDays.InexactFloat64(),
		RemainingDays: a.RemainingDays().InexactFloat64(),
		AccrualRate:   a.AccrualRate.InexactFloat64(),
		UpdatedAt:     a.UpdatedAt.Format(time.RFC3339),
	}
}

func toEntryDTOs(entries []ledger.Entry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = EntryDTO{
			ID:         e.ID,
			Kind:       string(e.Kind),
			Days:       e.Days.InexactFloat64(),
			CauseID:    e.CauseID,
			Reason:     e.Reason,
			RecordedBy: e.RecordedBy,
			RecordedAt: e.RecordedAt.Format(time.RFC3339),
		}
	}
	return dtos
}

func toHolidayDTOs(holidays []leave.Holiday) []HolidayDTO {
	dtos := make([]HolidayDTO, len(holidays))
	for i, h := range holidays {
		dtos[i] = HolidayDTO{ID: h.ID, Date: h.Date.String(), Name: h.Name, Recurring: h.Recurring}
	}
	return dtos
}
