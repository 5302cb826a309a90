/*
Package leave implements the time-off request core for the vacation
self-service portal.

PURPOSE:
  This package owns the domain model and the request lifecycle: policies,
  users, time-off requests, the state machine governing status transitions,
  and the validation rules (advance notice, consecutive-day caps, overlap,
  balance sufficiency) that gate every mutation.

KEY CONCEPTS IN THIS FILE (types.go):
  - User/Role: the acting identity; authority checks dispatch on the role tag
  - Policy/PolicyType: a named leave category with approval rules
  - TimeOffRequest: the request entity with computed day counts and status
  - Actor: the trusted {id, role} pair supplied by the auth collaborator
  - Page: the paginated list envelope returned by list operations

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for all day quantities (halves are exact)
  2. Type safety: distinct string types for user/policy/request identifiers
  3. Role as data: no actor class hierarchy, a tagged {id, role} pair

SEE ALSO:
  - service.go: Request lifecycle manager
  - statemachine.go: Status transition table
  - catalog.go: Policy catalog
  - ../ledger: Balance accounting
*/
package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type PolicyID string
type RequestID string

// =============================================================================
// USERS AND ROLES
// =============================================================================

// Role determines which lifecycle transitions an actor may invoke.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHRAdmin  Role = "hr_admin"
)

// Actor is the calling identity as supplied by the auth collaborator.
// The core treats it as trusted input.
type Actor struct {
	ID   UserID
	Role Role
}

// IsAdmin reports whether the actor carries the administrative override.
func (a Actor) IsAdmin() bool { return a.Role == RoleHRAdmin }

// User is an employee record. ManagerID is a weak reference by identifier,
// not ownership.
type User struct {
	ID         UserID
	Email      string
	Name       string
	EmployeeID string
	Department string
	Position   string
	Role       Role
	ManagerID  *UserID
	Active     bool
	CreatedAt  time.Time
}

// =============================================================================
// POLICIES
// =============================================================================

// PolicyType is the balance scope a policy draws from.
type PolicyType string

const (
	PolicyVacation PolicyType = "vacation"
	PolicySick     PolicyType = "sick_leave"
	PolicyPersonal PolicyType = "personal_leave"
)

// Policy is a named leave category. Policies are immutable once referenced by
// a request; activation toggling never alters day-count semantics of
// already-created requests.
type Policy struct {
	ID                 PolicyID
	Name               string
	Type               PolicyType
	DaysAllocated      decimal.Decimal
	RequiresApproval   bool
	AdvanceNoticeDays  int
	MaxConsecutiveDays *decimal.Decimal
	Active             bool
	CreatedAt          time.Time
}

// =============================================================================
// TIME-OFF REQUESTS
// =============================================================================

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

// TimeOffRequest is a request for leave over an inclusive date range.
//
// BusinessDays is the weekday count in the range minus configured holidays
// (0.5 for a half-day request); CalendarDays the raw inclusive span. Both are
// fixed at creation time. Once approved, the ledger debit is keyed by the
// request ID so a later cancellation can reverse exactly what was taken.
type TimeOffRequest struct {
	ID         RequestID
	UserID     UserID
	PolicyID   PolicyID
	PolicyType PolicyType

	StartDate Date
	EndDate   Date

	BusinessDays decimal.Decimal
	CalendarDays int
	HalfDay      bool

	Reason string
	Notes  string

	Status       RequestStatus
	ApproverID   *UserID
	DecisionNote string
	DecidedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps reports whether two inclusive date ranges intersect.
func (r *TimeOffRequest) Overlaps(start, end Date) bool {
	return !r.EndDate.Before(start) && !r.StartDate.After(end)
}

// InFlight reports whether the request holds or may come to hold balance:
// pending and approved requests count, rejected and cancelled do not.
func (r *TimeOffRequest) InFlight() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

// =============================================================================
// LIST FILTERS AND PAGINATION
// =============================================================================

// RequestFilter narrows list operations. Nil fields match everything.
type RequestFilter struct {
	UserID     *UserID
	Status     *RequestStatus
	PolicyType *PolicyType
	DateFrom   *Date
	DateTo     *Date
	Page       int
	Limit      int
}

const DefaultPageLimit = 20

// Page is the paginated list envelope exposed to the presentation layer.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// NewPage slices items into page `page` of size `limit` and fills the
// navigation fields. Page numbers are 1-based.
func NewPage[T any](items []T, page, limit int) Page[T] {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if page <= 0 {
		page = 1
	}

	total := len(items)
	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return Page[T]{
		Items:   items[start:end],
		Total:   total,
		Page:    page,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}
