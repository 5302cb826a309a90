/*
store.go - Persistence contracts for the leave core

PURPOSE:
  Defines the interfaces between the domain logic and the database. The core
  specifies what it needs from a transactional store, not a specific engine:
  store/sqlite is the shipped implementation, store/memory serves tests and
  dev mode.

CONCURRENCY CONTRACT:
  Implementations must be safe for concurrent use and internally consistent
  per call. The lifecycle service serializes each (user, policy-type)
  mutation sequence above this interface, so stores never see two concurrent
  writers for the same balance scope.
*/
package leave

import "context"

// =============================================================================
// REQUEST STORE
// =============================================================================

// RequestStore persists time-off requests.
type RequestStore interface {
	// SaveRequest inserts or replaces a request by ID.
	SaveRequest(ctx context.Context, r *TimeOffRequest) error

	// RequestByID returns a request, or ErrNotFound.
	RequestByID(ctx context.Context, id RequestID) (*TimeOffRequest, error)

	// RequestsByUser returns all requests of one user, oldest first.
	RequestsByUser(ctx context.Context, userID UserID) ([]TimeOffRequest, error)

	// RequestsOverlapping returns requests whose [start, end] intersects the
	// window, restricted to the given statuses (all statuses if empty).
	RequestsOverlapping(ctx context.Context, start, end Date, statuses []RequestStatus) ([]TimeOffRequest, error)

	// ListRequests returns requests matching the filter, newest first,
	// before pagination is applied.
	ListRequests(ctx context.Context, filter RequestFilter) ([]TimeOffRequest, error)
}

// =============================================================================
// USER STORE
// =============================================================================

// UserStore persists user records.
type UserStore interface {
	// UserByID returns a user, or ErrNotFound.
	UserByID(ctx context.Context, id UserID) (*User, error)

	// SaveUser inserts or replaces a user by ID.
	SaveUser(ctx context.Context, u *User) error

	// ListUsers returns all users in insertion order.
	ListUsers(ctx context.Context) ([]User, error)
}

// =============================================================================
// POLICY STORE
// =============================================================================

// PolicyStore persists policies. ListPolicies preserves insertion order.
type PolicyStore interface {
	// PolicyByID returns a policy regardless of its active flag, or
	// ErrPolicyNotFound. Inactive policies stay resolvable so historical
	// requests can still be displayed.
	PolicyByID(ctx context.Context, id PolicyID) (*Policy, error)

	// SavePolicy inserts or replaces a policy by ID.
	SavePolicy(ctx context.Context, p *Policy) error

	// ListPolicies returns all policies in insertion order.
	ListPolicies(ctx context.Context) ([]Policy, error)
}

// =============================================================================
// HOLIDAY STORE
// =============================================================================

// HolidayStore persists configured holidays for business-day computation.
type HolidayStore interface {
	SaveHoliday(ctx context.Context, h Holiday) error
	ListHolidays(ctx context.Context) ([]Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
}
