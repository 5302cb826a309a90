/*
service.go - Request lifecycle manager

PURPOSE:
  Owns the full lifecycle of a time-off request:
  1. Creation: validate against policy, overlap, and balance; persist
  2. Decision: manager/hr approval or rejection of pending requests
  3. Cancellation: by owner or hr, with ledger reversal after approval

REQUEST FLOW:
  create ──▶ pending ──▶ approved ──▶ cancelled (credit back)
                 │           ▲
                 │     (auto-approve when policy needs no approval:
                 │      debit and persist in the same atomic unit)
                 ├──▶ rejected
                 └──▶ cancelled

VALIDATION ORDER (creation):
  policy lookup, date range, advance notice, consecutive-day cap, overlap,
  balance sufficiency. The hr_admin role bypasses the notice and
  consecutive-day checks but never balance sufficiency.

CONCURRENCY:
  Each create/approve/cancel sequence runs under an exclusive per-user lock.
  The overlap rule spans all of a user's requests regardless of policy type,
  so the lock must too: two concurrent creations under different policies
  would otherwise both pass the overlap check before either persists. The
  ledger re-checks sufficiency at debit time as the second line of defense.
  Operations on different users never block each other.

FAILURE ATOMICITY:
  A debit or credit only ever commits together with the request state that
  caused it. When persisting the request fails after the ledger write went
  through, the opposite entry is recorded for the same cause before the
  error returns, so the balance never drifts from the visible requests.

SEE ALSO:
  - statemachine.go: Allowed status transitions
  - catalog.go: Policy resolution
  - ../ledger/ledger.go: Debit/credit semantics
*/
package leave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/andesmind/vacation-engine/ledger"
)

// maxManagerChainDepth caps manager-chain walks; deeper chains (or cycles)
// stop resolving authority.
const maxManagerChainDepth = 16

// Service is the request lifecycle manager.
type Service struct {
	Requests RequestStore
	Users    UserStore
	Catalog  *Catalog
	Ledger   *ledger.Ledger
	Clock    Clock
	Holidays HolidayCalendar

	// AdminSelfDecision permits an hr_admin to approve or reject their own
	// requests. Managers can never decide their own. Deployment policy.
	AdminSelfDecision bool

	mu    sync.Mutex
	locks map[UserID]*sync.Mutex
}

func NewService(requests RequestStore, users UserStore, catalog *Catalog, ldg *ledger.Ledger, clock Clock, holidays HolidayCalendar) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if holidays == nil {
		holidays = NoHolidays{}
	}
	return &Service{
		Requests:          requests,
		Users:             users,
		Catalog:           catalog,
		Ledger:            ldg,
		Clock:             clock,
		Holidays:          holidays,
		AdminSelfDecision: true,
		locks:             make(map[UserID]*sync.Mutex),
	}
}

// userLock returns the mutex serializing lifecycle mutations for one user.
// Keyed by user alone because the overlap rule crosses policy types.
func (s *Service) userLock(userID UserID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[userID] = m
	}
	return m
}

// =============================================================================
// CREATION
// =============================================================================

// CreateRequestInput carries the caller-supplied fields of a new request.
// UserID defaults to the acting user; only hr_admin may create on behalf of
// someone else.
type CreateRequestInput struct {
	UserID    UserID
	PolicyID  PolicyID
	StartDate Date
	EndDate   Date
	HalfDay   bool
	Reason    string
	Notes     string
}

// CreateRequest validates and persists a new time-off request. When the
// policy requires no approval the request is approved and the balance
// debited in the same atomic unit.
func (s *Service) CreateRequest(ctx context.Context, actor Actor, input CreateRequestInput) (*TimeOffRequest, error) {
	ownerID := input.UserID
	if ownerID == "" {
		ownerID = actor.ID
	}
	if ownerID != actor.ID && !actor.IsAdmin() {
		return nil, fmt.Errorf("create for %s: %w", ownerID, ErrForbidden)
	}
	if _, err := s.Users.UserByID(ctx, ownerID); err != nil {
		return nil, err
	}

	policy, err := s.Catalog.ActivePolicy(ctx, input.PolicyID)
	if err != nil {
		return nil, err
	}

	if input.EndDate.Before(input.StartDate) {
		return nil, fmt.Errorf("end %s before start %s: %w", input.EndDate, input.StartDate, ErrInvalidRange)
	}
	if input.HalfDay && !input.StartDate.Equal(input.EndDate) {
		return nil, fmt.Errorf("half-day request must cover a single day: %w", ErrInvalidRange)
	}

	businessDays := BusinessDays(input.StartDate, input.EndDate, input.HalfDay, s.Holidays)
	if businessDays.IsZero() {
		return nil, fmt.Errorf("range %s to %s contains no business days: %w", input.StartDate, input.EndDate, ErrInvalidRange)
	}

	// The administrative override bypasses notice and consecutive-day rules,
	// never balance sufficiency.
	if !actor.IsAdmin() {
		notice := s.Clock.Today().DaysUntil(input.StartDate)
		if notice < policy.AdvanceNoticeDays {
			return nil, &NoticeError{RequiredDays: policy.AdvanceNoticeDays, GivenDays: notice}
		}
		if policy.MaxConsecutiveDays != nil && businessDays.GreaterThan(*policy.MaxConsecutiveDays) {
			return nil, fmt.Errorf("%s business days over cap %s: %w",
				businessDays, *policy.MaxConsecutiveDays, ErrExceedsMaxConsecutiveDays)
		}
	}

	m := s.userLock(ownerID)
	m.Lock()
	defer m.Unlock()

	if err := s.checkOverlap(ctx, ownerID, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	ok, err := s.Ledger.CheckSufficiency(ctx, ledger.UserID(ownerID), ledger.Scope(policy.Type), businessDays)
	if err != nil {
		return nil, err
	}
	if !ok {
		account, err := s.Ledger.Balance(ctx, ledger.UserID(ownerID), ledger.Scope(policy.Type))
		if err != nil {
			return nil, err
		}
		return nil, &ledger.InsufficientBalanceError{
			UserID:    ledger.UserID(ownerID),
			Scope:     ledger.Scope(policy.Type),
			Available: account.RemainingDays(),
			Requested: businessDays,
		}
	}

	now := time.Now().UTC()
	request := &TimeOffRequest{
		ID:           RequestID(uuid.NewString()),
		UserID:       ownerID,
		PolicyID:     policy.ID,
		PolicyType:   policy.Type,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		BusinessDays: businessDays,
		CalendarDays: CalendarDays(input.StartDate, input.EndDate),
		HalfDay:      input.HalfDay,
		Reason:       input.Reason,
		Notes:        input.Notes,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if !policy.RequiresApproval {
		// Auto-approval: debit before the request becomes visible, so
		// approval and debit are never observably separated.
		if err := s.Ledger.Debit(ctx, ledger.UserID(ownerID), ledger.Scope(policy.Type),
			businessDays, string(request.ID), "system"); err != nil {
			return nil, err
		}
		request.Status = StatusApproved
		request.DecidedAt = &now
		request.DecisionNote = "auto-approved"
	}

	if err := s.Requests.SaveRequest(ctx, request); err != nil {
		if request.Status == StatusApproved {
			// The request never became visible, so the debit must not
			// survive it. Each creation mints a fresh ID, meaning nothing
			// could ever reference this cause again to reverse it later.
			s.compensateDebit(ctx, request)
		}
		return nil, err
	}
	return request, nil
}

// compensateDebit reverses a debit whose request state failed to persist.
// Best effort: the credit shares the debit's cause ID, so if it fails too a
// replay against the same cause remains a safe way to settle the account.
func (s *Service) compensateDebit(ctx context.Context, request *TimeOffRequest) {
	_ = s.Ledger.Credit(ctx, ledger.UserID(request.UserID), ledger.Scope(request.PolicyType),
		request.BusinessDays, string(request.ID), "system")
}

// checkOverlap fails if the user has any pending or approved request whose
// range intersects [start, end]. Caller holds the scope lock.
func (s *Service) checkOverlap(ctx context.Context, userID UserID, start, end Date) error {
	existing, err := s.Requests.RequestsByUser(ctx, userID)
	if err != nil {
		return err
	}
	for i := range existing {
		r := &existing[i]
		if r.InFlight() && r.Overlaps(start, end) {
			return &OverlapError{ExistingID: r.ID, Start: r.StartDate, End: r.EndDate}
		}
	}
	return nil
}

// =============================================================================
// DECISION
// =============================================================================

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Decide approves or rejects a pending request. Only managers in the owner's
// chain and hr_admins may decide; approval debits the balance atomically
// with the status transition.
func (s *Service) Decide(ctx context.Context, actor Actor, requestID RequestID, decision Decision, note string) (*TimeOffRequest, error) {
	target := StatusApproved
	if decision == DecisionReject {
		target = StatusRejected
	} else if decision != DecisionApprove {
		return nil, fmt.Errorf("unknown decision %q: %w", decision, ErrInvalidState)
	}

	request, err := s.Requests.RequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.checkDecisionAuthority(ctx, actor, request); err != nil {
		return nil, err
	}

	m := s.userLock(request.UserID)
	m.Lock()
	defer m.Unlock()

	// Re-read under the lock: a concurrent cancel may have won the race.
	request, err = s.Requests.RequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(request, target); err != nil {
		return nil, err
	}

	if target == StatusApproved {
		if err := s.Ledger.Debit(ctx, ledger.UserID(request.UserID), ledger.Scope(request.PolicyType),
			request.BusinessDays, string(request.ID), string(actor.ID)); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	approver := actor.ID
	request.Status = target
	request.ApproverID = &approver
	request.DecisionNote = note
	request.DecidedAt = &now
	request.UpdatedAt = now

	if err := s.Requests.SaveRequest(ctx, request); err != nil {
		if target == StatusApproved {
			s.compensateDebit(ctx, request)
		}
		return nil, err
	}
	return request, nil
}

// checkDecisionAuthority enforces who may decide a request: hr_admins
// always (their own only when AdminSelfDecision), managers only for reports
// in their chain and never for themselves.
func (s *Service) checkDecisionAuthority(ctx context.Context, actor Actor, request *TimeOffRequest) error {
	switch actor.Role {
	case RoleHRAdmin:
		if actor.ID == request.UserID && !s.AdminSelfDecision {
			return fmt.Errorf("self-decision disabled: %w", ErrForbidden)
		}
		return nil
	case RoleManager:
		if actor.ID == request.UserID {
			return fmt.Errorf("managers cannot decide their own requests: %w", ErrForbidden)
		}
		inChain, err := s.managerChainContains(ctx, request.UserID, actor.ID)
		if err != nil {
			return err
		}
		if !inChain {
			return fmt.Errorf("actor %s is not in the owner's manager chain: %w", actor.ID, ErrForbidden)
		}
		return nil
	default:
		return fmt.Errorf("role %s cannot decide requests: %w", actor.Role, ErrForbidden)
	}
}

// managerChainContains walks the owner's manager references upward looking
// for the actor. Depth-capped against cycles.
func (s *Service) managerChainContains(ctx context.Context, ownerID, actorID UserID) (bool, error) {
	current := ownerID
	for depth := 0; depth < maxManagerChainDepth; depth++ {
		user, err := s.Users.UserByID(ctx, current)
		if err != nil {
			return false, err
		}
		if user.ManagerID == nil {
			return false, nil
		}
		if *user.ManagerID == actorID {
			return true, nil
		}
		current = *user.ManagerID
	}
	return false, nil
}

// =============================================================================
// CANCELLATION
// =============================================================================

// Cancel cancels a request. Permitted for the owner or hr_admin from any
// state except rejected and already-cancelled. A cancellation from approved
// credits the debited days back before the status changes.
func (s *Service) Cancel(ctx context.Context, actor Actor, requestID RequestID) (*TimeOffRequest, error) {
	request, err := s.Requests.RequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if actor.ID != request.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("only the owner or hr_admin may cancel: %w", ErrForbidden)
	}

	m := s.userLock(request.UserID)
	m.Lock()
	defer m.Unlock()

	request, err = s.Requests.RequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(request, StatusCancelled); err != nil {
		return nil, err
	}

	if request.Status == StatusApproved {
		if err := s.Ledger.Credit(ctx, ledger.UserID(request.UserID), ledger.Scope(request.PolicyType),
			request.BusinessDays, string(request.ID), string(actor.ID)); err != nil {
			return nil, err
		}
	}

	creditedBack := request.Status == StatusApproved
	request.Status = StatusCancelled
	request.UpdatedAt = time.Now().UTC()

	if err := s.Requests.SaveRequest(ctx, request); err != nil {
		if creditedBack {
			// The request is still approved in the store, so the days it
			// consumed must stay consumed. Re-debiting cannot overdraw:
			// the credit above just returned this exact amount.
			_ = s.Ledger.Debit(ctx, ledger.UserID(request.UserID), ledger.Scope(request.PolicyType),
				request.BusinessDays, string(request.ID), string(actor.ID))
		}
		return nil, err
	}
	return request, nil
}

// =============================================================================
// READS
// =============================================================================

// Request returns a single request. Owners see their own; managers and
// hr_admins see everything.
func (s *Service) Request(ctx context.Context, actor Actor, requestID RequestID) (*TimeOffRequest, error) {
	request, err := s.Requests.RequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if actor.ID != request.UserID && actor.Role == RoleEmployee {
		return nil, fmt.Errorf("request %s: %w", requestID, ErrForbidden)
	}
	return request, nil
}

// ListRequests returns a page of requests matching the filter, newest first.
// Employees are always scoped to their own requests.
func (s *Service) ListRequests(ctx context.Context, actor Actor, filter RequestFilter) (Page[TimeOffRequest], error) {
	if actor.Role == RoleEmployee {
		id := actor.ID
		filter.UserID = &id
	}

	matched, err := s.Requests.ListRequests(ctx, filter)
	if err != nil {
		return Page[TimeOffRequest]{}, err
	}
	return NewPage(matched, filter.Page, filter.Limit), nil
}

// Balance returns the actor-visible balance account for a user and scope.
func (s *Service) Balance(ctx context.Context, actor Actor, userID UserID, scope PolicyType) (ledger.Account, error) {
	if actor.ID != userID && actor.Role == RoleEmployee {
		return ledger.Account{}, fmt.Errorf("balance of %s: %w", userID, ErrForbidden)
	}
	return s.Ledger.Balance(ctx, ledger.UserID(userID), ledger.Scope(scope))
}
