// Package memory provides an in-memory implementation of every store
// interface (for testing/dev).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/andesmind/vacation-engine/leave"
	"github.com/andesmind/vacation-engine/ledger"
)

// Store holds all records in maps guarded by one RWMutex. Slices returned to
// callers are copies; mutations never leak through a read.
type Store struct {
	mu sync.RWMutex

	users       map[leave.UserID]leave.User
	userOrder   []leave.UserID
	policies    map[leave.PolicyID]leave.Policy
	policyOrder []leave.PolicyID
	requests    map[leave.RequestID]leave.TimeOffRequest
	holidays    map[string]leave.Holiday

	accounts map[accountKey]ledger.Account
	entries  []ledger.Entry
}

type accountKey struct {
	UserID ledger.UserID
	Scope  ledger.Scope
}

// Interface checks
var (
	_ leave.RequestStore = (*Store)(nil)
	_ leave.UserStore    = (*Store)(nil)
	_ leave.PolicyStore  = (*Store)(nil)
	_ leave.HolidayStore = (*Store)(nil)
	_ ledger.Store       = (*Store)(nil)
)

func New() *Store {
	return &Store{
		users:    make(map[leave.UserID]leave.User),
		policies: make(map[leave.PolicyID]leave.Policy),
		requests: make(map[leave.RequestID]leave.TimeOffRequest),
		holidays: make(map[string]leave.Holiday),
		accounts: make(map[accountKey]ledger.Account),
	}
}

// =============================================================================
// USERS
// =============================================================================

func (s *Store) UserByID(_ context.Context, id leave.UserID) (*leave.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, leave.ErrNotFound)
	}
	return &u, nil
}

func (s *Store) SaveUser(_ context.Context, u *leave.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		s.userOrder = append(s.userOrder, u.ID)
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]leave.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]leave.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, s.users[id])
	}
	return out, nil
}

// =============================================================================
// POLICIES
// =============================================================================

func (s *Store) PolicyByID(_ context.Context, id leave.PolicyID) (*leave.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.policies[id]
	if !ok {
		return nil, fmt.Errorf("policy %s: %w", id, leave.ErrPolicyNotFound)
	}
	return &p, nil
}

func (s *Store) SavePolicy(_ context.Context, p *leave.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.policies[p.ID]; !ok {
		s.policyOrder = append(s.policyOrder, p.ID)
	}
	s.policies[p.ID] = *p
	return nil
}

func (s *Store) ListPolicies(_ context.Context) ([]leave.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]leave.Policy, 0, len(s.policyOrder))
	for _, id := range s.policyOrder {
		out = append(out, s.policies[id])
	}
	return out, nil
}

// =============================================================================
// REQUESTS
// =============================================================================

func (s *Store) SaveRequest(_ context.Context, r *leave.TimeOffRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests[r.ID] = *r
	return nil
}

func (s *Store) RequestByID(_ context.Context, id leave.RequestID) (*leave.TimeOffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, leave.ErrNotFound)
	}
	return &r, nil
}

func (s *Store) RequestsByUser(_ context.Context, userID leave.UserID) ([]leave.TimeOffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []leave.TimeOffRequest
	for _, r := range s.requests {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sortByCreatedAt(out, false)
	return out, nil
}

func (s *Store) RequestsOverlapping(_ context.Context, start, end leave.Date, statuses []leave.RequestStatus) ([]leave.TimeOffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed := map[leave.RequestStatus]bool{}
	for _, st := range statuses {
		allowed[st] = true
	}

	var out []leave.TimeOffRequest
	for _, r := range s.requests {
		if len(statuses) > 0 && !allowed[r.Status] {
			continue
		}
		if r.Overlaps(start, end) {
			out = append(out, r)
		}
	}
	sortByCreatedAt(out, false)
	return out, nil
}

func (s *Store) ListRequests(_ context.Context, filter leave.RequestFilter) ([]leave.TimeOffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []leave.TimeOffRequest
	for _, r := range s.requests {
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.PolicyType != nil && r.PolicyType != *filter.PolicyType {
			continue
		}
		if filter.DateFrom != nil && r.EndDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && r.StartDate.After(*filter.DateTo) {
			continue
		}
		out = append(out, r)
	}
	sortByCreatedAt(out, true)
	return out, nil
}

func sortByCreatedAt(requests []leave.TimeOffRequest, newestFirst bool) {
	sort.SliceStable(requests, func(i, j int) bool {
		if newestFirst {
			return requests[i].CreatedAt.After(requests[j].CreatedAt)
		}
		return requests[i].CreatedAt.Before(requests[j].CreatedAt)
	})
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) SaveHoliday(_ context.Context, h leave.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.holidays[h.ID] = h
	return nil
}

func (s *Store) ListHolidays(_ context.Context) ([]leave.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]leave.Holiday, 0, len(s.holidays))
	for _, h := range s.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) DeleteHoliday(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.holidays, id)
	return nil
}

// =============================================================================
// LEDGER
// =============================================================================

func (s *Store) Account(_ context.Context, userID ledger.UserID, scope ledger.Scope) (ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[accountKey{UserID: userID, Scope: scope}]
	if !ok {
		return ledger.Account{}, fmt.Errorf("account %s/%s: %w", userID, scope, ledger.ErrAccountNotFound)
	}
	return a, nil
}

func (s *Store) SaveAccount(_ context.Context, account ledger.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[accountKey{UserID: account.UserID, Scope: account.Scope}] = account
	return nil
}

// Apply writes the account and its entry under one lock acquisition, so a
// reader never observes one without the other.
func (s *Store) Apply(_ context.Context, account ledger.Account, entry ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[accountKey{UserID: account.UserID, Scope: account.Scope}] = account
	s.entries = append(s.entries, entry)
	return nil
}

func (s *Store) EntriesByCause(_ context.Context, causeID string) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ledger.Entry
	for _, e := range s.entries {
		if e.CauseID != "" && e.CauseID == causeID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) EntriesByAccount(_ context.Context, userID ledger.UserID, scope ledger.Scope) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ledger.Entry
	for _, e := range s.entries {
		if e.UserID == userID && e.Scope == scope {
			out = append(out, e)
		}
	}
	return out, nil
}
