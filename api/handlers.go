/*
handlers.go - HTTP API handlers for the vacation self-service portal

PURPOSE:
  Exposes the leave core via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to domain logic. Handlers stay thin: every
  authority and validation rule lives in the leave service, not here.

ENDPOINTS:
  Policies:
    GET    /api/policies               List active policies
    GET    /api/policies/{id}          Get policy (inactive ones resolvable)

  Requests:
    POST   /api/requests               Submit a time-off request
    GET    /api/requests               List requests (paginated, filtered)
    GET    /api/requests/{id}          Get one request
    POST   /api/requests/{id}/approve  Approve a pending request
    POST   /api/requests/{id}/reject   Reject a pending request
    POST   /api/requests/{id}/cancel   Cancel a request

  Balance:
    GET    /api/balance                Balance account for a user and scope
    GET    /api/balance/history        Ledger entries for the account

  Aggregation:
    GET    /api/calendar               Team absence calendar
    GET    /api/reports                Usage report (managers and hr)
    GET    /api/dashboard              Personal dashboard stats

  Holidays:
    GET    /api/holidays               List configured holidays
    POST   /api/holidays               Add a holiday (hr_admin)
    DELETE /api/holidays/{id}          Remove a holiday (hr_admin)

  Admin:
    GET    /api/admin/users            List users
    POST   /api/admin/users            Provision a user
    POST   /api/admin/accounts         Open a balance account
    POST   /api/admin/adjustments      Manual balance correction
    POST   /api/admin/policies         Create a policy
    POST   /api/admin/policies/{id}/activate  Toggle a policy

ERROR HANDLING:
  Domain errors map to status codes in writeDomainError:
  - 400: Malformed input, invalid date ranges
  - 403: Actor lacks authority
  - 404: Referenced record absent
  - 409: Overlap conflicts, disallowed lifecycle transitions
  - 422: Business rule violations (notice, caps, balance)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - auth.go: Actor extraction
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andesmind/vacation-engine/leave"
	"github.com/andesmind/vacation-engine/ledger"
	"github.com/andesmind/vacation-engine/reporting"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service  *leave.Service
	Catalog  *leave.Catalog
	Ledger   *ledger.Ledger
	Users    leave.UserStore
	Requests leave.RequestStore
	Holidays leave.HolidayStore

	// Calendar is the reloadable holiday calendar shared with the service.
	// Holiday mutations call Reload so business-day math picks them up.
	Calendar *leave.StoreCalendar
}

// NewHandler creates a handler over the assembled domain collaborators.
func NewHandler(service *leave.Service, catalog *leave.Catalog, ldg *ledger.Ledger,
	users leave.UserStore, requests leave.RequestStore,
	holidays leave.HolidayStore, calendar *leave.StoreCalendar) *Handler {
	return &Handler{
		Service:  service,
		Catalog:  catalog,
		Ledger:   ldg,
		Users:    users,
		Requests: requests,
		Holidays: holidays,
		Calendar: calendar,
	}
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

// ListPolicies returns all active policies in catalog order.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.Catalog.ListActive(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list policies", err)
		return
	}

	dtos := make([]PolicyDTO, len(policies))
	for i, p := range policies {
		dtos[i] = toPolicyDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPolicy returns a single policy, active or not, so historical requests
// can always be displayed.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	id := leave.PolicyID(chi.URLParam(r, "id"))

	policy, err := h.Catalog.Policy(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPolicyDTO(*policy))
}

// CreatePolicy provisions a new policy (hr_admin).
func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req PolicyDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" || req.PolicyType == "" {
		writeError(w, http.StatusBadRequest, "name and policy_type are required", nil)
		return
	}

	policy := &leave.Policy{
		ID:                leave.PolicyID(req.ID),
		Name:              req.Name,
		Type:              leave.PolicyType(req.PolicyType),
		DaysAllocated:     decimal.NewFromFloat(req.DaysAllocated),
		RequiresApproval:  req.RequiresApproval,
		AdvanceNoticeDays: req.AdvanceNoticeDays,
		Active:            true,
		CreatedAt:         time.Now().UTC(),
	}
	if policy.ID == "" {
		policy.ID = leave.PolicyID(uuid.NewString())
	}
	if req.MaxConsecutiveDays != nil {
		max := decimal.NewFromFloat(*req.MaxConsecutiveDays)
		policy.MaxConsecutiveDays = &max
	}

	if err := h.Catalog.Save(r.Context(), policy); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save policy", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPolicyDTO(*policy))
}

// ActivatePolicy toggles a policy's active flag (hr_admin). Deactivation
// never alters day counts of requests already created under the policy.
func (h *Handler) ActivatePolicy(w http.ResponseWriter, r *http.Request) {
	id := leave.PolicyID(chi.URLParam(r, "id"))

	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Catalog.SetActive(r.Context(), id, req.Active); err != nil {
		writeDomainError(w, err)
		return
	}

	policy, err := h.Catalog.Policy(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPolicyDTO(*policy))
}

// =============================================================================
// REQUEST HANDLERS
// =============================================================================

// SubmitRequest creates a time-off request for the acting user (or, for
// hr_admin, on behalf of another user).
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var req CreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := leave.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}
	end, err := leave.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date", err)
		return
	}

	request, err := h.Service.CreateRequest(r.Context(), actorFrom(r), leave.CreateRequestInput{
		UserID:    leave.UserID(req.UserID),
		PolicyID:  leave.PolicyID(req.PolicyID),
		StartDate: start,
		EndDate:   end,
		HalfDay:   req.HalfDay,
		Reason:    req.Reason,
		Notes:     req.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRequestDTO(request))
}

// ListRequests returns a paginated page of requests. Employees always see
// only their own; filters come from query parameters.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRequestFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	page, err := h.Service.ListRequests(r.Context(), actorFrom(r), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, leave.Page[RequestDTO]{
		Items:   toRequestDTOs(page.Items),
		Total:   page.Total,
		Page:    page.Page,
		Pages:   page.Pages,
		HasNext: page.HasNext,
		HasPrev: page.HasPrev,
	})
}

func parseRequestFilter(r *http.Request) (leave.RequestFilter, error) {
	var filter leave.RequestFilter
	q := r.URL.Query()

	if v := q.Get("user_id"); v != "" {
		id := leave.UserID(v)
		filter.UserID = &id
	}
	if v := q.Get("status"); v != "" {
		status := leave.RequestStatus(v)
		filter.Status = &status
	}
	if v := q.Get("policy_type"); v != "" {
		pt := leave.PolicyType(v)
		filter.PolicyType = &pt
	}
	if v := q.Get("date_from"); v != "" {
		d, err := leave.ParseDate(v)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &d
	}
	if v := q.Get("date_to"); v != "" {
		d, err := leave.ParseDate(v)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &d
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, fmt.Errorf("invalid page %q", v)
		}
		filter.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, fmt.Errorf("invalid limit %q", v)
		}
		filter.Limit = n
	}
	return filter, nil
}

// GetRequest returns a single request, subject to visibility rules.
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := leave.RequestID(chi.URLParam(r, "id"))

	request, err := h.Service.Request(r.Context(), actorFrom(r), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(request))
}

// ApproveRequest approves a pending request.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.DecisionApprove)
}

// RejectRequest rejects a pending request.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.DecisionReject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, decision leave.Decision) {
	id := leave.RequestID(chi.URLParam(r, "id"))

	var body DecisionDTO
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	request, err := h.Service.Decide(r.Context(), actorFrom(r), id, decision, body.Note)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(request))
}

// CancelRequest cancels a pending or approved request.
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	id := leave.RequestID(chi.URLParam(r, "id"))

	request, err := h.Service.Cancel(r.Context(), actorFrom(r), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(request))
}

// =============================================================================
// BALANCE HANDLERS
// =============================================================================

// balanceQuery resolves the (user, scope) pair for balance endpoints.
// user_id defaults to the actor, scope to vacation.
func balanceQuery(r *http.Request) (leave.UserID, leave.PolicyType) {
	userID := leave.UserID(r.URL.Query().Get("user_id"))
	if userID == "" {
		userID = actorFrom(r).ID
	}
	scope := leave.PolicyType(r.URL.Query().Get("scope"))
	if scope == "" {
		scope = leave.PolicyVacation
	}
	return userID, scope
}

// GetBalance returns the balance account for a user and scope.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, scope := balanceQuery(r)

	account, err := h.Service.Balance(r.Context(), actorFrom(r), userID, scope)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(account))
}

// GetBalanceHistory returns the ledger entries behind a balance, oldest
// first. Same visibility rules as the balance itself.
func (h *Handler) GetBalanceHistory(w http.ResponseWriter, r *http.Request) {
	userID, scope := balanceQuery(r)

	// Authorize through the same path as the balance read.
	if _, err := h.Service.Balance(r.Context(), actorFrom(r), userID, scope); err != nil {
		writeDomainError(w, err)
		return
	}

	entries, err := h.Ledger.Entries(r.Context(), ledger.UserID(userID), ledger.Scope(scope))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// =============================================================================
// AGGREGATION HANDLERS
// =============================================================================

// GetCalendar returns the team absence view for a window.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := leave.ParseDate(q.Get("start_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}
	end, err := leave.ParseDate(q.Get("end_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date", err)
		return
	}

	opts := reporting.CalendarOptions{
		Department:     q.Get("department"),
		IncludePending: q.Get("include_pending") == "true",
	}

	statuses := []leave.RequestStatus{leave.StatusApproved}
	if opts.IncludePending {
		statuses = append(statuses, leave.StatusPending)
	}

	requests, err := h.Requests.RequestsOverlapping(r.Context(), start, end, statuses)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load requests", err)
		return
	}
	users, err := h.userIndex(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load users", err)
		return
	}

	data := reporting.BuildCalendar(requests, users, reporting.Window{Start: start, End: end}, opts)
	writeJSON(w, http.StatusOK, data)
}

// GetReport returns the usage report for a month or year. Managers and
// hr_admins only.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	if actorFrom(r).Role == leave.RoleEmployee {
		writeError(w, http.StatusForbidden, "Reports require manager or hr_admin role", nil)
		return
	}

	q := r.URL.Query()
	period := reporting.Period{Type: reporting.PeriodType(q.Get("period_type"))}

	var err error
	if period.Year, err = strconv.Atoi(q.Get("year")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	if v := q.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month", err)
			return
		}
		period.Month = time.Month(m)
	}

	start, end, err := period.Resolve()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	requests, err := h.Requests.RequestsOverlapping(r.Context(), start, end, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load requests", err)
		return
	}
	users, err := h.userIndex(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load users", err)
		return
	}

	report, err := reporting.BuildReport(requests, users, period)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetDashboard returns the acting user's personal stats.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)

	requests, err := h.Requests.RequestsByUser(r.Context(), actor.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load requests", err)
		return
	}

	account, err := h.Ledger.Balance(r.Context(), ledger.UserID(actor.ID), ledger.Scope(leave.PolicyVacation))
	if err != nil && !errors.Is(err, ledger.ErrAccountNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to load balance", err)
		return
	}

	writeJSON(w, http.StatusOK, reporting.BuildDashboard(requests, account))
}

func (h *Handler) userIndex(r *http.Request) (map[leave.UserID]leave.User, error) {
	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		return nil, err
	}
	index := make(map[leave.UserID]leave.User, len(users))
	for _, u := range users {
		index[u.ID] = u
	}
	return index, nil
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns configured holidays sorted by date.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Holidays.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}
	writeJSON(w, http.StatusOK, toHolidayDTOs(holidays))
}

// CreateHoliday adds a holiday and refreshes the business-day calendar.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := leave.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	holiday := leave.Holiday{
		ID:        uuid.NewString(),
		Date:      date,
		Name:      req.Name,
		Recurring: req.Recurring,
	}
	if err := h.Holidays.SaveHoliday(r.Context(), holiday); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	if err := h.Calendar.Reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload calendar", err)
		return
	}

	writeJSON(w, http.StatusCreated, HolidayDTO{
		ID: holiday.ID, Date: holiday.Date.String(), Name: holiday.Name, Recurring: holiday.Recurring,
	})
}

// DeleteHoliday removes a holiday and refreshes the calendar.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Holidays.DeleteHoliday(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	if err := h.Calendar.Reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload calendar", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ListUsers returns all users (hr_admin).
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateUser provisions a user record (hr_admin).
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Email == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "email and name are required", nil)
		return
	}

	role := leave.Role(req.Role)
	switch role {
	case leave.RoleEmployee, leave.RoleManager, leave.RoleHRAdmin:
	case "":
		role = leave.RoleEmployee
	default:
		writeError(w, http.StatusBadRequest, "Unknown role "+req.Role, nil)
		return
	}

	user := &leave.User{
		ID:         leave.UserID(req.ID),
		Email:      req.Email,
		Name:       req.Name,
		EmployeeID: req.EmployeeID,
		Department: req.Department,
		Position:   req.Position,
		Role:       role,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}
	if user.ID == "" {
		user.ID = leave.UserID(uuid.NewString())
	}
	if req.ManagerID != nil {
		id := leave.UserID(*req.ManagerID)
		if _, err := h.Users.UserByID(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		user.ManagerID = &id
	}

	if err := h.Users.SaveUser(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save user", err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(*user))
}

// OpenAccount provisions a balance account for a (user, scope) pair (hr_admin).
func (h *Handler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var req OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.UserID == "" || req.Scope == "" {
		writeError(w, http.StatusBadRequest, "user_id and scope are required", nil)
		return
	}
	if _, err := h.Users.UserByID(r.Context(), leave.UserID(req.UserID)); err != nil {
		writeDomainError(w, err)
		return
	}

	account := ledger.Account{
		UserID:      ledger.UserID(req.UserID),
		Scope:       ledger.Scope(req.Scope),
		AnnualDays:  decimal.NewFromFloat(req.AnnualDays),
		UsedDays:    decimal.Zero,
		AccrualRate: decimal.NewFromFloat(req.AccrualRate),
	}
	if err := h.Ledger.Open(r.Context(), account); err != nil {
		writeDomainError(w, err)
		return
	}

	opened, err := h.Ledger.Balance(r.Context(), account.UserID, account.Scope)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read account", err)
		return
	}
	writeJSON(w, http.StatusCreated, toBalanceDTO(opened))
}

// CreateAdjustment applies a manual balance correction (hr_admin). Positive
// delta grants days, negative consumes them; allow_negative permits driving
// the remaining balance below zero.
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "reason is required", nil)
		return
	}

	err := h.Ledger.Adjust(r.Context(),
		ledger.UserID(req.UserID), ledger.Scope(req.Scope),
		decimal.NewFromFloat(req.Delta), req.Reason, string(actorFrom(r).ID),
		ledger.AdjustmentOpts{AllowNegative: req.AllowNegative})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	account, err := h.Ledger.Balance(r.Context(), ledger.UserID(req.UserID), ledger.Scope(req.Scope))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read account", err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(account))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps a domain error to an HTTP status and error code.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := ""

	switch {
	case leave.IsNotFound(err):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, leave.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, leave.ErrOverlappingRequest):
		status, code = http.StatusConflict, "overlapping_request"
	case errors.Is(err, leave.ErrInvalidState):
		status, code = http.StatusConflict, "invalid_state"
	case errors.Is(err, leave.ErrInvalidRange):
		status, code = http.StatusBadRequest, "invalid_range"
	case errors.Is(err, leave.ErrInsufficientNotice):
		status, code = http.StatusUnprocessableEntity, "insufficient_notice"
	case errors.Is(err, leave.ErrExceedsMaxConsecutiveDays):
		status, code = http.StatusUnprocessableEntity, "exceeds_max_consecutive_days"
	case errors.Is(err, ledger.ErrInsufficientBalance):
		status, code = http.StatusUnprocessableEntity, "insufficient_balance"
	}

	resp := ErrorResponse{Error: err.Error(), Code: code}

	// Structured errors carry machine-readable context for the frontend.
	var notice *leave.NoticeError
	var overlap *leave.OverlapError
	var balance *ledger.InsufficientBalanceError
	switch {
	case errors.As(err, &notice):
		resp.Details = map[string]any{"required_days": notice.RequiredDays, "given_days": notice.GivenDays}
	case errors.As(err, &overlap):
		resp.Details = map[string]any{
			"existing_id": string(overlap.ExistingID),
			"start_date":  overlap.Start.String(),
			"end_date":    overlap.End.String(),
		}
	case errors.As(err, &balance):
		resp.Details = map[string]any{
			"available": balance.Available.InexactFloat64(),
			"requested": balance.Requested.InexactFloat64(),
		}
	}

	writeJSON(w, status, resp)
}
