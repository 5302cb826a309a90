/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements every persistence contract of the leave core (leave.UserStore,
  PolicyStore, RequestStore, HolidayStore and ledger.Store) on SQLite. In
  production the same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

KEY TABLES:
  users           Employee records with the manager back-reference
  policies        Leave policy definitions
  requests        Time-off requests with computed day counts
  accounts        Per-(user, scope) balance rows
  ledger_entries  Append-only debit/credit/adjustment log
  holidays        Configured non-working days

LEDGER ATOMICITY:
  Apply() writes the mutated account row and its ledger entry inside one SQL
  transaction, so an approval's debit is never observable without its entry
  (and vice versa). Entries are append-only: no UPDATE or DELETE touches
  ledger_entries.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): readers don't block, a
  single writer at a time, better crash recovery. A sync.RWMutex guards the
  connection the same way the rest of the system expects stores to be
  internally synchronized.

DATE ENCODING:
  Calendar dates are TEXT in ISO form (YYYY-MM-DD), so lexicographic
  comparison in SQL matches chronological order. Timestamps are RFC3339.
  Day quantities are TEXT-encoded decimals to keep halves exact.

USAGE:
  store, err := sqlite.New("./data/vacation.db")
  if err != nil { ... }
  defer store.Close()

SEE ALSO:
  - leave/store.go, ledger/types.go: Interface definitions
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/andesmind/vacation-engine/leave"
	"github.com/andesmind/vacation-engine/ledger"
)

const timeFmt = time.RFC3339

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Interface checks
var (
	_ leave.RequestStore = (*Store)(nil)
	_ leave.UserStore    = (*Store)(nil)
	_ leave.PolicyStore  = (*Store)(nil)
	_ leave.HolidayStore = (*Store)(nil)
	_ ledger.Store       = (*Store)(nil)
)

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		name TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		department TEXT,
		position TEXT,
		role TEXT NOT NULL,
		manager_id TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_users_manager ON users(manager_id);

	CREATE TABLE IF NOT EXISTS policies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		policy_type TEXT NOT NULL,
		days_allocated TEXT NOT NULL,
		requires_approval BOOLEAN NOT NULL,
		advance_notice_days INTEGER NOT NULL DEFAULT 0,
		max_consecutive_days TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		policy_id TEXT NOT NULL,
		policy_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		business_days TEXT NOT NULL,
		calendar_days INTEGER NOT NULL,
		half_day BOOLEAN NOT NULL DEFAULT FALSE,
		reason TEXT,
		notes TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		approver_id TEXT,
		decision_note TEXT,
		decided_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_user ON requests(user_id);
	CREATE INDEX IF NOT EXISTS idx_requests_status ON requests(status);
	-- Hot path: overlap checks and calendar windows scan by date range
	CREATE INDEX IF NOT EXISTS idx_requests_dates ON requests(start_date, end_date);

	CREATE TABLE IF NOT EXISTS accounts (
		user_id TEXT NOT NULL,
		scope TEXT NOT NULL,
		annual_days TEXT NOT NULL,
		used_days TEXT NOT NULL,
		accrual_rate TEXT NOT NULL DEFAULT '0',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, scope)
	);

	-- Append-only: corrections are opposite entries, never edits
	CREATE TABLE IF NOT EXISTS ledger_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		scope TEXT NOT NULL,
		kind TEXT NOT NULL,
		days TEXT NOT NULL,
		cause_id TEXT,
		reason TEXT,
		recorded_by TEXT,
		recorded_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_account ON ledger_entries(user_id, scope);
	CREATE INDEX IF NOT EXISTS idx_entries_cause ON ledger_entries(cause_id)
		WHERE cause_id IS NOT NULL;

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique ON holidays(date, name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// USERS
// =============================================================================

func (s *Store) UserByID(ctx context.Context, id leave.UserID) (*leave.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, employee_id, department, position, role, manager_id, active, created_at
		FROM users WHERE id = ?`, string(id))

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", id, leave.ErrNotFound)
	}
	return u, err
}

func (s *Store) SaveUser(ctx context.Context, u *leave.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var managerID sql.NullString
	if u.ManagerID != nil {
		managerID = sql.NullString{String: string(*u.ManagerID), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO users
			(id, email, name, employee_id, department, position, role, manager_id, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(u.ID), u.Email, u.Name, u.EmployeeID, u.Department, u.Position,
		string(u.Role), managerID, u.Active, u.CreatedAt.UTC().Format(timeFmt))
	return err
}

func (s *Store) ListUsers(ctx context.Context) ([]leave.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, name, employee_id, department, position, role, manager_id, active, created_at
		FROM users ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []leave.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*leave.User, error) {
	var u leave.User
	var department, position, managerID sql.NullString
	var createdAt string

	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.EmployeeID, &department, &position,
		&u.Role, &managerID, &u.Active, &createdAt)
	if err != nil {
		return nil, err
	}

	u.Department = department.String
	u.Position = position.String
	if managerID.Valid {
		id := leave.UserID(managerID.String)
		u.ManagerID = &id
	}
	u.CreatedAt, _ = time.Parse(timeFmt, createdAt)
	return &u, nil
}

// =============================================================================
// POLICIES
// =============================================================================

func (s *Store) PolicyByID(ctx context.Context, id leave.PolicyID) (*leave.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, policy_type, days_allocated, requires_approval,
		       advance_notice_days, max_consecutive_days, active, created_at
		FROM policies WHERE id = ?`, string(id))

	p, err := scanPolicy(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("policy %s: %w", id, leave.ErrPolicyNotFound)
	}
	return p, err
}

func (s *Store) SavePolicy(ctx context.Context, p *leave.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxConsecutive sql.NullString
	if p.MaxConsecutiveDays != nil {
		maxConsecutive = sql.NullString{String: p.MaxConsecutiveDays.String(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO policies
			(id, name, policy_type, days_allocated, requires_approval,
			 advance_notice_days, max_consecutive_days, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.ID), p.Name, string(p.Type), p.DaysAllocated.String(),
		p.RequiresApproval, p.AdvanceNoticeDays, maxConsecutive, p.Active,
		p.CreatedAt.UTC().Format(timeFmt))
	return err
}

func (s *Store) ListPolicies(ctx context.Context) ([]leave.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, policy_type, days_allocated, requires_approval,
		       advance_notice_days, max_consecutive_days, active, created_at
		FROM policies ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []leave.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, *p)
	}
	return policies, rows.Err()
}

func scanPolicy(row rowScanner) (*leave.Policy, error) {
	var p leave.Policy
	var daysAllocated, createdAt string
	var maxConsecutive sql.NullString

	err := row.Scan(&p.ID, &p.Name, &p.Type, &daysAllocated, &p.RequiresApproval,
		&p.AdvanceNoticeDays, &maxConsecutive, &p.Active, &createdAt)
	if err != nil {
		return nil, err
	}

	p.DaysAllocated, err = decimal.NewFromString(daysAllocated)
	if err != nil {
		return nil, fmt.Errorf("policy %s: bad days_allocated: %w", p.ID, err)
	}
	if maxConsecutive.Valid {
		d, err := decimal.NewFromString(maxConsecutive.String)
		if err != nil {
			return nil, fmt.Errorf("policy %s: bad max_consecutive_days: %w", p.ID, err)
		}
		p.MaxConsecutiveDays = &d
	}
	p.CreatedAt, _ = time.Parse(timeFmt, createdAt)
	return &p, nil
}

// =============================================================================
// REQUESTS
// =============================================================================

const requestColumns = `id, user_id, policy_id, policy_type, start_date, end_date,
	business_days, calendar_days, half_day, reason, notes, status,
	approver_id, decision_note, decided_at, created_at, updated_at`

func (s *Store) SaveRequest(ctx context.Context, r *leave.TimeOffRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var approverID, decidedAt sql.NullString
	if r.ApproverID != nil {
		approverID = sql.NullString{String: string(*r.ApproverID), Valid: true}
	}
	if r.DecidedAt != nil {
		decidedAt = sql.NullString{String: r.DecidedAt.UTC().Format(timeFmt), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO requests (`+requestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(r.ID), string(r.UserID), string(r.PolicyID), string(r.PolicyType),
		r.StartDate.String(), r.EndDate.String(),
		r.BusinessDays.String(), r.CalendarDays, r.HalfDay, r.Reason, r.Notes,
		string(r.Status), approverID, r.DecisionNote, decidedAt,
		r.CreatedAt.UTC().Format(timeFmt), r.UpdatedAt.UTC().Format(timeFmt))
	return err
}

func (s *Store) RequestByID(ctx context.Context, id leave.RequestID) (*leave.TimeOffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE id = ?`, string(id))

	r, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request %s: %w", id, leave.ErrNotFound)
	}
	return r, err
}

func (s *Store) RequestsByUser(ctx context.Context, userID leave.UserID) ([]leave.TimeOffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE user_id = ? ORDER BY created_at`,
		string(userID))
}

func (s *Store) RequestsOverlapping(ctx context.Context, start, end leave.Date, statuses []leave.RequestStatus) ([]leave.TimeOffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// ISO dates compare lexicographically, so range logic works directly on
	// the TEXT columns.
	query := `SELECT ` + requestColumns + ` FROM requests
		WHERE end_date >= ? AND start_date <= ?`
	args := []any{start.String(), end.String()}

	if len(statuses) > 0 {
		placeholders := strings.Repeat("?,", len(statuses))
		query += ` AND status IN (` + placeholders[:len(placeholders)-1] + `)`
		for _, st := range statuses {
			args = append(args, string(st))
		}
	}
	query += ` ORDER BY created_at`

	return s.queryRequests(ctx, query, args...)
}

func (s *Store) ListRequests(ctx context.Context, filter leave.RequestFilter) ([]leave.TimeOffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + requestColumns + ` FROM requests WHERE 1=1`
	var args []any

	if filter.UserID != nil {
		query += ` AND user_id = ?`
		args = append(args, string(*filter.UserID))
	}
	if filter.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*filter.Status))
	}
	if filter.PolicyType != nil {
		query += ` AND policy_type = ?`
		args = append(args, string(*filter.PolicyType))
	}
	if filter.DateFrom != nil {
		query += ` AND end_date >= ?`
		args = append(args, filter.DateFrom.String())
	}
	if filter.DateTo != nil {
		query += ` AND start_date <= ?`
		args = append(args, filter.DateTo.String())
	}
	query += ` ORDER BY created_at DESC`

	return s.queryRequests(ctx, query, args...)
}

func (s *Store) queryRequests(ctx context.Context, query string, args ...any) ([]leave.TimeOffRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.TimeOffRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}

func scanRequest(row rowScanner) (*leave.TimeOffRequest, error) {
	var r leave.TimeOffRequest
	var startDate, endDate, businessDays, createdAt, updatedAt string
	var reason, notes, decisionNote, approverID, decidedAt sql.NullString

	err := row.Scan(&r.ID, &r.UserID, &r.PolicyID, &r.PolicyType, &startDate, &endDate,
		&businessDays, &r.CalendarDays, &r.HalfDay, &reason, &notes, &r.Status,
		&approverID, &decisionNote, &decidedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if r.StartDate, err = leave.ParseDate(startDate); err != nil {
		return nil, err
	}
	if r.EndDate, err = leave.ParseDate(endDate); err != nil {
		return nil, err
	}
	if r.BusinessDays, err = decimal.NewFromString(businessDays); err != nil {
		return nil, fmt.Errorf("request %s: bad business_days: %w", r.ID, err)
	}

	r.Reason = reason.String
	r.Notes = notes.String
	r.DecisionNote = decisionNote.String
	if approverID.Valid {
		id := leave.UserID(approverID.String)
		r.ApproverID = &id
	}
	if decidedAt.Valid {
		if t, err := time.Parse(timeFmt, decidedAt.String); err == nil {
			r.DecidedAt = &t
		}
	}
	r.CreatedAt, _ = time.Parse(timeFmt, createdAt)
	r.UpdatedAt, _ = time.Parse(timeFmt, updatedAt)
	return &r, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) SaveHoliday(ctx context.Context, h leave.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO holidays (id, date, name, recurring)
		VALUES (?, ?, ?, ?)`,
		h.ID, h.Date.String(), h.Name, h.Recurring)
	return err
}

func (s *Store) ListHolidays(ctx context.Context) ([]leave.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, name, recurring FROM holidays ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []leave.Holiday
	for rows.Next() {
		var h leave.Holiday
		var date string
		if err := rows.Scan(&h.ID, &date, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		if h.Date, err = leave.ParseDate(date); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	return err
}

// =============================================================================
// LEDGER
// =============================================================================

func (s *Store) Account(ctx context.Context, userID ledger.UserID, scope ledger.Scope) (ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, scope, annual_days, used_days, accrual_rate, updated_at
		FROM accounts WHERE user_id = ? AND scope = ?`,
		string(userID), string(scope))

	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return ledger.Account{}, fmt.Errorf("account %s/%s: %w", userID, scope, ledger.ErrAccountNotFound)
	}
	return a, err
}

func (s *Store) SaveAccount(ctx context.Context, account ledger.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, upsertAccountSQL, accountArgs(account)...)
	return err
}

// Apply writes the mutated account row and its ledger entry in one SQL
// transaction: either both commit or neither does.
func (s *Store) Apply(ctx context.Context, account ledger.Account, entry ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsertAccountSQL, accountArgs(account)...); err != nil {
		return err
	}

	var causeID sql.NullString
	if entry.CauseID != "" {
		causeID = sql.NullString{String: entry.CauseID, Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, user_id, scope, kind, days, cause_id, reason, recorded_by, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, string(entry.UserID), string(entry.Scope), string(entry.Kind),
		entry.Days.String(), causeID, entry.Reason, entry.RecordedBy,
		entry.RecordedAt.UTC().Format(timeFmt))
	if err != nil {
		return err
	}

	return tx.Commit()
}

const upsertAccountSQL = `
	INSERT OR REPLACE INTO accounts (user_id, scope, annual_days, used_days, accrual_rate, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)`

func accountArgs(a ledger.Account) []any {
	return []any{
		string(a.UserID), string(a.Scope),
		a.AnnualDays.String(), a.UsedDays.String(), a.AccrualRate.String(),
		a.UpdatedAt.UTC().Format(timeFmt),
	}
}

func (s *Store) EntriesByCause(ctx context.Context, causeID string) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryEntries(ctx, `
		SELECT id, user_id, scope, kind, days, cause_id, reason, recorded_by, recorded_at
		FROM ledger_entries WHERE cause_id = ? ORDER BY recorded_at`, causeID)
}

func (s *Store) EntriesByAccount(ctx context.Context, userID ledger.UserID, scope ledger.Scope) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryEntries(ctx, `
		SELECT id, user_id, scope, kind, days, cause_id, reason, recorded_by, recorded_at
		FROM ledger_entries WHERE user_id = ? AND scope = ? ORDER BY recorded_at`,
		string(userID), string(scope))
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]ledger.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		var e ledger.Entry
		var days, recordedAt string
		var causeID, reason, recordedBy sql.NullString

		if err := rows.Scan(&e.ID, &e.UserID, &e.Scope, &e.Kind, &days,
			&causeID, &reason, &recordedBy, &recordedAt); err != nil {
			return nil, err
		}
		if e.Days, err = decimal.NewFromString(days); err != nil {
			return nil, fmt.Errorf("entry %s: bad days: %w", e.ID, err)
		}
		e.CauseID = causeID.String
		e.Reason = reason.String
		e.RecordedBy = recordedBy.String
		e.RecordedAt, _ = time.Parse(timeFmt, recordedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanAccount(row rowScanner) (ledger.Account, error) {
	var a ledger.Account
	var annual, used, rate, updatedAt string

	err := row.Scan(&a.UserID, &a.Scope, &annual, &used, &rate, &updatedAt)
	if err != nil {
		return ledger.Account{}, err
	}

	if a.AnnualDays, err = decimal.NewFromString(annual); err != nil {
		return ledger.Account{}, fmt.Errorf("account %s/%s: bad annual_days: %w", a.UserID, a.Scope, err)
	}
	if a.UsedDays, err = decimal.NewFromString(used); err != nil {
		return ledger.Account{}, fmt.Errorf("account %s/%s: bad used_days: %w", a.UserID, a.Scope, err)
	}
	if a.AccrualRate, err = decimal.NewFromString(rate); err != nil {
		return ledger.Account{}, fmt.Errorf("account %s/%s: bad accrual_rate: %w", a.UserID, a.Scope, err)
	}
	a.UpdatedAt, _ = time.Parse(timeFmt, updatedAt)
	return a, nil
}
