/*
Package sqlite provides the SQLite-backed persistence adapter for the
roster.

PURPOSE:
  The store is the roster's persistence receiver: it subscribes to the
  staff manager's notifications and turns each one into durable writes.
  The core never calls the store directly for mutation; it only
  notifies. For reads the store exposes variant-aware loaders, the
  shift lookup, the holiday-request directory, the actor directory and
  the narrow event/note surface.

INTERFACES IMPLEMENTED:
  staff.Receiver:         persistence as an observer
  staff.RequestDirectory: overlap-veto scan + ineligible-request delete
  schedule.ShiftLookup:   assigned shift dates for conflict checks
  events.Surface:         event book and notes

ID ASSIGNMENT:
  Collaborators and requests carry id zero until their first insert.
  OnCollaboratorAdded and OnHolidayRequested write the generated row id
  back into the entity - that write-back is the persistence
  acknowledgment the lifecycle in staff/collaborator.go describes.

VARIANT RECONSTRUCTION:
  The collaborators table keeps holiday_days and work_hours nullable.
  Loading goes through staff.Reconstruct: complete info plus both
  nullable columns present means Permanent, anything less stays
  Occasional.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better
  concurrency: multiple readers don't block, single writer at a time,
  better crash recovery.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - staff/notify.go: the receiver contract
  - store/memory: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/convivio/roster-engine/events"
	"github.com/convivio/roster-engine/schedule"
	"github.com/convivio/roster-engine/staff"
)

// Store implements the roster storage boundaries using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Compile-time interface checks.
var (
	_ staff.Receiver         = (*Store)(nil)
	_ staff.RequestDirectory = (*Store)(nil)
	_ schedule.ShiftLookup   = (*Store)(nil)
	_ events.Surface         = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
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

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Users: identity + username; roles in a join table
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS user_roles (
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		PRIMARY KEY (user_id, role)
	);

	-- Collaborators: staff payload on top of users.
	-- holiday_days + work_hours are NULL for occasionals; both present
	-- (with complete info) means the row is a permanent.
	CREATE TABLE IF NOT EXISTS collaborators (
		user_id INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		contact TEXT,
		fiscal_id TEXT,
		address TEXT,
		availability INTEGER NOT NULL DEFAULT 1,
		holiday_days INTEGER,
		work_hours TEXT
	);

	CREATE TABLE IF NOT EXISTS holiday_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		approval INTEGER NOT NULL DEFAULT 0,
		approval_date TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_holiday_requests_user
		ON holiday_requests(user_id);
	CREATE INDEX IF NOT EXISTS idx_holiday_requests_pending
		ON holiday_requests(approval_date) WHERE approval_date IS NULL;

	-- Shifts are written by the scheduling subsystem; the roster only
	-- reads them for conflict checks.
	CREATE TABLE IF NOT EXISTS shifts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_user ON shifts(user_id, date);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		end_date TEXT NOT NULL
	);

	-- One note per event
	CREATE TABLE IF NOT EXISTS notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id INTEGER NOT NULL UNIQUE REFERENCES events(id) ON DELETE CASCADE,
		owner_id INTEGER NOT NULL REFERENCES users(id),
		note TEXT NOT NULL
	);

	-- Audit trail: one row per roster notification
	CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		at TEXT NOT NULL,
		action TEXT NOT NULL,
		entity_id INTEGER NOT NULL,
		payload TEXT
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECEIVER - Persistence as an observer
// =============================================================================

// OnCollaboratorAdded inserts the user, roles and collaborator rows and
// writes the generated id back into the entity.
func (s *Store) OnCollaboratorAdded(ctx context.Context, co *staff.Collaborator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `INSERT INTO users (username) VALUES (?)`, co.Username)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	co.ID = int(id)

	if err := s.saveRolesLocked(ctx, co.ID, co.Roles); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO collaborators (user_id, name, contact) VALUES (?, ?, ?)`,
		co.ID, co.Name, co.Contact)
	if err != nil {
		return fmt.Errorf("insert collaborator: %w", err)
	}

	return s.auditLocked(ctx, "collaborator_added", co.ID, map[string]any{"name": co.Name})
}

// OnCollaboratorRemoved cascades: holiday requests, collaborator row,
// roles, user row.
func (s *Store) OnCollaboratorRemoved(ctx context.Context, co *staff.Collaborator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	steps := []string{
		`DELETE FROM holiday_requests WHERE user_id = ?`,
		`DELETE FROM collaborators WHERE user_id = ?`,
		`DELETE FROM user_roles WHERE user_id = ?`,
		`DELETE FROM users WHERE id = ?`,
	}
	for _, query := range steps {
		if _, err := s.db.ExecContext(ctx, query, co.ID); err != nil {
			return fmt.Errorf("remove collaborator %d: %w", co.ID, err)
		}
	}

	return s.auditLocked(ctx, "collaborator_removed", co.ID, nil)
}

// OnCollaboratorModified rewrites the full collaborator row; the
// permanent payload columns stay NULL for occasionals.
func (s *Store) OnCollaboratorModified(ctx context.Context, co *staff.Collaborator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.updateCollaboratorLocked(ctx, co); err != nil {
		return err
	}
	return s.auditLocked(ctx, "collaborator_modified", co.ID, nil)
}

func (s *Store) OnOccasionalFilled(ctx context.Context, co *staff.Collaborator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE collaborators SET fiscal_id = ?, address = ? WHERE user_id = ?`,
		co.FiscalID, co.Address, co.ID)
	if err != nil {
		return fmt.Errorf("fill collaborator %d: %w", co.ID, err)
	}
	return s.auditLocked(ctx, "occasional_filled", co.ID, nil)
}

func (s *Store) OnOccasionalPromoted(ctx context.Context, co *staff.Collaborator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.updateCollaboratorLocked(ctx, co); err != nil {
		return err
	}
	return s.auditLocked(ctx, "occasional_promoted", co.ID, nil)
}

// OnHolidayRequested inserts the pending request and writes the
// generated id back into it.
func (s *Store) OnHolidayRequested(ctx context.Context, hr *staff.HolidayRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO holiday_requests (user_id, start_date, end_date) VALUES (?, ?, ?)`,
		hr.Owner.ID, hr.Period.Start.String(), hr.Period.End.String())
	if err != nil {
		return fmt.Errorf("insert holiday request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	hr.ID = int(id)

	return s.auditLocked(ctx, "holiday_requested", hr.ID, map[string]any{
		"owner":  hr.Owner.ID,
		"period": hr.Period.String(),
	})
}

// OnHolidayDecided writes the final request state and, for approvals,
// cascades a collaborator write to persist the decremented balance and
// availability.
func (s *Store) OnHolidayDecided(ctx context.Context, hr *staff.HolidayRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var decidedAt any
	if hr.DecidedAt != nil {
		decidedAt = hr.DecidedAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE holiday_requests SET approval = ?, approval_date = ? WHERE id = ?`,
		boolToInt(hr.Approved), decidedAt, hr.ID)
	if err != nil {
		return fmt.Errorf("update holiday request %d: %w", hr.ID, err)
	}

	if hr.Approved {
		if err := s.updateCollaboratorLocked(ctx, hr.Owner); err != nil {
			return err
		}
	}

	return s.auditLocked(ctx, "holiday_decided", hr.ID, map[string]any{
		"owner":    hr.Owner.ID,
		"approved": hr.Approved,
	})
}

func (s *Store) updateCollaboratorLocked(ctx context.Context, co *staff.Collaborator) error {
	var holidayDays, workHours any
	if co.Permanent != nil {
		holidayDays = co.Permanent.HolidayDays
		workHours = co.Permanent.WorkHours.String()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE collaborators
		 SET name = ?, contact = ?, fiscal_id = ?, address = ?, availability = ?, holiday_days = ?, work_hours = ?
		 WHERE user_id = ?`,
		co.Name, co.Contact, nullableString(co.FiscalID), nullableString(co.Address),
		boolToInt(co.Available), holidayDays, workHours, co.ID)
	if err != nil {
		return fmt.Errorf("update collaborator %d: %w", co.ID, err)
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE users SET username = ? WHERE id = ?`, co.Username, co.ID); err != nil {
		return fmt.Errorf("update user %d: %w", co.ID, err)
	}
	return s.saveRolesLocked(ctx, co.ID, co.Roles)
}

func (s *Store) saveRolesLocked(ctx context.Context, userID int, roles staff.RoleSet) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear roles for %d: %w", userID, err)
	}
	for _, r := range roles.List() {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES (?, ?)`, userID, string(r)); err != nil {
			return fmt.Errorf("save role %s for %d: %w", r, userID, err)
		}
	}
	return nil
}

func (s *Store) auditLocked(ctx context.Context, action string, entityID int, payload map[string]any) error {
	var payloadJSON any
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
		payloadJSON = string(b)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, at, action, entity_id, payload) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), time.Now().UTC().Format(time.RFC3339), action, entityID, payloadJSON)
	if err != nil {
		return fmt.Errorf("audit %s: %w", action, err)
	}
	return nil
}

// =============================================================================
// COLLABORATOR LOADERS
// =============================================================================

// CollaboratorByID loads a collaborator, rebuilding the correct variant
// from the stored fields.
func (s *Store) CollaboratorByID(ctx context.Context, id int) (*staff.Collaborator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadCollaboratorLocked(ctx, id)
}

func (s *Store) loadCollaboratorLocked(ctx context.Context, id int) (*staff.Collaborator, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT u.username, c.name, c.contact, c.fiscal_id, c.address, c.availability, c.holiday_days, c.work_hours
		 FROM collaborators c JOIN users u ON u.id = c.user_id
		 WHERE c.user_id = ?`, id)

	var (
		username, name             string
		contact, fiscalID, address sql.NullString
		availability               int
		holidayDays                sql.NullInt64
		workHours                  sql.NullString
	)
	if err := row.Scan(&username, &name, &contact, &fiscalID, &address, &availability, &holidayDays, &workHours); err != nil {
		if err == sql.ErrNoRows {
			return nil, &staff.NotFoundError{Entity: "collaborator", ID: id}
		}
		return nil, fmt.Errorf("load collaborator %d: %w", id, err)
	}

	roles, err := s.loadRolesLocked(ctx, id)
	if err != nil {
		return nil, err
	}

	var days *int
	if holidayDays.Valid {
		d := int(holidayDays.Int64)
		days = &d
	}
	var hours *decimal.Decimal
	if workHours.Valid {
		h, err := decimal.NewFromString(workHours.String)
		if err != nil {
			return nil, fmt.Errorf("load collaborator %d: bad work_hours %q: %w", id, workHours.String, err)
		}
		hours = &h
	}

	return staff.Reconstruct(id, username, name, contact.String, fiscalID.String, address.String,
		availability != 0, roles, days, hours), nil
}

// Collaborators lists all collaborators ordered by id.
func (s *Store) Collaborators(ctx context.Context) ([]*staff.Collaborator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM collaborators ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*staff.Collaborator, 0, len(ids))
	for _, id := range ids {
		co, err := s.loadCollaboratorLocked(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, co)
	}
	return out, nil
}

func (s *Store) loadRolesLocked(ctx context.Context, userID int) (staff.RoleSet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT role FROM user_roles WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("load roles for %d: %w", userID, err)
	}
	defer rows.Close()

	roles := staff.NewRoleSet()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		r, err := staff.ParseRole(raw)
		if err != nil {
			return nil, fmt.Errorf("load roles for %d: %w", userID, err)
		}
		roles.Add(r)
	}
	return roles, rows.Err()
}

// =============================================================================
// ACTOR DIRECTORY
// =============================================================================

// ActorByUsername loads the actor backing a login. Used by the token
// endpoint, not by the core.
func (s *Store) ActorByUsername(ctx context.Context, username string) (staff.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id int
	err := s.db.QueryRowContext(ctx, `SELECT id FROM users WHERE username = ?`, username).Scan(&id)
	if err == sql.ErrNoRows {
		return staff.Actor{}, fmt.Errorf("actor %q: %w", username, staff.ErrNotFound)
	}
	if err != nil {
		return staff.Actor{}, fmt.Errorf("load actor %q: %w", username, err)
	}

	roles, err := s.loadRolesLocked(ctx, id)
	if err != nil {
		return staff.Actor{}, err
	}
	return staff.Actor{ID: id, Username: username, Roles: roles}, nil
}

// SaveActor inserts a non-collaborator user (organizer, owner). Seeding
// and tests only.
func (s *Store) SaveActor(ctx context.Context, username string, roles staff.RoleSet) (staff.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `INSERT INTO users (username) VALUES (?)`, username)
	if err != nil {
		return staff.Actor{}, fmt.Errorf("insert user %q: %w", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return staff.Actor{}, err
	}
	if err := s.saveRolesLocked(ctx, int(id), roles); err != nil {
		return staff.Actor{}, err
	}
	return staff.Actor{ID: int(id), Username: username, Roles: roles.Clone()}, nil
}

// =============================================================================
// HOLIDAY REQUEST DIRECTORY
// =============================================================================

// HolidayRequestByID loads one request with its owner.
func (s *Store) HolidayRequestByID(ctx context.Context, id int) (*staff.HolidayRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests, err := s.queryRequestsLocked(ctx,
		`SELECT id, user_id, start_date, end_date, approval, approval_date
		 FROM holiday_requests WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, &staff.NotFoundError{Entity: "holiday request", ID: id}
	}
	return requests[0], nil
}

// RequestsByOwner returns every request of one owner; the approval
// algorithm scans these for the overlap veto.
func (s *Store) RequestsByOwner(ctx context.Context, ownerID int) ([]*staff.HolidayRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRequestsLocked(ctx,
		`SELECT id, user_id, start_date, end_date, approval, approval_date
		 FROM holiday_requests WHERE user_id = ? ORDER BY id`, ownerID)
}

// PendingRequests returns requests with no recorded decision, the
// owner's approval queue.
func (s *Store) PendingRequests(ctx context.Context) ([]*staff.HolidayRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRequestsLocked(ctx,
		`SELECT id, user_id, start_date, end_date, approval, approval_date
		 FROM holiday_requests WHERE approval_date IS NULL ORDER BY id`)
}

// RemoveRequest deletes a request row. The manager calls this when it
// detects an ineligible request.
func (s *Store) RemoveRequest(ctx context.Context, requestID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM holiday_requests WHERE id = ?`, requestID)
	if err != nil {
		return fmt.Errorf("remove holiday request %d: %w", requestID, err)
	}
	return nil
}

func (s *Store) queryRequestsLocked(ctx context.Context, query string, args ...any) ([]*staff.HolidayRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query holiday requests: %w", err)
	}
	defer rows.Close()

	type record struct {
		id, ownerID      int
		startRaw, endRaw string
		approval         int
		approvalDate     sql.NullString
	}
	var records []record
	for rows.Next() {
		var rec record
		if err := rows.Scan(&rec.id, &rec.ownerID, &rec.startRaw, &rec.endRaw, &rec.approval, &rec.approvalDate); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*staff.HolidayRequest, 0, len(records))
	for _, rec := range records {
		owner, err := s.loadCollaboratorLocked(ctx, rec.ownerID)
		if err != nil {
			return nil, err
		}
		start, err := schedule.ParseDate(rec.startRaw)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", rec.id, err)
		}
		end, err := schedule.ParseDate(rec.endRaw)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", rec.id, err)
		}

		hr := &staff.HolidayRequest{
			ID:       rec.id,
			Owner:    owner,
			Period:   schedule.NewRange(start, end),
			Approved: rec.approval != 0,
		}
		if rec.approvalDate.Valid {
			at, err := time.Parse(time.RFC3339, rec.approvalDate.String)
			if err != nil {
				return nil, fmt.Errorf("request %d: bad approval date: %w", rec.id, err)
			}
			hr.DecidedAt = &at
		}
		out = append(out, hr)
	}
	return out, nil
}

// =============================================================================
// SHIFT LOOKUP
// =============================================================================

// ShiftsFor returns the shift dates assigned to a collaborator, ordered
// ascending.
func (s *Store) ShiftsFor(ctx context.Context, collaboratorID int) ([]schedule.Date, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT date FROM shifts WHERE user_id = ? ORDER BY date`, collaboratorID)
	if err != nil {
		return nil, fmt.Errorf("load shifts for %d: %w", collaboratorID, err)
	}
	defer rows.Close()

	var dates []schedule.Date
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		d, err := schedule.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("shift for %d: %w", collaboratorID, err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// AssignShift records a shift date. Seeding and tests; shift writes
// normally come from the scheduling subsystem.
func (s *Store) AssignShift(ctx context.Context, collaboratorID int, d schedule.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shifts (user_id, date) VALUES (?, ?)`, collaboratorID, d.String())
	if err != nil {
		return fmt.Errorf("assign shift: %w", err)
	}
	return nil
}

// =============================================================================
// AVAILABILITY RESTORE - Backing queries for the scheduler
// =============================================================================

// LeaveEndedCollaborators returns ids of unavailable permanents whose
// approved leaves have all ended before the given day.
func (s *Store) LeaveEndedCollaborators(ctx context.Context, today schedule.Date) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.user_id
		 FROM collaborators c
		 WHERE c.availability = 0 AND c.holiday_days IS NOT NULL
		   AND NOT EXISTS (
		     SELECT 1 FROM holiday_requests hr
		     WHERE hr.user_id = c.user_id AND hr.approval = 1 AND hr.end_date >= ?
		   )`, today.String())
	if err != nil {
		return nil, fmt.Errorf("leave-ended collaborators: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetAvailability flips a collaborator's availability flag.
func (s *Store) SetAvailability(ctx context.Context, collaboratorID int, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE collaborators SET availability = ? WHERE user_id = ?`,
		boolToInt(available), collaboratorID)
	if err != nil {
		return fmt.Errorf("set availability for %d: %w", collaboratorID, err)
	}
	return nil
}

// =============================================================================
// EVENT SURFACE
// =============================================================================

// SaveEvent inserts an event. Seeding and tests; event writes normally
// come from the event subsystem.
func (s *Store) SaveEvent(ctx context.Context, ev events.Event) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO events (name, end_date) VALUES (?, ?)`, ev.Name, ev.EndsOn.String())
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func (s *Store) HasEnded(ctx context.Context, eventID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var endRaw string
	err := s.db.QueryRowContext(ctx, `SELECT end_date FROM events WHERE id = ?`, eventID).Scan(&endRaw)
	if err == sql.ErrNoRows {
		return false, &staff.NotFoundError{Entity: "event", ID: eventID}
	}
	if err != nil {
		return false, fmt.Errorf("load event %d: %w", eventID, err)
	}
	end, err := schedule.ParseDate(endRaw)
	if err != nil {
		return false, fmt.Errorf("event %d: %w", eventID, err)
	}
	return end.Before(schedule.Today()), nil
}

func (s *Store) NoteFor(ctx context.Context, eventID int) (*events.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := &events.Note{EventID: eventID}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, note FROM notes WHERE event_id = ?`, eventID).
		Scan(&n.ID, &n.AuthorID, &n.Body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load note for event %d: %w", eventID, err)
	}
	return n, nil
}

func (s *Store) EventBook(ctx context.Context) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, end_date FROM events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("event book: %w", err)
	}
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		var (
			ev     events.Event
			endRaw string
		)
		if err := rows.Scan(&ev.ID, &ev.Name, &endRaw); err != nil {
			return nil, err
		}
		ev.EndsOn, err = schedule.ParseDate(endRaw)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", ev.ID, err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *Store) AddNote(ctx context.Context, n *events.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (event_id, owner_id, note) VALUES (?, ?, ?)`,
		n.EventID, n.AuthorID, n.Body)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = int(id)
	return nil
}

func (s *Store) UpdateNote(ctx context.Context, n *events.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `UPDATE notes SET note = ? WHERE id = ?`, n.Body, n.ID)
	if err != nil {
		return fmt.Errorf("update note %d: %w", n.ID, err)
	}
	return nil
}

func (s *Store) RemoveNote(ctx context.Context, noteID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, noteID)
	if err != nil {
		return fmt.Errorf("delete note %d: %w", noteID, err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
