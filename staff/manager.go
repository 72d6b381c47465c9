/*
manager.go - Roster use cases, authorization and business rules

PURPOSE:
  The Manager exposes every collaborator and holiday-request use case.
  Each mutating operation:

  1. Resolves the acting actor and checks the required role.
     A failed check fails with an authorization error: no mutation,
     no notification.
  2. Evaluates the business rules against the entity.
  3. Mutates the entity in memory.
  4. Fans the final entity out to every registered receiver.
  5. Returns the entity to the caller.

APPROVAL ALGORITHM (DecideHolidayRequest):
  Occasional owners are rejected outright (and the request deleted)
  before any decision is recorded. Otherwise the decision and its
  timestamp are recorded unconditionally, then approvals are re-validated
  against three vetoes in fixed order:

    balance -> shift -> overlap

  The first veto to trigger downgrades the decision to denial and
  short-circuits the rest; the decision timestamp is retained so the
  request reads as "decided, denied". A surviving approval consumes the
  owner's balance and marks them unavailable.

CONCURRENCY:
  The manager holds no lock and no scratch entity state; every use case
  passes the working entity through parameters and returns. Callers
  serialize use cases (one at a time per manager instance).

SEE ALSO:
  - notify.go: the receiver fan-out invoked in step 4
  - holiday.go: request state transitions
*/
package staff

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/convivio/roster-engine/events"
	"github.com/convivio/roster-engine/schedule"
)

// RequestDirectory is the read/delete surface over persisted holiday
// requests the approval algorithm needs: the overlap veto scans the
// owner's other requests, and ineligible requests are deleted on
// detection.
type RequestDirectory interface {
	RequestsByOwner(ctx context.Context, ownerID int) ([]*HolidayRequest, error)
	RemoveRequest(ctx context.Context, requestID int) error
}

// Manager orchestrates the roster use cases.
type Manager struct {
	actors   ActorProvider
	shifts   schedule.ShiftLookup
	requests RequestDirectory
	events   events.Surface

	receivers []Receiver
	log       zerolog.Logger
	now       func() time.Time
}

// NewManager wires a manager with its collaborating boundaries.
// Receivers are registered separately with AddReceiver.
func NewManager(actors ActorProvider, shifts schedule.ShiftLookup, requests RequestDirectory, ev events.Surface, log zerolog.Logger) *Manager {
	return &Manager{
		actors:   actors,
		shifts:   shifts,
		requests: requests,
		events:   ev,
		log:      log.With().Str("component", "staff-manager").Logger(),
		now:      time.Now,
	}
}

// requireRole resolves the acting actor and checks it holds at least one
// of the given roles.
func (m *Manager) requireRole(ctx context.Context, operation string, roles ...Role) (Actor, error) {
	actor, err := m.actors.Current(ctx)
	if err != nil {
		return Actor{}, fmt.Errorf("%s: %w", operation, err)
	}
	for _, r := range roles {
		if actor.Roles.Has(r) {
			return actor, nil
		}
	}
	return Actor{}, &AuthorizationError{Actor: actor.Username, Operation: operation}
}

// =============================================================================
// COLLABORATOR USE CASES
// =============================================================================

// AddCollaborator creates a new Occasional collaborator. Organizer or
// Owner role required. The Owner role is stripped if present in the
// requested role set: the staff-creation path can never mint a second
// business owner.
func (m *Manager) AddCollaborator(ctx context.Context, name, contact string, roles RoleSet) (*Collaborator, error) {
	_, err := m.requireRole(ctx, "add collaborator", RoleOrganizer, RoleOwner)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}

	co := NewOccasional(name, contact, roles)
	if co.Roles.Has(RoleOwner) {
		co.Roles.Remove(RoleOwner)
	}

	m.log.Debug().Str("name", name).Msg("collaborator added")
	if err := m.notifyCollaboratorAdded(ctx, co); err != nil {
		return co, err
	}
	return co, nil
}

// RemoveCollaborator deletes a collaborator. Organizer or Owner role
// required. Fails if the target is the business owner, the acting actor,
// or currently assigned to a shift; on failure nothing mutates.
func (m *Manager) RemoveCollaborator(ctx context.Context, co *Collaborator) error {
	actor, err := m.requireRole(ctx, "remove collaborator", RoleOrganizer, RoleOwner)
	if err != nil {
		return err
	}
	if co.IsOwner() || co.ID == actor.ID {
		return &InvalidStateError{Operation: "remove collaborator", Reason: "cannot delete the owner or yourself"}
	}
	assigned, err := m.shifts.ShiftsFor(ctx, co.ID)
	if err != nil {
		return fmt.Errorf("remove collaborator: shift lookup: %w", err)
	}
	if len(assigned) > 0 {
		return &InvalidStateError{Operation: "remove collaborator", Reason: "collaborator is assigned to a shift"}
	}

	m.log.Debug().Int("id", co.ID).Msg("collaborator removed")
	return m.notifyCollaboratorRemoved(ctx, co)
}

// CollaboratorUpdate is a partial update: nil fields are left unchanged.
type CollaboratorUpdate struct {
	Name        *string
	Contact     *string
	FiscalID    *string
	Address     *string
	Roles       RoleSet
	HolidayDays *int
	WorkHours   *decimal.Decimal
}

// ModifyCollaborator applies a partial update. Organizer or Owner role
// required. A new name re-derives the username; the Owner role is
// stripped from Occasionals; fiscal id and address only apply when the
// info is already complete (filling is FillOccasional's job); leave days
// and work hours only apply to Permanents.
func (m *Manager) ModifyCollaborator(ctx context.Context, co *Collaborator, upd CollaboratorUpdate) (*Collaborator, error) {
	_, err := m.requireRole(ctx, "modify collaborator", RoleOrganizer, RoleOwner)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		co.Name = *upd.Name
		co.Username = DeriveUsername(*upd.Name)
	}
	if upd.Contact != nil {
		co.Contact = *upd.Contact
	}
	if upd.Roles != nil {
		co.Roles = upd.Roles.Clone()
	}
	if co.IsOccasional() && co.Roles.Has(RoleOwner) {
		co.Roles.Remove(RoleOwner)
	}

	if co.IsInfoComplete() {
		if upd.FiscalID != nil {
			co.FiscalID = *upd.FiscalID
		}
		if upd.Address != nil {
			co.Address = *upd.Address
		}
	}

	if co.IsPermanent() {
		if upd.HolidayDays != nil {
			co.Permanent.HolidayDays = *upd.HolidayDays
		}
		if upd.WorkHours != nil {
			co.Permanent.WorkHours = *upd.WorkHours
		}
	}

	m.log.Debug().Int("id", co.ID).Msg("collaborator modified")
	if err := m.notifyCollaboratorModified(ctx, co); err != nil {
		return co, err
	}
	return co, nil
}

// FillOccasional completes an Occasional's personal info. Organizer or
// Owner role required. Fails if the collaborator is not Occasional, the
// info is already complete, or either argument is missing.
func (m *Manager) FillOccasional(ctx context.Context, co *Collaborator, fiscalID, address string) (*Collaborator, error) {
	_, err := m.requireRole(ctx, "fill occasional", RoleOrganizer, RoleOwner)
	if err != nil {
		return nil, err
	}
	if !co.IsOccasional() || co.IsInfoComplete() {
		return nil, &InvalidStateError{Operation: "fill occasional", Reason: "info already completed"}
	}
	if fiscalID == "" {
		return nil, &ValidationError{Field: "fiscal id", Reason: "required"}
	}
	if address == "" {
		return nil, &ValidationError{Field: "address", Reason: "required"}
	}

	co.FiscalID = fiscalID
	co.Address = address

	m.log.Debug().Int("id", co.ID).Msg("occasional info filled")
	if err := m.notifyOccasionalFilled(ctx, co); err != nil {
		return co, err
	}
	return co, nil
}

// PromoteOccasional replaces an Occasional's identity with a new
// Permanent carrying the same id. Owner role only. The promotion happens
// exactly once; there is no demotion path.
func (m *Manager) PromoteOccasional(ctx context.Context, co *Collaborator) (*Collaborator, error) {
	_, err := m.requireRole(ctx, "promote occasional", RoleOwner)
	if err != nil {
		return nil, err
	}
	if !co.IsOccasional() {
		return nil, &InvalidStateError{Operation: "promote occasional", Reason: "collaborator is already permanent"}
	}

	promoted := Promote(co)

	m.log.Debug().Int("id", promoted.ID).Msg("occasional promoted")
	if err := m.notifyOccasionalPromoted(ctx, promoted); err != nil {
		return promoted, err
	}
	return promoted, nil
}

// =============================================================================
// HOLIDAY USE CASES
// =============================================================================

// RequestHoliday files a pending holiday request for a Permanent
// collaborator. The request owner themselves, an Organizer or the Owner
// may file it.
func (m *Manager) RequestHoliday(ctx context.Context, co *Collaborator, period schedule.Range) (*HolidayRequest, error) {
	actor, err := m.actors.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("request holiday: %w", err)
	}
	if actor.ID != co.ID && !actor.IsOrganizer() && !actor.IsOwner() {
		return nil, &AuthorizationError{Actor: actor.Username, Operation: "request holiday"}
	}
	if !co.IsPermanent() {
		return nil, &InvalidStateError{Operation: "request holiday", Reason: "occasional staff cannot hold leave"}
	}
	if !period.Valid() {
		return nil, &ValidationError{Field: "period", Reason: "start must not be after end"}
	}

	hr := NewHolidayRequest(co, period)

	m.log.Debug().Int("owner", co.ID).Stringer("period", period).Msg("holiday requested")
	if err := m.notifyHolidayRequested(ctx, hr); err != nil {
		return hr, err
	}
	return hr, nil
}

// DecideHolidayRequest records the owner's decision on a request. Owner
// role only. A request owned by an Occasional is deleted and rejected
// before any veto logic runs, regardless of the decision. Deciding an
// already-decided request is an invalid state: the decision is immutable
// once set.
func (m *Manager) DecideHolidayRequest(ctx context.Context, hr *HolidayRequest, approve bool) (*HolidayRequest, error) {
	_, err := m.requireRole(ctx, "decide holiday request", RoleOwner)
	if err != nil {
		return nil, err
	}
	if hr.Owner.IsOccasional() {
		if err := m.requests.RemoveRequest(ctx, hr.ID); err != nil {
			return nil, fmt.Errorf("decide holiday request: delete ineligible request: %w", err)
		}
		return nil, &InvalidStateError{Operation: "decide holiday request", Reason: "request owner is not eligible for leave"}
	}
	if hr.Decided() {
		return nil, &InvalidStateError{Operation: "decide holiday request", Reason: "request already decided"}
	}

	hr.decide(approve, m.now())

	if hr.Approved {
		if err := m.applyVetoes(ctx, hr); err != nil {
			return nil, err
		}
	}

	if hr.Approved {
		hr.Owner.ConsumeHolidayBalance(hr.Days())
	}

	if err := m.notifyHolidayDecided(ctx, hr); err != nil {
		return hr, err
	}
	return hr, nil
}

// applyVetoes re-validates an approval in fixed order: balance, shift,
// overlap. The first veto to trigger downgrades the approval and stops
// the evaluation; the decision timestamp recorded before stands.
func (m *Manager) applyVetoes(ctx context.Context, hr *HolidayRequest) error {
	if !hr.Owner.HasHolidayBalance(hr.Period) {
		m.log.Info().Int("request", hr.ID).Msg("no holidays available")
		hr.Approved = false
		return nil
	}

	conflict, err := m.hasShiftConflict(ctx, hr.Owner, hr.Period)
	if err != nil {
		return fmt.Errorf("decide holiday request: shift lookup: %w", err)
	}
	if conflict {
		m.log.Info().Int("request", hr.ID).Msg("shift conflict")
		hr.Approved = false
		return nil
	}

	overlap, err := m.hasHolidayConflict(ctx, hr)
	if err != nil {
		return fmt.Errorf("decide holiday request: request lookup: %w", err)
	}
	if overlap {
		m.log.Info().Int("request", hr.ID).Msg("holidays conflict")
		hr.Approved = false
	}
	return nil
}

// hasShiftConflict reports whether any of the owner's assigned shifts
// falls within the requested range, endpoints included.
func (m *Manager) hasShiftConflict(ctx context.Context, co *Collaborator, period schedule.Range) (bool, error) {
	dates, err := m.shifts.ShiftsFor(ctx, co.ID)
	if err != nil {
		return false, err
	}
	for _, d := range dates {
		if period.Contains(d) {
			return true, nil
		}
	}
	return false, nil
}

// hasHolidayConflict reports whether the owner holds another approved
// request whose range intersects this one.
func (m *Manager) hasHolidayConflict(ctx context.Context, hr *HolidayRequest) (bool, error) {
	existing, err := m.requests.RequestsByOwner(ctx, hr.Owner.ID)
	if err != nil {
		return false, err
	}
	for _, other := range existing {
		if hr.ConflictsWith(other) {
			return true, nil
		}
	}
	return false, nil
}

// =============================================================================
// NOTE USE CASES - Adjoining surface shared by the manager
// =============================================================================

// AddNote attaches a note to an ended event. Organizer role only; the
// event must have ended and carry no note yet.
func (m *Manager) AddNote(ctx context.Context, eventID int, body string) (*events.Note, error) {
	actor, err := m.requireRole(ctx, "add note", RoleOrganizer)
	if err != nil {
		return nil, err
	}

	existing, err := m.events.NoteFor(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	if existing != nil {
		return nil, &InvalidStateError{Operation: "add note", Reason: "a note already exists for this event"}
	}
	ended, err := m.events.HasEnded(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	if !ended {
		return nil, &InvalidStateError{Operation: "add note", Reason: "the event has not ended yet"}
	}

	n := &events.Note{EventID: eventID, AuthorID: actor.ID, Body: body}
	if err := m.events.AddNote(ctx, n); err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	return n, nil
}

// ModifyNote rewrites an event's note. Organizer role only, and only by
// the note's author.
func (m *Manager) ModifyNote(ctx context.Context, eventID int, body string) (*events.Note, error) {
	actor, err := m.requireRole(ctx, "modify note", RoleOrganizer)
	if err != nil {
		return nil, err
	}

	n, err := m.events.NoteFor(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("modify note: %w", err)
	}
	if n == nil {
		return nil, &InvalidStateError{Operation: "modify note", Reason: "no note exists for this event"}
	}
	if n.AuthorID != actor.ID {
		return nil, &AuthorizationError{Actor: actor.Username, Operation: "modify note (not the author)"}
	}

	n.Body = body
	if err := m.events.UpdateNote(ctx, n); err != nil {
		return nil, fmt.Errorf("modify note: %w", err)
	}
	return n, nil
}

// RemoveNote deletes an event's note. Organizer role only, and only by
// the note's author.
func (m *Manager) RemoveNote(ctx context.Context, eventID int) error {
	actor, err := m.requireRole(ctx, "remove note", RoleOrganizer)
	if err != nil {
		return err
	}

	n, err := m.events.NoteFor(ctx, eventID)
	if err != nil {
		return fmt.Errorf("remove note: %w", err)
	}
	if n == nil {
		return &InvalidStateError{Operation: "remove note", Reason: "no note exists for this event"}
	}
	if n.AuthorID != actor.ID {
		return &AuthorizationError{Actor: actor.Username, Operation: "remove note (not the author)"}
	}

	if err := m.events.RemoveNote(ctx, n.ID); err != nil {
		return fmt.Errorf("remove note: %w", err)
	}
	return nil
}

// EventBook lists the events. Organizer or Owner role required.
func (m *Manager) EventBook(ctx context.Context) ([]events.Event, error) {
	if _, err := m.requireRole(ctx, "event book", RoleOrganizer, RoleOwner); err != nil {
		return nil, err
	}
	return m.events.EventBook(ctx)
}
