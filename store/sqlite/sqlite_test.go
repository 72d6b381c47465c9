package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convivio/roster-engine/events"
	"github.com/convivio/roster-engine/schedule"
	"github.com/convivio/roster-engine/staff"
	"github.com/convivio/roster-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func savedOccasional(t *testing.T, store *sqlite.Store, name string) *staff.Collaborator {
	t.Helper()
	co := staff.NewOccasional(name, "333-4567", staff.NewRoleSet(staff.RoleService, staff.RoleCook))
	require.NoError(t, store.OnCollaboratorAdded(context.Background(), co))
	return co
}

func savedPermanent(t *testing.T, store *sqlite.Store, name string, holidayDays int) *staff.Collaborator {
	t.Helper()
	ctx := context.Background()
	co := savedOccasional(t, store, name)
	co.FiscalID = "FSC-" + name
	co.Address = "Via " + name + " 1"
	require.NoError(t, store.OnOccasionalFilled(ctx, co))

	p := staff.Promote(co)
	p.Permanent.HolidayDays = holidayDays
	require.NoError(t, store.OnOccasionalPromoted(ctx, p))
	return p
}

// =============================================================================
// COLLABORATOR PERSISTENCE
// =============================================================================

func TestOnCollaboratorAdded_AssignsID(t *testing.T) {
	store := newTestStore(t)

	first := savedOccasional(t, store, "Mirco")
	second := savedOccasional(t, store, "Tania")

	assert.NotZero(t, first.ID)
	assert.NotZero(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCollaboratorRoundTrip_Occasional(t *testing.T) {
	store := newTestStore(t)
	co := savedOccasional(t, store, "Mirco")

	loaded, err := store.CollaboratorByID(context.Background(), co.ID)
	require.NoError(t, err)

	assert.True(t, loaded.IsOccasional())
	assert.Equal(t, "Mirco.CatERing", loaded.Username)
	assert.Equal(t, "Mirco", loaded.Name)
	assert.Equal(t, "333-4567", loaded.Contact)
	assert.True(t, loaded.Available)
	assert.True(t, loaded.HasRole(staff.RoleService))
	assert.True(t, loaded.HasRole(staff.RoleCook))
	assert.Nil(t, loaded.Permanent)
}

func TestCollaboratorRoundTrip_FilledOccasionalStaysOccasional(t *testing.T) {
	// GIVEN: An occasional whose info was filled but never promoted
	// WHEN: Loading
	// THEN: The variant stays occasional with complete info

	store := newTestStore(t)
	ctx := context.Background()
	co := savedOccasional(t, store, "Mirco")
	co.FiscalID = "MRC03S"
	co.Address = "Via di Mirco 23"
	require.NoError(t, store.OnOccasionalFilled(ctx, co))

	loaded, err := store.CollaboratorByID(ctx, co.ID)
	require.NoError(t, err)

	assert.True(t, loaded.IsOccasional())
	assert.True(t, loaded.IsInfoComplete())
	assert.Equal(t, "MRC03S", loaded.FiscalID)
}

func TestCollaboratorRoundTrip_Permanent(t *testing.T) {
	store := newTestStore(t)
	p := savedPermanent(t, store, "Tania", 12)
	p.Permanent.WorkHours = decimal.RequireFromString("937.5")
	require.NoError(t, store.OnCollaboratorModified(context.Background(), p))

	loaded, err := store.CollaboratorByID(context.Background(), p.ID)
	require.NoError(t, err)

	require.True(t, loaded.IsPermanent())
	assert.Equal(t, 12, loaded.Permanent.HolidayDays)
	assert.True(t, loaded.Permanent.WorkHours.Equal(decimal.RequireFromString("937.5")),
		"fractional hour quotas survive the round trip")
}

func TestOnCollaboratorModified_RenamesUserToo(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	co := savedOccasional(t, store, "Mirco")

	co.Name = "Mirko"
	co.Username = staff.DeriveUsername("Mirko")
	co.Roles = staff.NewRoleSet(staff.RoleChef)
	require.NoError(t, store.OnCollaboratorModified(ctx, co))

	loaded, err := store.CollaboratorByID(ctx, co.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mirko.CatERing", loaded.Username)
	assert.True(t, loaded.HasRole(staff.RoleChef))
	assert.False(t, loaded.HasRole(staff.RoleService), "role rewrite replaces the old set")

	actor, err := store.ActorByUsername(ctx, "Mirko.CatERing")
	require.NoError(t, err)
	assert.Equal(t, co.ID, actor.ID)
}

func TestOnCollaboratorRemoved_Cascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := savedPermanent(t, store, "Tania", 10)

	hr := staff.NewHolidayRequest(p, schedule.NewRange(
		schedule.NewDate(2026, time.June, 1),
		schedule.NewDate(2026, time.June, 3),
	))
	require.NoError(t, store.OnHolidayRequested(ctx, hr))

	require.NoError(t, store.OnCollaboratorRemoved(ctx, p))

	_, err := store.CollaboratorByID(ctx, p.ID)
	assert.True(t, staff.IsNotFound(err))

	remaining, err := store.RequestsByOwner(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining, "removal deletes the owner's requests")

	_, err = store.ActorByUsername(ctx, p.Username)
	assert.True(t, staff.IsNotFound(err), "the user row goes too")
}

func TestCollaborators_ListsAllOrdered(t *testing.T) {
	store := newTestStore(t)
	a := savedOccasional(t, store, "Mirco")
	b := savedPermanent(t, store, "Tania", 5)

	all, err := store.Collaborators(context.Background())
	require.NoError(t, err)

	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, b.ID, all[1].ID)
	assert.True(t, all[1].IsPermanent())
}

// =============================================================================
// HOLIDAY REQUEST PERSISTENCE
// =============================================================================

func TestHolidayRequestLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := savedPermanent(t, store, "Tania", 10)

	hr := staff.NewHolidayRequest(p, schedule.NewRange(
		schedule.NewDate(2026, time.June, 1),
		schedule.NewDate(2026, time.June, 3),
	))
	require.NoError(t, store.OnHolidayRequested(ctx, hr))
	require.NotZero(t, hr.ID)

	pending, err := store.PendingRequests(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, hr.ID, pending[0].ID)
	assert.False(t, pending[0].Decided())

	// Decide: approved, balance consumed
	now := time.Now().UTC().Truncate(time.Second)
	hr.Approved = true
	hr.DecidedAt = &now
	p.Permanent.HolidayDays = 7
	p.Available = false
	require.NoError(t, store.OnHolidayDecided(ctx, hr))

	pending, err = store.PendingRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending, "decided requests leave the queue")

	loaded, err := store.HolidayRequestByID(ctx, hr.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Approved)
	require.NotNil(t, loaded.DecidedAt)
	assert.True(t, loaded.DecidedAt.Equal(now))
	assert.Equal(t, 7, loaded.Owner.Permanent.HolidayDays, "approval cascades the owner write")
	assert.False(t, loaded.Owner.Available)
}

func TestRemoveRequest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := savedPermanent(t, store, "Tania", 10)

	hr := staff.NewHolidayRequest(p, schedule.NewRange(
		schedule.NewDate(2026, time.June, 1),
		schedule.NewDate(2026, time.June, 1),
	))
	require.NoError(t, store.OnHolidayRequested(ctx, hr))

	require.NoError(t, store.RemoveRequest(ctx, hr.ID))

	_, err := store.HolidayRequestByID(ctx, hr.ID)
	assert.True(t, staff.IsNotFound(err))
}

// =============================================================================
// SHIFTS + AVAILABILITY RESTORE
// =============================================================================

func TestShiftsFor(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	co := savedOccasional(t, store, "Mirco")

	require.NoError(t, store.AssignShift(ctx, co.ID, schedule.NewDate(2026, time.June, 12)))
	require.NoError(t, store.AssignShift(ctx, co.ID, schedule.NewDate(2026, time.June, 10)))

	dates, err := store.ShiftsFor(ctx, co.ID)
	require.NoError(t, err)

	require.Len(t, dates, 2)
	assert.Equal(t, "2026-06-10", dates[0].String(), "shifts come back ordered")
	assert.Equal(t, "2026-06-12", dates[1].String())
}

func TestAvailabilityRestore(t *testing.T) {
	// GIVEN: Two unavailable permanents, one whose approved leave ended
	//        last week and one still on leave
	// WHEN: Querying for leave-ended collaborators
	// THEN: Only the first matches, and restoring flips the flag

	store := newTestStore(t)
	ctx := context.Background()
	today := schedule.Today()

	back := savedPermanent(t, store, "Tania", 5)
	onLeave := savedPermanent(t, store, "Mirco", 5)

	decide := func(p *staff.Collaborator, period schedule.Range) {
		hr := staff.NewHolidayRequest(p, period)
		require.NoError(t, store.OnHolidayRequested(ctx, hr))
		now := time.Now().UTC()
		hr.Approved = true
		hr.DecidedAt = &now
		p.Available = false
		require.NoError(t, store.OnHolidayDecided(ctx, hr))
	}

	decide(back, schedule.NewRange(today.AddDays(-10), today.AddDays(-7)))
	decide(onLeave, schedule.NewRange(today.AddDays(-2), today.AddDays(2)))

	ids, err := store.LeaveEndedCollaborators(ctx, today)
	require.NoError(t, err)
	require.Equal(t, []int{back.ID}, ids)

	require.NoError(t, store.SetAvailability(ctx, back.ID, true))

	restored, err := store.CollaboratorByID(ctx, back.ID)
	require.NoError(t, err)
	assert.True(t, restored.Available)

	ids, err = store.LeaveEndedCollaborators(ctx, today)
	require.NoError(t, err)
	assert.Empty(t, ids, "restore is idempotent")
}

// =============================================================================
// EVENT SURFACE
// =============================================================================

func TestEventSurface(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	author := savedOccasional(t, store, "Giulia")

	pastID, err := store.SaveEvent(ctx, events.Event{Name: "Gala dinner", EndsOn: schedule.Today().AddDays(-3)})
	require.NoError(t, err)
	futureID, err := store.SaveEvent(ctx, events.Event{Name: "Wedding", EndsOn: schedule.Today().AddDays(3)})
	require.NoError(t, err)

	ended, err := store.HasEnded(ctx, pastID)
	require.NoError(t, err)
	assert.True(t, ended)
	ended, err = store.HasEnded(ctx, futureID)
	require.NoError(t, err)
	assert.False(t, ended)

	book, err := store.EventBook(ctx)
	require.NoError(t, err)
	assert.Len(t, book, 2)

	// No note yet
	n, err := store.NoteFor(ctx, pastID)
	require.NoError(t, err)
	assert.Nil(t, n)

	note := &events.Note{EventID: pastID, AuthorID: author.ID, Body: "Short on service staff"}
	require.NoError(t, store.AddNote(ctx, note))
	require.NotZero(t, note.ID)

	note.Body = "Short on service staff, hire two more"
	require.NoError(t, store.UpdateNote(ctx, note))

	loaded, err := store.NoteFor(ctx, pastID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Short on service staff, hire two more", loaded.Body)
	assert.Equal(t, author.ID, loaded.AuthorID)

	require.NoError(t, store.RemoveNote(ctx, note.ID))
	loaded, err = store.NoteFor(ctx, pastID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
