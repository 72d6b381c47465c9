// Package memory provides in-memory implementations of the roster
// boundaries (receiver, request directory, shift lookup, event surface)
// for testing and development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/convivio/roster-engine/events"
	"github.com/convivio/roster-engine/schedule"
	"github.com/convivio/roster-engine/staff"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu            sync.RWMutex
	collaborators map[int]*staff.Collaborator
	requests      map[int]*staff.HolidayRequest
	shifts        map[int][]schedule.Date
	eventBook     map[int]events.Event
	notes         map[int]*events.Note // keyed by event id

	nextCollaboratorID int
	nextRequestID      int
	nextNoteID         int
}

func New() *Store {
	return &Store{
		collaborators:      make(map[int]*staff.Collaborator),
		requests:           make(map[int]*staff.HolidayRequest),
		shifts:             make(map[int][]schedule.Date),
		eventBook:          make(map[int]events.Event),
		notes:              make(map[int]*events.Note),
		nextCollaboratorID: 1,
		nextRequestID:      1,
		nextNoteID:         1,
	}
}

// Compile-time interface checks.
var (
	_ staff.Receiver         = (*Store)(nil)
	_ staff.RequestDirectory = (*Store)(nil)
	_ schedule.ShiftLookup   = (*Store)(nil)
	_ events.Surface         = (*Store)(nil)
)

// =============================================================================
// RECEIVER - Persistence as an observer
// =============================================================================

func (s *Store) OnCollaboratorAdded(_ context.Context, co *staff.Collaborator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if co.ID == 0 {
		co.ID = s.nextCollaboratorID
		s.nextCollaboratorID++
	}
	s.collaborators[co.ID] = co
	return nil
}

func (s *Store) OnCollaboratorRemoved(_ context.Context, co *staff.Collaborator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, hr := range s.requests {
		if hr.Owner.ID == co.ID {
			delete(s.requests, id)
		}
	}
	delete(s.collaborators, co.ID)
	return nil
}

func (s *Store) OnCollaboratorModified(_ context.Context, co *staff.Collaborator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collaborators[co.ID] = co
	return nil
}

func (s *Store) OnOccasionalFilled(_ context.Context, co *staff.Collaborator) error {
	return s.OnCollaboratorModified(context.Background(), co)
}

func (s *Store) OnOccasionalPromoted(_ context.Context, co *staff.Collaborator) error {
	return s.OnCollaboratorModified(context.Background(), co)
}

func (s *Store) OnHolidayRequested(_ context.Context, hr *staff.HolidayRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hr.ID == 0 {
		hr.ID = s.nextRequestID
		s.nextRequestID++
	}
	s.requests[hr.ID] = hr
	return nil
}

func (s *Store) OnHolidayDecided(_ context.Context, hr *staff.HolidayRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[hr.ID] = hr
	if hr.Approved {
		s.collaborators[hr.Owner.ID] = hr.Owner
	}
	return nil
}

// =============================================================================
// REQUEST DIRECTORY
// =============================================================================

func (s *Store) RequestsByOwner(_ context.Context, ownerID int) ([]*staff.HolidayRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*staff.HolidayRequest
	for _, hr := range s.requests {
		if hr.Owner.ID == ownerID {
			out = append(out, hr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) RemoveRequest(_ context.Context, requestID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.requests, requestID)
	return nil
}

// Request returns a stored request, or nil.
func (s *Store) Request(id int) *staff.HolidayRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requests[id]
}

// Collaborator returns a stored collaborator, or nil.
func (s *Store) Collaborator(id int) *staff.Collaborator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collaborators[id]
}

// =============================================================================
// SHIFT LOOKUP
// =============================================================================

func (s *Store) ShiftsFor(_ context.Context, collaboratorID int) ([]schedule.Date, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]schedule.Date, len(s.shifts[collaboratorID]))
	copy(out, s.shifts[collaboratorID])
	return out, nil
}

// AssignShift records a shift date for a collaborator, keeping the list
// ordered.
func (s *Store) AssignShift(collaboratorID int, d schedule.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dates := append(s.shifts[collaboratorID], d)
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	s.shifts[collaboratorID] = dates
}

// =============================================================================
// EVENT SURFACE
// =============================================================================

func (s *Store) AddEvent(ev events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventBook[ev.ID] = ev
}

func (s *Store) HasEnded(_ context.Context, eventID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.eventBook[eventID]
	if !ok {
		return false, &staff.NotFoundError{Entity: "event", ID: eventID}
	}
	return ev.Ended(schedule.Today()), nil
}

func (s *Store) NoteFor(_ context.Context, eventID int) (*events.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes[eventID], nil
}

func (s *Store) EventBook(_ context.Context) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]events.Event, 0, len(s.eventBook))
	for _, ev := range s.eventBook {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) AddNote(_ context.Context, n *events.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == 0 {
		n.ID = s.nextNoteID
		s.nextNoteID++
	}
	s.notes[n.EventID] = n
	return nil
}

func (s *Store) UpdateNote(_ context.Context, n *events.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[n.EventID] = n
	return nil
}

func (s *Store) RemoveNote(_ context.Context, noteID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for eventID, n := range s.notes {
		if n.ID == noteID {
			delete(s.notes, eventID)
			return nil
		}
	}
	return nil
}
