// Package events defines the narrow event/note surface the roster core
// consumes. Event and menu management live outside this module; the staff
// manager only needs to know whether an event has ended, read its note,
// and manage notes on ended events.
package events

import (
	"context"

	"github.com/convivio/roster-engine/schedule"
)

// Event is the read-only projection of an event the roster cares about.
type Event struct {
	ID     int
	Name   string
	EndsOn schedule.Date
}

// Ended reports whether the event finished before the given day.
func (e Event) Ended(today schedule.Date) bool {
	return e.EndsOn.Before(today)
}

// Note is a post-event annotation written by an organizer.
type Note struct {
	ID       int
	EventID  int
	AuthorID int
	Body     string
}

// Surface is the event subsystem boundary. NoteFor returns nil when the
// event has no note.
type Surface interface {
	HasEnded(ctx context.Context, eventID int) (bool, error)
	NoteFor(ctx context.Context, eventID int) (*Note, error)
	EventBook(ctx context.Context) ([]Event, error)

	AddNote(ctx context.Context, n *Note) error
	UpdateNote(ctx context.Context, n *Note) error
	RemoveNote(ctx context.Context, noteID int) error
}
