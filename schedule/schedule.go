/*
Package schedule provides day-granularity dates and inclusive date ranges.

PURPOSE:
  The roster only cares about whole days: a shift happens on a date, a
  holiday covers a range of dates. This package normalizes everything to
  UTC midnight so comparisons never depend on wall-clock time or zone.

KEY CONCEPTS:
  - Date:  a calendar day (UTC midnight)
  - Range: an inclusive [Start, End] span of days
  - ShiftLookup: read-only access to the shifts already assigned to a
    collaborator, used for conflict detection only

INCLUSIVITY:
  Ranges include BOTH endpoints. A request from March 10 to March 12 is
  three days, and a shift on March 12 conflicts with it.

SEE ALSO:
  - staff/holiday.go: holiday requests built on Range
  - store/sqlite: ShiftLookup implementation
*/
package schedule

import (
	"context"
	"fmt"
	"time"
)

// =============================================================================
// DATE - A calendar day
// =============================================================================

// Date is a calendar day, normalized to UTC midnight.
type Date struct {
	Time time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates a time to its calendar day.
func FromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return FromTime(time.Now().UTC())
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.normalize().AddDate(0, 0, n)} }

func (d Date) IsZero() bool   { return d.Time.IsZero() }
func (d Date) String() string { return d.normalize().Format(dateLayout) }

// =============================================================================
// RANGE - Inclusive span of days
// =============================================================================

// Range is an inclusive [Start, End] span of calendar days.
type Range struct {
	Start Date
	End   Date
}

func NewRange(start, end Date) Range {
	return Range{Start: start, End: end}
}

// Valid reports whether Start <= End.
func (r Range) Valid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && r.Start.BeforeOrEqual(r.End)
}

// Days returns the number of days in the range, counting both endpoints.
func (r Range) Days() int {
	return int(r.End.normalize().Sub(r.Start.normalize()).Hours()/24) + 1
}

// Contains reports whether d falls within [Start, End].
func (r Range) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Overlaps reports whether the two ranges share at least one day.
func (r Range) Overlaps(other Range) bool {
	return other.End.AfterOrEqual(r.Start) && other.Start.BeforeOrEqual(r.End)
}

func (r Range) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}

// =============================================================================
// SHIFT LOOKUP - External read-only surface
// =============================================================================

// ShiftLookup returns the shift dates already assigned to a collaborator,
// ordered ascending. The roster core only reads it for conflict checks;
// shift assignment itself lives elsewhere.
type ShiftLookup interface {
	ShiftsFor(ctx context.Context, collaboratorID int) ([]Date, error)
}
