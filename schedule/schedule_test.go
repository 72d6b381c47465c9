package schedule_test

import (
	"testing"
	"time"

	"github.com/convivio/roster-engine/schedule"
)

// =============================================================================
// DATE TESTS
// =============================================================================

func TestDate_NormalizesToUTCMidnight(t *testing.T) {
	// GIVEN: A wall-clock time in the middle of the day
	// WHEN: Truncating it to a Date
	// THEN: Comparison against the plain calendar day holds

	at := time.Date(2026, time.March, 10, 17, 45, 12, 0, time.UTC)
	d := schedule.FromTime(at)

	if !d.Equal(schedule.NewDate(2026, time.March, 10)) {
		t.Fatalf("expected %v to equal 2026-03-10", d)
	}
}

func TestParseDate(t *testing.T) {
	d, err := schedule.ParseDate("2026-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2026-03-10" {
		t.Fatalf("round trip mismatch: %s", d)
	}

	if _, err := schedule.ParseDate("10/03/2026"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

func TestDate_Comparisons(t *testing.T) {
	a := schedule.NewDate(2026, time.March, 10)
	b := schedule.NewDate(2026, time.March, 12)

	if !a.Before(b) || b.Before(a) {
		t.Fatal("Before is wrong")
	}
	if !b.After(a) {
		t.Fatal("After is wrong")
	}
	if !a.BeforeOrEqual(a) || !a.AfterOrEqual(a) {
		t.Fatal("OrEqual variants must include equality")
	}
}

func TestDate_AddDays(t *testing.T) {
	d := schedule.NewDate(2026, time.February, 27).AddDays(2)
	if d.String() != "2026-03-01" {
		t.Fatalf("expected month rollover, got %s", d)
	}
}

// =============================================================================
// RANGE TESTS
// =============================================================================

func TestRange_DaysCountsBothEndpoints(t *testing.T) {
	// GIVEN: A range from March 10 to March 12
	// THEN: It spans three days, not two

	r := schedule.NewRange(
		schedule.NewDate(2026, time.March, 10),
		schedule.NewDate(2026, time.March, 12),
	)
	if got := r.Days(); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}

	single := schedule.NewRange(
		schedule.NewDate(2026, time.March, 10),
		schedule.NewDate(2026, time.March, 10),
	)
	if got := single.Days(); got != 1 {
		t.Fatalf("expected 1 day for single-day range, got %d", got)
	}
}

func TestRange_Valid(t *testing.T) {
	ok := schedule.NewRange(
		schedule.NewDate(2026, time.March, 10),
		schedule.NewDate(2026, time.March, 12),
	)
	if !ok.Valid() {
		t.Fatal("ordered range must be valid")
	}

	reversed := schedule.NewRange(ok.End, ok.Start)
	if reversed.Valid() {
		t.Fatal("reversed range must be invalid")
	}

	if (schedule.Range{}).Valid() {
		t.Fatal("zero range must be invalid")
	}
}

func TestRange_ContainsIncludesEndpoints(t *testing.T) {
	r := schedule.NewRange(
		schedule.NewDate(2026, time.March, 10),
		schedule.NewDate(2026, time.March, 12),
	)

	for _, day := range []int{10, 11, 12} {
		if !r.Contains(schedule.NewDate(2026, time.March, day)) {
			t.Fatalf("expected range to contain March %d", day)
		}
	}
	if r.Contains(schedule.NewDate(2026, time.March, 9)) {
		t.Fatal("range must not contain the day before the start")
	}
	if r.Contains(schedule.NewDate(2026, time.March, 13)) {
		t.Fatal("range must not contain the day after the end")
	}
}

func TestRange_Overlaps(t *testing.T) {
	base := schedule.NewRange(
		schedule.NewDate(2026, time.March, 10),
		schedule.NewDate(2026, time.March, 12),
	)

	cases := []struct {
		name  string
		other schedule.Range
		want  bool
	}{
		{"identical", base, true},
		{"shares single endpoint day", schedule.NewRange(
			schedule.NewDate(2026, time.March, 12),
			schedule.NewDate(2026, time.March, 15)), true},
		{"fully inside", schedule.NewRange(
			schedule.NewDate(2026, time.March, 11),
			schedule.NewDate(2026, time.March, 11)), true},
		{"adjacent before", schedule.NewRange(
			schedule.NewDate(2026, time.March, 7),
			schedule.NewDate(2026, time.March, 9)), false},
		{"adjacent after", schedule.NewRange(
			schedule.NewDate(2026, time.March, 13),
			schedule.NewDate(2026, time.March, 14)), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Fatalf("Overlaps(%v) = %v, want %v", tc.other, got, tc.want)
			}
		})
	}
}
