/*
holiday.go - Holiday request state

PURPOSE:
  A HolidayRequest ties one Permanent collaborator to an inclusive date
  range and a decision. State machine:

    pending ──decide──▶ decided (approved or denied)

  A decision is recorded exactly once: DecidedAt is the guard. Once it
  is non-nil the request is immutable; there is no reconsider path.
  A denied request stays visible with Approved=false and a non-nil
  DecidedAt, which is what distinguishes "denied" from "pending".

SEE ALSO:
  - manager.go: the approval algorithm and its three vetoes
*/
package staff

import (
	"time"

	"github.com/convivio/roster-engine/schedule"
)

// HolidayRequest is a Permanent collaborator's request for a date range
// off work.
type HolidayRequest struct {
	ID        int // zero until first persistence acknowledgment
	Owner     *Collaborator
	Period    schedule.Range
	Approved  bool
	DecidedAt *time.Time
}

// NewHolidayRequest builds a pending request. Validation (owner kind,
// range ordering) is the manager's job.
func NewHolidayRequest(owner *Collaborator, period schedule.Range) *HolidayRequest {
	return &HolidayRequest{Owner: owner, Period: period}
}

// Decided reports whether a decision has been recorded.
func (hr *HolidayRequest) Decided() bool { return hr.DecidedAt != nil }

// Denied reports whether the request was decided and turned down.
func (hr *HolidayRequest) Denied() bool { return hr.Decided() && !hr.Approved }

// Days returns the inclusive day count of the requested range.
func (hr *HolidayRequest) Days() int { return hr.Period.Days() }

// decide records the decision and its timestamp. The timestamp is kept
// even when a veto later downgrades the approval.
func (hr *HolidayRequest) decide(approved bool, at time.Time) {
	hr.Approved = approved
	hr.DecidedAt = &at
}

// ConflictsWith reports whether other is a different, already approved
// request whose range intersects this one.
func (hr *HolidayRequest) ConflictsWith(other *HolidayRequest) bool {
	if other.ID == hr.ID || !other.Approved {
		return false
	}
	return hr.Period.Overlaps(other.Period)
}
