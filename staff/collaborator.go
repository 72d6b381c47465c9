/*
collaborator.go - The Occasional/Permanent collaborator variant

PURPOSE:
  A collaborator is a staff member in one of two employment forms:

  Occasional: hired per engagement, incomplete personal info allowed,
              no leave balance.
  Permanent:  full info, a remaining-holiday-days balance and a
              working-hours quota, plus holiday requests.

  The variant is a tagged record: a shared base plus an optional
  Permanent payload. Dispatch happens on the Kind tag; there are no
  subtype assertions anywhere in the module.

LIFECYCLE:
  NewOccasional -> (id assigned by the persistence receiver) ->
  fill info -> Promote (new Permanent identity, same id) ->
  modify any number of times -> removal.

  Occasional -> Permanent happens exactly once and is irreversible.

SEE ALSO:
  - manager.go: the use cases that drive this lifecycle
  - store/sqlite: Reconstruct callers that rebuild the variant from rows
*/
package staff

import (
	"github.com/shopspring/decimal"

	"github.com/convivio/roster-engine/schedule"
)

// =============================================================================
// COLLABORATOR
// =============================================================================

// Kind tags the employment variant of a collaborator.
type Kind string

const (
	KindOccasional Kind = "occasional"
	KindPermanent  Kind = "permanent"
)

// Collaborator is a staff member. Permanent is nil exactly when Kind is
// KindOccasional.
type Collaborator struct {
	ID        int // zero until first persistence acknowledgment
	Kind      Kind
	Username  string
	Name      string
	Contact   string
	FiscalID  string
	Address   string
	Available bool
	Roles     RoleSet

	Permanent *PermanentDetail
}

// PermanentDetail holds the payload only Permanents carry.
type PermanentDetail struct {
	// HolidayDays is the remaining leave balance. It only decreases
	// through ConsumeHolidayBalance; it can be raised by modification.
	HolidayDays int

	// WorkHours is the working-hours quota. Catering shifts are billed
	// in fractional hours, hence decimal.
	WorkHours decimal.Decimal
}

// NewOccasional builds a new unsaved Occasional with a derived username.
// The id stays zero until the persistence receiver acknowledges the add.
func NewOccasional(name, contact string, roles RoleSet) *Collaborator {
	return &Collaborator{
		Kind:      KindOccasional,
		Username:  DeriveUsername(name),
		Name:      name,
		Contact:   contact,
		Available: true,
		Roles:     roles.Clone(),
	}
}

// DeriveUsername derives the display username from a collaborator name.
func DeriveUsername(name string) string {
	return name + UsernameSuffix
}

func (c *Collaborator) IsOccasional() bool { return c.Kind == KindOccasional }
func (c *Collaborator) IsPermanent() bool  { return c.Kind == KindPermanent }
func (c *Collaborator) IsOwner() bool      { return c.Roles.Has(RoleOwner) }
func (c *Collaborator) HasRole(r Role) bool { return c.Roles.Has(r) }

// IsInfoComplete reports whether both the fiscal identifier and the
// address have been filled in.
func (c *Collaborator) IsInfoComplete() bool {
	return c.FiscalID != "" && c.Address != ""
}

// =============================================================================
// PROMOTION
// =============================================================================

// Promote copies all shared fields into a new Permanent identity. Leave
// starts at zero and the hour quota at the "not yet configured" default;
// both are set later through modification. The source object is
// discarded by the caller.
func Promote(co *Collaborator) *Collaborator {
	return &Collaborator{
		ID:        co.ID,
		Kind:      KindPermanent,
		Username:  co.Username,
		Name:      co.Name,
		Contact:   co.Contact,
		FiscalID:  co.FiscalID,
		Address:   co.Address,
		Available: co.Available,
		Roles:     co.Roles.Clone(),
		Permanent: &PermanentDetail{
			HolidayDays: DefaultHolidayDays,
			WorkHours:   DefaultWorkHours,
		},
	}
}

// =============================================================================
// LEAVE BALANCE (Permanent only)
// =============================================================================

// HasHolidayBalance reports whether the remaining balance covers the
// inclusive day count of the range. Always false for Occasionals.
func (c *Collaborator) HasHolidayBalance(r schedule.Range) bool {
	if c.Permanent == nil {
		return false
	}
	return c.Permanent.HolidayDays-r.Days() >= 0
}

// ConsumeHolidayBalance decrements the remaining balance and marks the
// collaborator unavailable. This is the only path that reduces the
// balance. No-op for Occasionals.
func (c *Collaborator) ConsumeHolidayBalance(days int) {
	if c.Permanent == nil {
		return
	}
	c.Permanent.HolidayDays -= days
	c.Available = false
}

// =============================================================================
// RECONSTRUCTION - Variant inference from stored fields
// =============================================================================

// Reconstruct rebuilds the correct variant from persisted fields.
// Complete info plus both a leave balance and an hour quota means
// Permanent; anything less stays Occasional. A collaborator with
// complete info but no leave/hour data is an Occasional whose info has
// been filled.
func Reconstruct(id int, username, name, contact, fiscalID, address string,
	available bool, roles RoleSet, holidayDays *int, workHours *decimal.Decimal) *Collaborator {

	co := &Collaborator{
		ID:        id,
		Kind:      KindOccasional,
		Username:  username,
		Name:      name,
		Contact:   contact,
		Available: available,
		Roles:     roles.Clone(),
	}
	if fiscalID == "" || address == "" {
		return co
	}

	co.FiscalID = fiscalID
	co.Address = address
	if holidayDays != nil && workHours != nil {
		co.Kind = KindPermanent
		co.Permanent = &PermanentDetail{HolidayDays: *holidayDays, WorkHours: *workHours}
	}
	return co
}
