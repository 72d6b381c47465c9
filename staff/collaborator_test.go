package staff_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convivio/roster-engine/schedule"
	"github.com/convivio/roster-engine/staff"
)

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestNewOccasional(t *testing.T) {
	// GIVEN: A fresh hire with a name and roles
	// WHEN: Creating the occasional
	// THEN: Username is derived, availability on, id unassigned

	co := staff.NewOccasional("Mirco", "333-4567", staff.NewRoleSet(staff.RoleService, staff.RoleCook))

	assert.Equal(t, 0, co.ID)
	assert.True(t, co.IsOccasional())
	assert.Equal(t, "Mirco.CatERing", co.Username)
	assert.True(t, co.Available)
	assert.True(t, co.HasRole(staff.RoleService))
	assert.True(t, co.HasRole(staff.RoleCook))
	assert.Nil(t, co.Permanent)
}

func TestNewOccasional_ClonesRoles(t *testing.T) {
	roles := staff.NewRoleSet(staff.RoleCook)
	co := staff.NewOccasional("Mirco", "", roles)

	roles.Add(staff.RoleChef)

	assert.False(t, co.HasRole(staff.RoleChef), "mutating the input set must not leak into the collaborator")
}

func TestIsInfoComplete(t *testing.T) {
	co := staff.NewOccasional("Mirco", "", staff.NewRoleSet(staff.RoleService))
	assert.False(t, co.IsInfoComplete())

	co.FiscalID = "MRC03S"
	assert.False(t, co.IsInfoComplete(), "fiscal id alone is not complete")

	co.Address = "Via di Mirco 23"
	assert.True(t, co.IsInfoComplete())
}

func TestPromote(t *testing.T) {
	// GIVEN: A filled occasional with an assigned id
	// WHEN: Promoting
	// THEN: Every shared field carries over, identity stays, defaults apply

	co := staff.NewOccasional("Mirco", "333-4567", staff.NewRoleSet(staff.RoleService, staff.RoleCook))
	co.ID = 7
	co.FiscalID = "MRC03S"
	co.Address = "Via di Mirco 23"

	p := staff.Promote(co)

	require.True(t, p.IsPermanent())
	assert.Equal(t, 7, p.ID)
	assert.Equal(t, "Mirco.CatERing", p.Username)
	assert.Equal(t, "Mirco", p.Name)
	assert.Equal(t, "333-4567", p.Contact)
	assert.Equal(t, "MRC03S", p.FiscalID)
	assert.Equal(t, "Via di Mirco 23", p.Address)
	assert.True(t, p.Available)
	assert.True(t, p.HasRole(staff.RoleService))
	assert.True(t, p.HasRole(staff.RoleCook))

	require.NotNil(t, p.Permanent)
	assert.Equal(t, staff.DefaultHolidayDays, p.Permanent.HolidayDays)
	assert.True(t, p.Permanent.WorkHours.Equal(staff.DefaultWorkHours))
}

// =============================================================================
// LEAVE BALANCE TESTS
// =============================================================================

func permanentWithDays(t *testing.T, days int) *staff.Collaborator {
	t.Helper()
	co := staff.NewOccasional("Tania", "", staff.NewRoleSet(staff.RoleChef))
	co.FiscalID = "TNA81C"
	co.Address = "Via Tania 1"
	p := staff.Promote(co)
	p.Permanent.HolidayDays = days
	return p
}

func TestHasHolidayBalance(t *testing.T) {
	p := permanentWithDays(t, 5)

	within := schedule.NewRange(
		schedule.NewDate(2026, time.June, 1),
		schedule.NewDate(2026, time.June, 5),
	)
	beyond := schedule.NewRange(
		schedule.NewDate(2026, time.June, 1),
		schedule.NewDate(2026, time.June, 6),
	)

	assert.True(t, p.HasHolidayBalance(within), "5 remaining days cover a 5-day range")
	assert.False(t, p.HasHolidayBalance(beyond), "5 remaining days do not cover a 6-day range")
}

func TestHasHolidayBalance_OccasionalNeverHasBalance(t *testing.T) {
	co := staff.NewOccasional("Mirco", "", staff.NewRoleSet(staff.RoleService))
	r := schedule.NewRange(
		schedule.NewDate(2026, time.June, 1),
		schedule.NewDate(2026, time.June, 1),
	)
	assert.False(t, co.HasHolidayBalance(r))
}

func TestConsumeHolidayBalance(t *testing.T) {
	p := permanentWithDays(t, 5)

	p.ConsumeHolidayBalance(3)

	assert.Equal(t, 2, p.Permanent.HolidayDays)
	assert.False(t, p.Available, "consuming leave marks the collaborator unavailable")
}

func TestConsumeHolidayBalance_NoOpForOccasional(t *testing.T) {
	co := staff.NewOccasional("Mirco", "", staff.NewRoleSet(staff.RoleService))
	co.ConsumeHolidayBalance(3)
	assert.True(t, co.Available)
}

// =============================================================================
// RECONSTRUCTION TESTS
// =============================================================================

func TestReconstruct_VariantInference(t *testing.T) {
	days := 12
	hours := decimal.NewFromInt(800)

	cases := []struct {
		name              string
		fiscalID, address string
		holidayDays       *int
		workHours         *decimal.Decimal
		wantKind          staff.Kind
		wantInfoComplete  bool
	}{
		{"no info stays occasional", "", "", nil, nil, staff.KindOccasional, false},
		{"partial info stays occasional", "MRC03S", "", nil, nil, staff.KindOccasional, false},
		{"complete info without leave data is a filled occasional", "MRC03S", "Via di Mirco 23", nil, nil, staff.KindOccasional, true},
		{"complete info with only days stays occasional", "MRC03S", "Via di Mirco 23", &days, nil, staff.KindOccasional, true},
		{"complete info with leave data is permanent", "MRC03S", "Via di Mirco 23", &days, &hours, staff.KindPermanent, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			co := staff.Reconstruct(3, "Mirco.CatERing", "Mirco", "333-4567",
				tc.fiscalID, tc.address, true, staff.NewRoleSet(staff.RoleService),
				tc.holidayDays, tc.workHours)

			assert.Equal(t, tc.wantKind, co.Kind)
			assert.Equal(t, tc.wantInfoComplete, co.IsInfoComplete())
			if tc.wantKind == staff.KindPermanent {
				require.NotNil(t, co.Permanent)
				assert.Equal(t, days, co.Permanent.HolidayDays)
				assert.True(t, co.Permanent.WorkHours.Equal(hours))
			} else {
				assert.Nil(t, co.Permanent)
			}
		})
	}
}
