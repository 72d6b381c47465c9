/*
Package staff implements the roster core of the catering business:
collaborator lifecycle, role-gated staff use cases, and the
holiday-request approval workflow.

KEY CONCEPTS IN THIS FILE (types.go):
  - Role / RoleSet: the role vocabulary and set operations
  - Actor: the authenticated identity performing an operation
  - ActorProvider: boundary supplying the current actor

ROLES:
  Cook, Chef and Service are working roles held by collaborators.
  Organizer and Owner are administrative roles; an actor may hold them
  without being staff at all. The Owner role is special-cased throughout:
  it can never be granted through the staff-editing path.

SEE ALSO:
  - collaborator.go: the Occasional/Permanent variant
  - manager.go: use cases and authorization
*/
package staff

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ROLES
// =============================================================================

type Role string

const (
	RoleCook      Role = "cook"
	RoleChef      Role = "chef"
	RoleOrganizer Role = "organizer"
	RoleService   Role = "service"
	RoleOwner     Role = "owner"
)

// ParseRole converts a wire-level role name into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCook, RoleChef, RoleOrganizer, RoleService, RoleOwner:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsWorking reports whether the role is a collaborator-type role, as
// opposed to an administrative one.
func (r Role) IsWorking() bool {
	return r == RoleCook || r == RoleChef || r == RoleService
}

// RoleSet is a set of roles. The zero value is unusable; use NewRoleSet.
type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	rs := make(RoleSet, len(roles))
	for _, r := range roles {
		rs[r] = struct{}{}
	}
	return rs
}

func (rs RoleSet) Has(r Role) bool { _, ok := rs[r]; return ok }
func (rs RoleSet) Add(r Role)      { rs[r] = struct{}{} }
func (rs RoleSet) Remove(r Role)   { delete(rs, r) }

// Clone returns an independent copy of the set.
func (rs RoleSet) Clone() RoleSet {
	out := make(RoleSet, len(rs))
	for r := range rs {
		out[r] = struct{}{}
	}
	return out
}

// List returns the roles in stable (sorted) order.
func (rs RoleSet) List() []Role {
	out := make([]Role, 0, len(rs))
	for r := range rs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// =============================================================================
// ACTOR - The authenticated identity
// =============================================================================

// Actor is the authenticated identity performing a use case. It carries
// the role set the authorization checks run against.
type Actor struct {
	ID       int
	Username string
	Roles    RoleSet
}

func (a Actor) IsOrganizer() bool { return a.Roles.Has(RoleOrganizer) }
func (a Actor) IsOwner() bool     { return a.Roles.Has(RoleOwner) }

// ActorProvider supplies the currently authenticated actor. It fails
// with an authorization error when no actor is authenticated.
type ActorProvider interface {
	Current(ctx context.Context) (Actor, error)
}

// =============================================================================
// DEFAULTS
// =============================================================================

// UsernameSuffix is appended to a collaborator's name to derive the
// display username.
const UsernameSuffix = ".CatERing"

// DefaultHolidayDays is the leave balance a freshly promoted Permanent
// starts with. Leave is granted later through modification.
const DefaultHolidayDays = 0

// DefaultWorkHours is the working-hours quota assigned on promotion,
// meaning "not yet configured".
var DefaultWorkHours = decimal.NewFromInt(1000)
