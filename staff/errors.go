/*
errors.go - Error kinds for the roster core

PURPOSE:
  All roster errors fall into four kinds. Callers branch on the kind,
  not on message text:

  1. Authorization - the actor lacks the required role; nothing mutated
  2. InvalidState  - the transition is illegal given current entity state
  3. Validation    - required input missing or malformed
  4. NotFound      - a referenced entity does not exist

USAGE:
  if staff.IsAuthorization(err) { ... 403 ... }
  if staff.IsInvalidState(err)  { ... 409 ... }

SEE ALSO:
  - manager.go: produces these errors
  - api: maps kinds to HTTP status codes
*/
package staff

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotAuthenticated is returned by ActorProvider implementations
	// when no actor is authenticated.
	ErrNotAuthenticated = errors.New("no authenticated actor")

	// ErrNotAuthorized is returned when the actor lacks the role an
	// operation requires. No mutation has occurred.
	ErrNotAuthorized = errors.New("actor not authorized")

	// ErrInvalidState is returned when the requested transition is not
	// legal for the entity's current state.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation is returned when required input is missing or
	// malformed, before any field is applied.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// AuthorizationError identifies which operation the actor was denied.
type AuthorizationError struct {
	Actor     string
	Operation string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("actor %q not authorized for %s", e.Actor, e.Operation)
}

func (e *AuthorizationError) Unwrap() error { return ErrNotAuthorized }

// InvalidStateError describes why a transition was rejected.
type InvalidStateError struct {
	Operation string
	Reason    string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Reason)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError names the missing entity.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

func IsAuthorization(err error) bool {
	return errors.Is(err, ErrNotAuthorized) || errors.Is(err, ErrNotAuthenticated)
}

func IsInvalidState(err error) bool { return errors.Is(err, ErrInvalidState) }
func IsValidation(err error) bool   { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
