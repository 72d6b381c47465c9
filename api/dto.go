/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract,
  allowing field renaming without breaking clients and API-specific
  validation.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry validator struct tags; handlers run them through
  the package-level validator before touching domain logic, so the
  manager only ever sees structurally sound input.

SEE ALSO:
  - handlers.go: Uses these types
  - staff/manager.go: The use cases behind them
*/
package api

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/convivio/roster-engine/staff"
)

var validate = validator.New()

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CollaboratorDTO represents a collaborator in API responses. The
// permanent-only fields are omitted for occasionals.
type CollaboratorDTO struct {
	ID          int      `json:"id"`
	Kind        string   `json:"kind"`
	Username    string   `json:"username"`
	Name        string   `json:"name"`
	Contact     string   `json:"contact,omitempty"`
	FiscalID    string   `json:"fiscal_id,omitempty"`
	Address     string   `json:"address,omitempty"`
	Available   bool     `json:"available"`
	Roles       []string `json:"roles"`
	HolidayDays *int     `json:"holiday_days,omitempty"`
	WorkHours   *string  `json:"work_hours,omitempty"`
}

// CreateCollaboratorRequest is the request to hire an occasional.
type CreateCollaboratorRequest struct {
	Name    string   `json:"name" validate:"required"`
	Contact string   `json:"contact"`
	Roles   []string `json:"roles" validate:"dive,oneof=cook chef organizer service owner"`
}

// ModifyCollaboratorRequest is the partial-update request. Absent
// fields are left unchanged.
type ModifyCollaboratorRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Contact     *string  `json:"contact,omitempty"`
	FiscalID    *string  `json:"fiscal_id,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Roles       []string `json:"roles,omitempty" validate:"omitempty,dive,oneof=cook chef organizer service owner"`
	HolidayDays *int     `json:"holiday_days,omitempty" validate:"omitempty,min=0"`
	WorkHours   *string  `json:"work_hours,omitempty"`
}

// FillOccasionalRequest completes an occasional's personal info.
type FillOccasionalRequest struct {
	FiscalID string `json:"fiscal_id" validate:"required"`
	Address  string `json:"address" validate:"required"`
}

// HolidayRequestDTO represents a holiday request in API responses.
type HolidayRequestDTO struct {
	ID        int    `json:"id"`
	OwnerID   int    `json:"owner_id"`
	OwnerName string `json:"owner_name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
	Approved  bool   `json:"approved"`
	DecidedAt string `json:"decided_at,omitempty"`
}

// RequestHolidayRequest submits a leave request for a collaborator.
type RequestHolidayRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// DecideHolidayRequest records the owner's decision.
type DecideHolidayRequest struct {
	Approve bool `json:"approve"`
}

// EventDTO represents an event in the event book.
type EventDTO struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	EndDate string `json:"end_date"`
}

// NoteDTO represents an event note.
type NoteDTO struct {
	ID       int    `json:"id"`
	EventID  int    `json:"event_id"`
	AuthorID int    `json:"author_id"`
	Body     string `json:"body"`
}

// NoteRequest creates or rewrites an event note.
type NoteRequest struct {
	Body string `json:"body" validate:"required"`
}

// TokenRequest asks for a development token for a known username.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
}

// TokenResponse carries the signed token.
type TokenResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toCollaboratorDTO(co *staff.Collaborator) CollaboratorDTO {
	roles := make([]string, 0, len(co.Roles))
	for _, r := range co.Roles.List() {
		roles = append(roles, string(r))
	}

	dto := CollaboratorDTO{
		ID:        co.ID,
		Kind:      string(co.Kind),
		Username:  co.Username,
		Name:      co.Name,
		Contact:   co.Contact,
		FiscalID:  co.FiscalID,
		Address:   co.Address,
		Available: co.Available,
		Roles:     roles,
	}
	if co.Permanent != nil {
		days := co.Permanent.HolidayDays
		hours := co.Permanent.WorkHours.String()
		dto.HolidayDays = &days
		dto.WorkHours = &hours
	}
	return dto
}

func toHolidayRequestDTO(hr *staff.HolidayRequest) HolidayRequestDTO {
	dto := HolidayRequestDTO{
		ID:        hr.ID,
		OwnerID:   hr.Owner.ID,
		OwnerName: hr.Owner.Name,
		StartDate: hr.Period.Start.String(),
		EndDate:   hr.Period.End.String(),
		Days:      hr.Days(),
		Approved:  hr.Approved,
	}
	if hr.DecidedAt != nil {
		dto.DecidedAt = hr.DecidedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func parseWorkHours(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
