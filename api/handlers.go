/*
handlers.go - HTTP API handlers for the staff roster

PURPOSE:
  Exposes the roster use cases via REST API. Handles HTTP
  request/response, JSON serialization and validation, and delegates
  every decision to the staff manager.

ENDPOINTS:
  Auth:
    POST   /api/auth/token                   Issue a dev token

  Collaborators:
    GET    /api/collaborators                List all collaborators
    POST   /api/collaborators                Hire an occasional
    GET    /api/collaborators/{id}           Load one collaborator
    PUT    /api/collaborators/{id}           Partial modification
    DELETE /api/collaborators/{id}           Remove
    POST   /api/collaborators/{id}/fill      Complete personal info
    POST   /api/collaborators/{id}/promote   Occasional -> Permanent
    POST   /api/collaborators/{id}/holidays  Submit a leave request

  Holidays:
    GET    /api/holidays/pending             Pending approval queue
    POST   /api/holidays/{id}/decision       Approve or deny

  Events:
    GET    /api/events                       Event book
    POST   /api/events/{id}/note             Attach a note
    PUT    /api/events/{id}/note             Rewrite a note
    DELETE /api/events/{id}/note             Remove a note

REQUEST FLOW:
  1. Parse and validate the HTTP request
  2. Load the target entities from the store
  3. Call the manager use case
  4. Serialize the response
  5. Map domain errors to HTTP status codes

ERROR HANDLING:
  Errors are returned as JSON with the status derived from the error
  kind:
  - 401: no authenticated actor
  - 403: actor lacks the required role
  - 409: invalid state (already promoted, already decided, ...)
  - 400: validation errors, invalid input
  - 404: entity not found
  - 500: everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - staff/manager.go: The use cases
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/convivio/roster-engine/schedule"
	"github.com/convivio/roster-engine/staff"
	"github.com/convivio/roster-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Manager *staff.Manager
	Tokens  *TokenIssuer

	log zerolog.Logger
}

// NewHandler creates a new handler.
func NewHandler(store *sqlite.Store, manager *staff.Manager, tokens *TokenIssuer, log zerolog.Logger) *Handler {
	return &Handler{
		Store:   store,
		Manager: manager,
		Tokens:  tokens,
		log:     log.With().Str("component", "api").Logger(),
	}
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// IssueToken signs a token for a known username.
// POST /api/auth/token
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !h.decode(w, r, &req) {
		return
	}

	actor, err := h.Store.ActorByUsername(r.Context(), req.Username)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	token, err := h.Tokens.Issue(actor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to sign token", err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// =============================================================================
// COLLABORATOR HANDLERS
// =============================================================================

// ListCollaborators returns all collaborators.
// GET /api/collaborators
func (h *Handler) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	collaborators, err := h.Store.Collaborators(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list collaborators", err)
		return
	}

	dtos := make([]CollaboratorDTO, len(collaborators))
	for i, co := range collaborators {
		dtos[i] = toCollaboratorDTO(co)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCollaborator returns a single collaborator.
// GET /api/collaborators/{id}
func (h *Handler) GetCollaborator(w http.ResponseWriter, r *http.Request) {
	co, ok := h.loadCollaborator(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCollaboratorDTO(co))
}

// CreateCollaborator hires a new occasional.
// POST /api/collaborators
func (h *Handler) CreateCollaborator(w http.ResponseWriter, r *http.Request) {
	var req CreateCollaboratorRequest
	if !h.decode(w, r, &req) {
		return
	}

	roles, err := parseRoles(req.Roles)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid role", err)
		return
	}

	co, err := h.Manager.AddCollaborator(r.Context(), req.Name, req.Contact, roles)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCollaboratorDTO(co))
}

// ModifyCollaborator applies a partial update.
// PUT /api/collaborators/{id}
func (h *Handler) ModifyCollaborator(w http.ResponseWriter, r *http.Request) {
	co, ok := h.loadCollaborator(w, r)
	if !ok {
		return
	}

	var req ModifyCollaboratorRequest
	if !h.decode(w, r, &req) {
		return
	}

	upd := staff.CollaboratorUpdate{
		Name:        req.Name,
		Contact:     req.Contact,
		FiscalID:    req.FiscalID,
		Address:     req.Address,
		HolidayDays: req.HolidayDays,
	}
	if req.Roles != nil {
		roles, err := parseRoles(req.Roles)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid role", err)
			return
		}
		upd.Roles = roles
	}
	hours, err := parseWorkHours(req.WorkHours)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid work hours", err)
		return
	}
	upd.WorkHours = hours

	co, err = h.Manager.ModifyCollaborator(r.Context(), co, upd)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCollaboratorDTO(co))
}

// DeleteCollaborator removes a collaborator.
// DELETE /api/collaborators/{id}
func (h *Handler) DeleteCollaborator(w http.ResponseWriter, r *http.Request) {
	co, ok := h.loadCollaborator(w, r)
	if !ok {
		return
	}

	if err := h.Manager.RemoveCollaborator(r.Context(), co); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FillOccasional completes an occasional's personal info.
// POST /api/collaborators/{id}/fill
func (h *Handler) FillOccasional(w http.ResponseWriter, r *http.Request) {
	co, ok := h.loadCollaborator(w, r)
	if !ok {
		return
	}

	var req FillOccasionalRequest
	if !h.decode(w, r, &req) {
		return
	}

	co, err := h.Manager.FillOccasional(r.Context(), co, req.FiscalID, req.Address)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCollaboratorDTO(co))
}

// PromoteOccasional turns an occasional into a permanent.
// POST /api/collaborators/{id}/promote
func (h *Handler) PromoteOccasional(w http.ResponseWriter, r *http.Request) {
	co, ok := h.loadCollaborator(w, r)
	if !ok {
		return
	}

	co, err := h.Manager.PromoteOccasional(r.Context(), co)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCollaboratorDTO(co))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// RequestHoliday submits a leave request for a collaborator.
// POST /api/collaborators/{id}/holidays
func (h *Handler) RequestHoliday(w http.ResponseWriter, r *http.Request) {
	co, ok := h.loadCollaborator(w, r)
	if !ok {
		return
	}

	var req RequestHolidayRequest
	if !h.decode(w, r, &req) {
		return
	}

	start, err := schedule.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date", err)
		return
	}
	end, err := schedule.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date", err)
		return
	}

	hr, err := h.Manager.RequestHoliday(r.Context(), co, schedule.NewRange(start, end))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayRequestDTO(hr))
}

// ListPendingHolidays returns the undecided request queue.
// GET /api/holidays/pending
func (h *Handler) ListPendingHolidays(w http.ResponseWriter, r *http.Request) {
	pending, err := h.Store.PendingRequests(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list pending requests", err)
		return
	}

	dtos := make([]HolidayRequestDTO, len(pending))
	for i, hr := range pending {
		dtos[i] = toHolidayRequestDTO(hr)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DecideHoliday records the owner's decision on a request.
// POST /api/holidays/{id}/decision
func (h *Handler) DecideHoliday(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request id", err)
		return
	}

	hr, err := h.Store.HolidayRequestByID(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	var req DecideHolidayRequest
	if !h.decode(w, r, &req) {
		return
	}

	hr, err = h.Manager.DecideHolidayRequest(r.Context(), hr, req.Approve)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHolidayRequestDTO(hr))
}

// =============================================================================
// EVENT HANDLERS
// =============================================================================

// ListEvents returns the event book.
// GET /api/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	book, err := h.Manager.EventBook(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	dtos := make([]EventDTO, len(book))
	for i, ev := range book {
		dtos[i] = EventDTO{ID: ev.ID, Name: ev.Name, EndDate: ev.EndsOn.String()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddNote attaches a note to an event.
// POST /api/events/{id}/note
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event id", err)
		return
	}

	var req NoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	note, err := h.Manager.AddNote(r.Context(), eventID, req.Body)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, NoteDTO{ID: note.ID, EventID: note.EventID, AuthorID: note.AuthorID, Body: note.Body})
}

// ModifyNote rewrites an event's note.
// PUT /api/events/{id}/note
func (h *Handler) ModifyNote(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event id", err)
		return
	}

	var req NoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	note, err := h.Manager.ModifyNote(r.Context(), eventID, req.Body)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NoteDTO{ID: note.ID, EventID: note.EventID, AuthorID: note.AuthorID, Body: note.Body})
}

// RemoveNote removes an event's note.
// DELETE /api/events/{id}/note
func (h *Handler) RemoveNote(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event id", err)
		return
	}

	if err := h.Manager.RemoveNote(r.Context(), eventID); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

// decode parses and validates a JSON request body, writing the error
// response itself. Returns false when the handler should stop.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// loadCollaborator resolves {id} to a stored collaborator, writing the
// error response itself.
func (h *Handler) loadCollaborator(w http.ResponseWriter, r *http.Request) (*staff.Collaborator, bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid collaborator id", err)
		return nil, false
	}

	co, err := h.Store.CollaboratorByID(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return nil, false
	}
	return co, true
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

func parseRoles(raw []string) (staff.RoleSet, error) {
	roles := staff.NewRoleSet()
	for _, s := range raw {
		r, err := staff.ParseRole(s)
		if err != nil {
			return nil, err
		}
		roles.Add(r)
	}
	return roles, nil
}

// writeDomainError maps a domain error kind to an HTTP status.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, staff.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "Authentication required", err)
	case errors.Is(err, staff.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "Operation not permitted", err)
	case staff.IsInvalidState(err):
		writeError(w, http.StatusConflict, "Operation not allowed in current state", err)
	case staff.IsValidation(err):
		writeError(w, http.StatusBadRequest, "Validation failed", err)
	case staff.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	default:
		h.log.Error().Err(err).Msg("unhandled domain error")
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
