package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	h "eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
	maxDateLen        = 64
)

// CreateEventRequest is the request body for POST /api/events/create.
// The host is always the caller; a host or attendee field is rejected as unknown.
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// Validate implements Validator.
func (req CreateEventRequest) Validate() []string {
	return h.ValidationMessages(validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, maxTitleLen)),
		validation.Field(&req.Description, validation.Length(0, maxDescriptionLen)),
		validation.Field(&req.Date, validation.Required, validation.Length(1, maxDateLen)),
	))
}

// UpdateEventRequest is the request body for PUT /api/events/{id}. All fields are optional;
// omitted or blank title and date keep their current values.
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
}

// Validate implements Validator.
func (req UpdateEventRequest) Validate() []string {
	return h.ValidationMessages(validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Length(0, maxTitleLen)),
		validation.Field(&req.Description, validation.Length(0, maxDescriptionLen)),
		validation.Field(&req.Date, validation.Length(0, maxDateLen)),
	))
}

// EventPayload wraps a single event in the data field.
type EventPayload struct {
	Event *domain.EventDetails `json:"event"`
}

// EventsPayload wraps the event list in the data field.
type EventsPayload struct {
	Events []*domain.EventDetails `json:"events"`
}

// EventSuccessResponse is the success envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  EventPayload `json:"data"`
	Error *h.APIError  `json:"error"`
}

// EventsSuccessResponse is the success envelope for GET /api/events/list.
type EventsSuccessResponse struct {
	Data  EventsPayload `json:"data"`
	Error *h.APIError   `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// eventID reads the {id} path parameter. Anything that is not a UUID cannot name an
// event, so it is answered with 404 before reaching the store.
func eventID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.WriteDomainError(w, domain.ErrEventNotFound)
		return "", false
	}
	return id, true
}

// Create godoc
// @Summary Create an event
// @Description Creates an event hosted by the caller. The caller is its first attendee.
// @Tags events
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 200 {object} controllers.EventSuccessResponse "data.event is the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized or invalid_session"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/create [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Create(r.Context(), userID, req.Title, req.Description, req.Date)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, EventPayload{Event: event})
}

// List godoc
// @Summary List events
// @Description Returns every event with host and attendees expanded to id, username and name.
// @Tags events
// @Produce json
// @Security CookieAuth
// @Success 200 {object} controllers.EventsSuccessResponse "data.events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized or invalid_session"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/list [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerID(w, r); !ok {
		return
	}
	events, err := c.Service.List(r.Context())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, EventsPayload{Events: events})
}

// Get godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Security CookieAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data.event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized or invalid_session"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerID(w, r); !ok {
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	event, err := c.Service.Get(r.Context(), id)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, EventPayload{Event: event})
}

// Update godoc
// @Summary Update an event
// @Description Only the host may update. Blank title or date keep the current value.
// @Tags events
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest false "Fields to update (all optional; an empty body changes nothing)"
// @Success 200 {object} controllers.EventSuccessResponse "data.event is the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized or invalid_session"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not host)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [put]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !h.DecodeOptionalAndValidate(w, r, &req) {
		return
	}
	patch := domain.EventPatch{Title: req.Title, Description: req.Description, Date: req.Date}
	event, err := c.Service.Update(r.Context(), id, userID, patch)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, EventPayload{Event: event})
}

// Delete godoc
// @Summary Delete an event
// @Description Only the host may delete.
// @Tags events
// @Produce json
// @Security CookieAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.SuccessResponse "data.success is true"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized or invalid_session"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not host)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id, userID); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, SuccessPayload{Success: true})
}

// Attend godoc
// @Summary Attend an event
// @Tags events
// @Produce json
// @Security CookieAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data.event includes the caller as attendee"
// @Failure 400 {object} helpers.APIResponse "error.code: conflict (already attending)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized or invalid_session"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/attend [post]
func (c *EventController) Attend(w http.ResponseWriter, r *http.Request) {
	c.membership(w, r, c.Service.Attend)
}

// Unattend godoc
// @Summary Leave an event
// @Description The host cannot leave their own event.
// @Tags events
// @Produce json
// @Security CookieAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data.event without the caller"
// @Failure 400 {object} helpers.APIResponse "error.code: forbidden (host) or conflict (not attending)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized or invalid_session"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/unattend [post]
func (c *EventController) Unattend(w http.ResponseWriter, r *http.Request) {
	c.membership(w, r, c.Service.Unattend)
}

// membership runs attend or unattend. Forbidden is reported as 400 on these routes.
func (c *EventController) membership(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, eventID, callerID string) (*domain.EventDetails, error)) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	event, err := op(r.Context(), id, userID)
	if err != nil {
		if domain.KindOf(err) == domain.KindForbidden {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeForbidden, domain.MessageOf(err))
			return
		}
		writeError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, EventPayload{Event: event})
}
