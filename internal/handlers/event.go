package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hmorita143/eventchat/internal/logging"
	"github.com/hmorita143/eventchat/internal/models"
	"github.com/hmorita143/eventchat/internal/services"
)

type EventHandler struct {
	eventService services.EventServiceInterface
}

func NewEventHandler(eventService services.EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type CreateEventRequest struct {
	Name         string      `json:"event_name"`
	Date         *time.Time  `json:"event_date"`
	MeetingTime  string      `json:"meeting_time"`
	MeetingPlace string      `json:"meeting_place"`
	Description  string      `json:"description"`
	Invitees     []uuid.UUID `json:"invitees"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Event name is required")
		return
	}

	event, err := h.eventService.Create(r.Context(), user.ID, models.CreateEventParams{
		Name:         req.Name,
		Date:         req.Date,
		MeetingTime:  req.MeetingTime,
		MeetingPlace: req.MeetingPlace,
		Description:  req.Description,
	}, req.Invitees)
	if err != nil {
		logging.Error("Creating event failed", map[string]interface{}{
			"user_id": user.ID.String(),
			"error":   err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Failed to create event")
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

type UpdateEventRequest struct {
	Name         *string    `json:"event_name"`
	Date         *time.Time `json:"event_date"`
	MeetingTime  *string    `json:"meeting_time"`
	MeetingPlace *string    `json:"meeting_place"`
	Description  *string    `json:"description"`
}

// Update applies partial edits. Only the creator can update; anyone else
// gets the same 404 as a missing event.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	eventID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	var req UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.eventService.Update(r.Context(), user.ID, eventID, models.UpdateEventParams{
		Name:         req.Name,
		Date:         req.Date,
		MeetingTime:  req.MeetingTime,
		MeetingPlace: req.MeetingPlace,
		Description:  req.Description,
	})
	if errors.Is(err, services.ErrEventNotFound) {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		logging.Error("Updating event failed", map[string]interface{}{
			"user_id":  user.ID.String(),
			"event_id": eventID.String(),
			"error":    err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Event updated successfully"})
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	eventID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	err = h.eventService.Delete(r.Context(), user.ID, eventID)
	if errors.Is(err, services.ErrEventNotFound) {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		logging.Error("Deleting event failed", map[string]interface{}{
			"user_id":  user.ID.String(),
			"event_id": eventID.String(),
			"error":    err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}

type InviteRequest struct {
	Invitees []uuid.UUID `json:"invitees"`
}

// Invite adds pending invites to an existing event. Any authenticated user
// can invite; there is no creator or participant check here.
func (h *EventHandler) Invite(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	eventID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Invitees) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.eventService.InviteMore(r.Context(), eventID, req.Invitees); err != nil {
		logging.Error("Inviting users failed", map[string]interface{}{
			"user_id":  user.ID.String(),
			"event_id": eventID.String(),
			"error":    err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Failed to send invites")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Invites sent"})
}

type RespondToInviteRequest struct {
	EventID  uuid.UUID `json:"event_id"`
	Response string    `json:"response"`
}

func (h *EventHandler) Respond(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req RespondToInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EventID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.eventService.RespondToInvite(r.Context(), user.ID, req.EventID, models.InviteStatus(req.Response))
	if errors.Is(err, services.ErrInvalidResponse) {
		writeError(w, http.StatusBadRequest, "Response must be accepted or rejected")
		return
	}
	if errors.Is(err, services.ErrInviteNotFound) {
		writeError(w, http.StatusNotFound, "Invite not found")
		return
	}
	if err != nil {
		logging.Error("Responding to invite failed", map[string]interface{}{
			"user_id":  user.ID.String(),
			"event_id": req.EventID.String(),
			"error":    err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Invite " + req.Response})
}

func (h *EventHandler) Detail(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	detail, err := h.eventService.GetDetail(r.Context(), eventID)
	if errors.Is(err, services.ErrEventNotFound) {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		logging.Error("Getting event detail failed", map[string]interface{}{
			"event_id": eventID.String(),
			"error":    err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// ParticipatedEvents lists the caller's events for one calendar month.
// Month and year default to the current UTC month when absent.
func (h *EventHandler) ParticipatedEvents(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	now := time.Now().UTC()
	year := now.Year()
	month := now.Month()

	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year")
			return
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, "Invalid month")
			return
		}
		month = time.Month(m)
	}

	events, err := h.eventService.ListParticipated(r.Context(), user.ID, year, month)
	if err != nil {
		logging.Error("Listing participated events failed", map[string]interface{}{
			"user_id": user.ID.String(),
			"error":   err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, events)
}
