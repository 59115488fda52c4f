package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/hmorita143/eventchat/internal/logging"
	"github.com/hmorita143/eventchat/internal/services"
)

type FriendHandler struct {
	friendService services.FriendServiceInterface
}

func NewFriendHandler(friendService services.FriendServiceInterface) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

type SendRequestRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id"`
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req SendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ReceiverID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	request, err := h.friendService.SendRequest(r.Context(), user.ID, req.ReceiverID)
	if errors.Is(err, services.ErrSelfRequest) {
		writeError(w, http.StatusBadRequest, "Cannot send a friend request to yourself")
		return
	}
	if errors.Is(err, services.ErrRequestExists) {
		writeError(w, http.StatusBadRequest, "Friend request already sent")
		return
	}
	if err != nil {
		logging.Error("Sending friend request failed", map[string]interface{}{
			"user_id": user.ID.String(),
			"error":   err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, request)
}

func (h *FriendHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	requests, err := h.friendService.ListPending(r.Context(), user.ID)
	if err != nil {
		logging.Error("Listing friend requests failed", map[string]interface{}{
			"user_id": user.ID.String(),
			"error":   err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

type RespondRequest struct {
	Action string `json:"action"`
}

// Respond handles POST /friend/requests/{id}. Unauthorized responders and
// missing requests get the same 400 so request existence is not leaked.
func (h *FriendHandler) Respond(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	requestID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.friendService.Respond(r.Context(), user.ID, requestID, services.FriendRequestAction(req.Action))
	if errors.Is(err, services.ErrInvalidAction) {
		writeError(w, http.StatusBadRequest, "Invalid action")
		return
	}
	if errors.Is(err, services.ErrRequestNotFound) {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err != nil {
		logging.Error("Responding to friend request failed", map[string]interface{}{
			"user_id":    user.ID.String(),
			"request_id": requestID.String(),
			"error":      err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Request " + req.Action + "ed"})
}
