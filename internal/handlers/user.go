package handlers

import (
	"net/http"

	"github.com/hmorita143/eventchat/internal/logging"
	"github.com/hmorita143/eventchat/internal/services"
)

type UserHandler struct {
	userService   services.UserServiceInterface
	friendService services.FriendServiceInterface
	eventService  services.EventServiceInterface
}

func NewUserHandler(userService services.UserServiceInterface, friendService services.FriendServiceInterface, eventService services.EventServiceInterface) *UserHandler {
	return &UserHandler{
		userService:   userService,
		friendService: friendService,
		eventService:  eventService,
	}
}

// Search matches users by username or email, excluding the caller and
// existing friends.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	results, err := h.userService.Search(r.Context(), user.ID, r.URL.Query().Get("query"))
	if err != nil {
		logging.Error("Searching users failed", map[string]interface{}{
			"user_id": user.ID.String(),
			"error":   err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *UserHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	friends, err := h.friendService.ListFriends(r.Context(), user.ID)
	if err != nil {
		logging.Error("Listing friends failed", map[string]interface{}{
			"user_id": user.ID.String(),
			"error":   err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, friends)
}

func (h *UserHandler) ListEventInvites(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	invites, err := h.eventService.ListUserInvites(r.Context(), user.ID)
	if err != nil {
		logging.Error("Listing event invites failed", map[string]interface{}{
			"user_id": user.ID.String(),
			"error":   err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, invites)
}
