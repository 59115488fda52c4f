package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hmorita143/eventchat/internal/logging"
	"github.com/hmorita143/eventchat/internal/models"
)

// ParticipantChecker is the authorization predicate for chat access: a
// user may act in an event's room only while holding a participant row.
type ParticipantChecker interface {
	IsParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

// MessageStore persists chat lines. Persistence must commit before any
// broadcast is observed.
type MessageStore interface {
	CreateMessage(ctx context.Context, eventID, userID uuid.UUID, body string) (*models.Message, error)
}

// Hub routes gateway operations to per-event room actors.
type Hub struct {
	auth   ParticipantChecker
	store  MessageStore
	logger *logging.Logger

	mu     sync.Mutex
	rooms  map[uuid.UUID]*room
	joined map[*Session]map[uuid.UUID]struct{}
}

func NewHub(auth ParticipantChecker, store MessageStore, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default
	}
	return &Hub{
		auth:   auth,
		store:  store,
		logger: logger,
		rooms:  make(map[uuid.UUID]*room),
		joined: make(map[*Session]map[uuid.UUID]struct{}),
	}
}

// Join adds the session to the event's room after the participant check
// and announces the join to every member, the joiner included. Denials go
// to the caller only.
func (h *Hub) Join(ctx context.Context, s *Session, eventID uuid.UUID) {
	ok, err := h.auth.IsParticipant(ctx, eventID, s.UserID)
	if err != nil {
		h.logger.Error("participant check failed", map[string]interface{}{
			"event_id": eventID.String(),
			"user_id":  s.UserID.String(),
			"error":    err.Error(),
		})
		s.send(errorEvent("failed to join event chat"))
		return
	}
	if !ok {
		s.send(errorEvent("you are not a participant of this event"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	r, exists := h.rooms[eventID]
	if !exists {
		r = newRoom(eventID)
		h.rooms[eventID] = r
	}
	r.add(s)

	if h.joined[s] == nil {
		h.joined[s] = make(map[uuid.UUID]struct{})
	}
	h.joined[s][eventID] = struct{}{}

	r.publish(noticeEvent(s.Username, fmt.Sprintf("%s has joined the chat.", s.Username)))
}

// SendMessage authorizes, persists, then broadcasts. The message row is
// committed before any member sees the broadcast; on persistence failure
// only the caller hears about it.
func (h *Hub) SendMessage(ctx context.Context, s *Session, eventID uuid.UUID, text string) {
	if text == "" {
		s.send(errorEvent("message cannot be empty"))
		return
	}

	ok, err := h.auth.IsParticipant(ctx, eventID, s.UserID)
	if err != nil {
		h.logger.Error("participant check failed", map[string]interface{}{
			"event_id": eventID.String(),
			"user_id":  s.UserID.String(),
			"error":    err.Error(),
		})
		s.send(errorEvent("failed to send message"))
		return
	}
	if !ok {
		s.send(errorEvent("you are not a participant of this event"))
		return
	}

	message, err := h.store.CreateMessage(ctx, eventID, s.UserID, text)
	if err != nil {
		h.logger.Error("persisting message failed", map[string]interface{}{
			"event_id": eventID.String(),
			"user_id":  s.UserID.String(),
			"error":    err.Error(),
		})
		s.send(errorEvent("failed to send message"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	r, exists := h.rooms[eventID]
	if !exists {
		return
	}

	// Broadcast timestamps are taken here, independently of the stored
	// row's own timestamp.
	r.publish(ServerEvent{Type: TypeReceiveMessage, Data: MessagePayload{
		ID:        &message.ID,
		User:      message.Username,
		Message:   message.Body,
		Timestamp: time.Now().UTC(),
	}})
}

// Leave removes the session from the room and announces the departure.
// There is no membership check here; any connected identity can trigger a
// leave notice for any live room.
func (h *Hub) Leave(ctx context.Context, s *Session, eventID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, exists := h.rooms[eventID]
	if !exists {
		return
	}

	remaining := r.remove(s)
	if set := h.joined[s]; set != nil {
		delete(set, eventID)
		if len(set) == 0 {
			delete(h.joined, s)
		}
	}

	if remaining == 0 {
		r.stop()
		delete(h.rooms, eventID)
		return
	}

	r.publish(noticeEvent(s.Username, fmt.Sprintf("%s has left the chat.", s.Username)))
}

// Disconnect releases all room memberships held by the session. Called by
// the transport when the connection drops.
func (h *Hub) Disconnect(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for eventID := range h.joined[s] {
		if r, exists := h.rooms[eventID]; exists {
			if r.remove(s) == 0 {
				r.stop()
				delete(h.rooms, eventID)
			}
		}
	}
	delete(h.joined, s)
	s.Close()
}

// SendError delivers an error frame to one session only. Used by the
// transport for frames it cannot dispatch.
func (h *Hub) SendError(s *Session, message string) {
	s.send(errorEvent(message))
}

// RoomCount reports the number of live rooms.
func (h *Hub) RoomCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}
