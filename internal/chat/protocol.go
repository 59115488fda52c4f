package chat

import (
	"time"

	"github.com/google/uuid"
)

// Client-to-server event types.
const (
	TypeJoinEventChat = "join_event_chat"
	TypeSendMessage   = "send_message"
	TypeLeaveRoom     = "leave_room"
)

// Server-to-client event types.
const (
	TypeReceiveMessage = "receive_message"
	TypeError          = "error"
)

// ClientEvent is one frame sent by a connected client.
type ClientEvent struct {
	Type    string `json:"type"`
	EventID string `json:"event_id"`
	Message string `json:"message,omitempty"`
}

// ServerEvent is one frame delivered to a session. Error events go to the
// originating session only; receive_message events go room-wide.
type ServerEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// MessagePayload is the receive_message body. ID is set only for persisted
// chat lines, not for join/leave notices.
type MessagePayload struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	User      string     `json:"user"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
}

// ErrorPayload is the error body, delivered to the caller only.
type ErrorPayload struct {
	Message string `json:"message"`
}

func errorEvent(message string) ServerEvent {
	return ServerEvent{Type: TypeError, Data: ErrorPayload{Message: message}}
}

func noticeEvent(username, text string) ServerEvent {
	return ServerEvent{Type: TypeReceiveMessage, Data: MessagePayload{
		User:      username,
		Message:   text,
		Timestamp: time.Now().UTC(),
	}}
}
