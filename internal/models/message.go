package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is one persisted chat line. Rows are immutable and totally
// ordered by CreatedAt ascending within an event.
type Message struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"timestamp"`
}
