package chat

import (
	"sync"

	"github.com/google/uuid"
)

// sessionBuffer is the outbound queue depth per session. Sessions that fall
// this far behind start losing frames rather than stalling the room.
const sessionBuffer = 64

// Session is one connected identity. The transport (websocket or test)
// drains Events until Done is closed.
type Session struct {
	UserID   uuid.UUID
	Username string

	events chan ServerEvent
	done   chan struct{}
	once   sync.Once
}

func NewSession(userID uuid.UUID, username string) *Session {
	return &Session{
		UserID:   userID,
		Username: username,
		events:   make(chan ServerEvent, sessionBuffer),
		done:     make(chan struct{}),
	}
}

// Events is the outbound frame stream for this session.
func (s *Session) Events() <-chan ServerEvent {
	return s.events
}

// Done is closed when the session is shut down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close shuts the session down. Idempotent.
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

// send queues a frame without blocking. Frames to closed or backed-up
// sessions are dropped; the room must never stall on one subscriber.
func (s *Session) send(ev ServerEvent) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}
