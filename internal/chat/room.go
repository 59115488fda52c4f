package chat

import (
	"github.com/google/uuid"
)

// room is the actor owning one event's live subscriber set. All membership
// changes and broadcasts are commands on its channel, executed serially by
// the run loop, so the subscriber set is only ever touched under the
// actor's exclusive access.
type room struct {
	eventID uuid.UUID
	ops     chan roomOp
}

type roomOp struct {
	join      *Session
	leave     *Session
	broadcast *ServerEvent
	// size, when non-nil, receives the member count after the op.
	size chan int
}

func newRoom(eventID uuid.UUID) *room {
	r := &room{
		eventID: eventID,
		ops:     make(chan roomOp),
	}
	go r.run()
	return r
}

func (r *room) run() {
	members := make(map[*Session]struct{})
	for op := range r.ops {
		switch {
		case op.join != nil:
			members[op.join] = struct{}{}
		case op.leave != nil:
			delete(members, op.leave)
		case op.broadcast != nil:
			for s := range members {
				s.send(*op.broadcast)
			}
		}
		if op.size != nil {
			op.size <- len(members)
		}
	}
}

// stop ends the actor. The hub guarantees no further ops are dispatched.
func (r *room) stop() {
	close(r.ops)
}

func (r *room) add(s *Session) {
	r.ops <- roomOp{join: s}
}

// remove drops the session and reports how many members remain.
func (r *room) remove(s *Session) int {
	size := make(chan int, 1)
	r.ops <- roomOp{leave: s, size: size}
	return <-size
}

func (r *room) publish(ev ServerEvent) {
	r.ops <- roomOp{broadcast: &ev}
}
