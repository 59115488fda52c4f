package models

import (
	"time"

	"github.com/google/uuid"
)

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusRejected InviteStatus = "rejected"
)

type Event struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"event_name"`
	Date         *time.Time `json:"event_date,omitempty"`
	MeetingTime  string     `json:"meeting_time,omitempty"`
	MeetingPlace string     `json:"meeting_place,omitempty"`
	Description  string     `json:"description,omitempty"`
	CreatedBy    uuid.UUID  `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
}

type CreateEventParams struct {
	Name         string
	Date         *time.Time
	MeetingTime  string
	MeetingPlace string
	Description  string
}

// UpdateEventParams carries the mutable event fields. Nil pointers leave
// the stored value untouched.
type UpdateEventParams struct {
	Name         *string
	Date         *time.Time
	MeetingTime  *string
	MeetingPlace *string
	Description  *string
}

type EventInvite struct {
	ID        uuid.UUID    `json:"id"`
	EventID   uuid.UUID    `json:"event_id"`
	UserID    uuid.UUID    `json:"user_id"`
	Status    InviteStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// UserInvite is a pending invite joined with its event summary, as listed
// on the invitee's calendar.
type UserInvite struct {
	EventInvite
	EventName string     `json:"event_name"`
	EventDate *time.Time `json:"event_date,omitempty"`
}

type Participant struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// Invitee is a pending invite as shown in the event detail view.
type Invitee struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// EventDetail is the full event view: record, membership and chat history.
type EventDetail struct {
	Event          Event         `json:"event"`
	CreatorName    string        `json:"creator_name"`
	Participants   []Participant `json:"participants"`
	PendingInvites []Invitee     `json:"pending_invites"`
	Messages       []Message     `json:"messages"`
}

// EventSummary is the calendar month view row.
type EventSummary struct {
	ID   uuid.UUID  `json:"id"`
	Name string     `json:"event_name"`
	Date *time.Time `json:"event_date,omitempty"`
}
