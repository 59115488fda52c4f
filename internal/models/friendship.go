package models

import (
	"time"

	"github.com/google/uuid"
)

type FriendRequestStatus string

const (
	FriendRequestStatusPending  FriendRequestStatus = "pending"
	FriendRequestStatusAccepted FriendRequestStatus = "accepted"
	FriendRequestStatusRejected FriendRequestStatus = "rejected"
)

type FriendRequest struct {
	ID         uuid.UUID           `json:"id"`
	SenderID   uuid.UUID           `json:"sender_id"`
	ReceiverID uuid.UUID           `json:"receiver_id"`
	Status     FriendRequestStatus `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
}

// PendingRequest is a received friend request joined with the sender's name.
type PendingRequest struct {
	FriendRequest
	SenderUsername string `json:"sender_username"`
}

// Friend is one directed row of the friendship edge set, joined with the
// friend's user record. The edge set always holds both directions.
type Friend struct {
	UserID    uuid.UUID `json:"user_id"`
	FriendID  uuid.UUID `json:"friend_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
