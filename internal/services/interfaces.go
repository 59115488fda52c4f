package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hmorita143/eventchat/internal/models"
)

// UserServiceInterface defines the contract for user operations.
type UserServiceInterface interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Search(ctx context.Context, currentUserID uuid.UUID, query string) ([]models.UserSearchResult, error)
}

// AuthServiceInterface defines the contract for credential operations.
type AuthServiceInterface interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hash, password string) bool
}

// TokenServiceInterface defines the contract for the token registry.
type TokenServiceInterface interface {
	Issue(userID uuid.UUID) (string, error)
	Validate(ctx context.Context, token string) (*TokenClaims, error)
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// FriendServiceInterface defines the contract for social graph operations.
type FriendServiceInterface interface {
	SendRequest(ctx context.Context, senderID, receiverID uuid.UUID) (*models.FriendRequest, error)
	Respond(ctx context.Context, actorID, requestID uuid.UUID, action FriendRequestAction) error
	ListPending(ctx context.Context, userID uuid.UUID) ([]models.PendingRequest, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error)
}

// EventServiceInterface defines the contract for the event directory.
type EventServiceInterface interface {
	Create(ctx context.Context, creatorID uuid.UUID, params models.CreateEventParams, inviteeIDs []uuid.UUID) (*models.Event, error)
	Update(ctx context.Context, actorID, eventID uuid.UUID, params models.UpdateEventParams) error
	Delete(ctx context.Context, actorID, eventID uuid.UUID) error
	InviteMore(ctx context.Context, eventID uuid.UUID, inviteeIDs []uuid.UUID) error
	RespondToInvite(ctx context.Context, userID, eventID uuid.UUID, response models.InviteStatus) error
	GetDetail(ctx context.Context, eventID uuid.UUID) (*models.EventDetail, error)
	ListUserInvites(ctx context.Context, userID uuid.UUID) ([]models.UserInvite, error)
	ListParticipated(ctx context.Context, userID uuid.UUID, year int, month time.Month) ([]models.EventSummary, error)
	IsParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	CreateMessage(ctx context.Context, eventID, userID uuid.UUID, body string) (*models.Message, error)
}
