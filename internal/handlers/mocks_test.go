package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hmorita143/eventchat/internal/models"
	"github.com/hmorita143/eventchat/internal/services"
)

type mockUserService struct {
	CreateFunc     func(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	SearchFunc     func(ctx context.Context, currentUserID uuid.UUID, query string) ([]models.UserSearchResult, error)
}

func (m *mockUserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *mockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserService) Search(ctx context.Context, currentUserID uuid.UUID, query string) ([]models.UserSearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, currentUserID, query)
	}
	return []models.UserSearchResult{}, nil
}

type mockAuthService struct {
	HashPasswordFunc   func(password string) (string, error)
	VerifyPasswordFunc func(hash, password string) bool
}

func (m *mockAuthService) HashPassword(password string) (string, error) {
	if m.HashPasswordFunc != nil {
		return m.HashPasswordFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockAuthService) VerifyPassword(hash, password string) bool {
	if m.VerifyPasswordFunc != nil {
		return m.VerifyPasswordFunc(hash, password)
	}
	return true
}

type mockTokenService struct {
	IssueFunc    func(userID uuid.UUID) (string, error)
	ValidateFunc func(ctx context.Context, token string) (*services.TokenClaims, error)
	RevokeFunc   func(ctx context.Context, tokenID string, expiresAt time.Time) error
}

func (m *mockTokenService) Issue(userID uuid.UUID) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(userID)
	}
	return "token", nil
}

func (m *mockTokenService) Validate(ctx context.Context, token string) (*services.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, token)
	}
	return nil, services.ErrTokenInvalid
}

func (m *mockTokenService) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, tokenID, expiresAt)
	}
	return nil
}

type mockFriendService struct {
	SendRequestFunc func(ctx context.Context, senderID, receiverID uuid.UUID) (*models.FriendRequest, error)
	RespondFunc     func(ctx context.Context, actorID, requestID uuid.UUID, action services.FriendRequestAction) error
	ListPendingFunc func(ctx context.Context, userID uuid.UUID) ([]models.PendingRequest, error)
	ListFriendsFunc func(ctx context.Context, userID uuid.UUID) ([]models.Friend, error)
}

func (m *mockFriendService) SendRequest(ctx context.Context, senderID, receiverID uuid.UUID) (*models.FriendRequest, error) {
	if m.SendRequestFunc != nil {
		return m.SendRequestFunc(ctx, senderID, receiverID)
	}
	return nil, nil
}

func (m *mockFriendService) Respond(ctx context.Context, actorID, requestID uuid.UUID, action services.FriendRequestAction) error {
	if m.RespondFunc != nil {
		return m.RespondFunc(ctx, actorID, requestID, action)
	}
	return nil
}

func (m *mockFriendService) ListPending(ctx context.Context, userID uuid.UUID) ([]models.PendingRequest, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx, userID)
	}
	return []models.PendingRequest{}, nil
}

func (m *mockFriendService) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	if m.ListFriendsFunc != nil {
		return m.ListFriendsFunc(ctx, userID)
	}
	return []models.Friend{}, nil
}

type mockEventService struct {
	CreateFunc          func(ctx context.Context, creatorID uuid.UUID, params models.CreateEventParams, inviteeIDs []uuid.UUID) (*models.Event, error)
	UpdateFunc          func(ctx context.Context, actorID, eventID uuid.UUID, params models.UpdateEventParams) error
	DeleteFunc          func(ctx context.Context, actorID, eventID uuid.UUID) error
	InviteMoreFunc      func(ctx context.Context, eventID uuid.UUID, inviteeIDs []uuid.UUID) error
	RespondToInviteFunc func(ctx context.Context, userID, eventID uuid.UUID, response models.InviteStatus) error
	GetDetailFunc       func(ctx context.Context, eventID uuid.UUID) (*models.EventDetail, error)
	ListUserInvitesFunc func(ctx context.Context, userID uuid.UUID) ([]models.UserInvite, error)
	ListParticipatedFn  func(ctx context.Context, userID uuid.UUID, year int, month time.Month) ([]models.EventSummary, error)
	IsParticipantFunc   func(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	CreateMessageFunc   func(ctx context.Context, eventID, userID uuid.UUID, body string) (*models.Message, error)
}

func (m *mockEventService) Create(ctx context.Context, creatorID uuid.UUID, params models.CreateEventParams, inviteeIDs []uuid.UUID) (*models.Event, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, creatorID, params, inviteeIDs)
	}
	return nil, nil
}

func (m *mockEventService) Update(ctx context.Context, actorID, eventID uuid.UUID, params models.UpdateEventParams) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, actorID, eventID, params)
	}
	return nil
}

func (m *mockEventService) Delete(ctx context.Context, actorID, eventID uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, actorID, eventID)
	}
	return nil
}

func (m *mockEventService) InviteMore(ctx context.Context, eventID uuid.UUID, inviteeIDs []uuid.UUID) error {
	if m.InviteMoreFunc != nil {
		return m.InviteMoreFunc(ctx, eventID, inviteeIDs)
	}
	return nil
}

func (m *mockEventService) RespondToInvite(ctx context.Context, userID, eventID uuid.UUID, response models.InviteStatus) error {
	if m.RespondToInviteFunc != nil {
		return m.RespondToInviteFunc(ctx, userID, eventID, response)
	}
	return nil
}

func (m *mockEventService) GetDetail(ctx context.Context, eventID uuid.UUID) (*models.EventDetail, error) {
	if m.GetDetailFunc != nil {
		return m.GetDetailFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *mockEventService) ListUserInvites(ctx context.Context, userID uuid.UUID) ([]models.UserInvite, error) {
	if m.ListUserInvitesFunc != nil {
		return m.ListUserInvitesFunc(ctx, userID)
	}
	return []models.UserInvite{}, nil
}

func (m *mockEventService) ListParticipated(ctx context.Context, userID uuid.UUID, year int, month time.Month) ([]models.EventSummary, error) {
	if m.ListParticipatedFn != nil {
		return m.ListParticipatedFn(ctx, userID, year, month)
	}
	return []models.EventSummary{}, nil
}

func (m *mockEventService) IsParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	if m.IsParticipantFunc != nil {
		return m.IsParticipantFunc(ctx, eventID, userID)
	}
	return false, nil
}

func (m *mockEventService) CreateMessage(ctx context.Context, eventID, userID uuid.UUID, body string) (*models.Message, error) {
	if m.CreateMessageFunc != nil {
		return m.CreateMessageFunc(ctx, eventID, userID, body)
	}
	return nil, nil
}
