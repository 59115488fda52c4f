package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hmorita143/eventchat/internal/models"
)

var (
	ErrSelfRequest = errors.New("cannot send friend request to yourself")
	// ErrRequestExists covers a pending request already held by the
	// sender for the same receiver.
	ErrRequestExists = errors.New("friend request already exists")
	// ErrRequestNotFound is returned both for missing requests and for
	// responders who are not the receiver, so callers cannot probe for
	// the existence of other users' requests.
	ErrRequestNotFound = errors.New("friend request not found")
	ErrInvalidAction   = errors.New("invalid action")
)

type FriendRequestAction string

const (
	FriendRequestAccept FriendRequestAction = "accept"
	FriendRequestReject FriendRequestAction = "reject"
)

type FriendService struct {
	db DBConn
}

func NewFriendService(db DBConn) *FriendService {
	return &FriendService{db: db}
}

// SendRequest creates a pending request from sender to receiver. At most
// one pending request may exist per ordered pair.
func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverID uuid.UUID) (*models.FriendRequest, error) {
	if senderID == receiverID {
		return nil, ErrSelfRequest
	}

	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM friend_requests
			WHERE sender_id = $1 AND receiver_id = $2 AND status = 'pending'
		)`,
		senderID, receiverID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking existing request: %w", err)
	}
	if exists {
		return nil, ErrRequestExists
	}

	request := &models.FriendRequest{}
	err = s.db.QueryRow(ctx,
		`INSERT INTO friend_requests (sender_id, receiver_id, status)
		 VALUES ($1, $2, 'pending')
		 RETURNING id, sender_id, receiver_id, status, created_at`,
		senderID, receiverID,
	).Scan(&request.ID, &request.SenderID, &request.ReceiverID, &request.Status, &request.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating friend request: %w", err)
	}

	return request, nil
}

// Respond accepts or rejects a request. Only the receiver may respond;
// anyone else gets the same not-found error as a missing request.
//
// Accepting writes both directions of the friendship edge in one
// transaction and removes the request. Rejecting removes the request,
// which permits a later re-request.
func (s *FriendService) Respond(ctx context.Context, actorID, requestID uuid.UUID, action FriendRequestAction) error {
	if action != FriendRequestAccept && action != FriendRequestReject {
		return ErrInvalidAction
	}

	request := &models.FriendRequest{}
	err := s.db.QueryRow(ctx,
		`SELECT id, sender_id, receiver_id, status, created_at
		 FROM friend_requests WHERE id = $1`,
		requestID,
	).Scan(&request.ID, &request.SenderID, &request.ReceiverID, &request.Status, &request.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRequestNotFound
	}
	if err != nil {
		return fmt.Errorf("getting friend request: %w", err)
	}

	if request.ReceiverID != actorID {
		return ErrRequestNotFound
	}

	if action == FriendRequestReject {
		if _, err := s.db.Exec(ctx, `DELETE FROM friend_requests WHERE id = $1`, requestID); err != nil {
			return fmt.Errorf("rejecting friend request: %w", err)
		}
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Both directed edges are written together so the symmetry invariant
	// holds at the write boundary. ON CONFLICT keeps accept idempotent.
	_, err = tx.Exec(ctx,
		`INSERT INTO friends (user_id, friend_id)
		 VALUES ($1, $2), ($2, $1)
		 ON CONFLICT (user_id, friend_id) DO NOTHING`,
		request.SenderID, request.ReceiverID,
	)
	if err != nil {
		return fmt.Errorf("writing friendship edges: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM friend_requests WHERE id = $1`, requestID); err != nil {
		return fmt.Errorf("removing accepted request: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing friendship: %w", err)
	}

	return nil
}

// ListPending returns requests awaiting the user's response, in insertion
// order.
func (s *FriendService) ListPending(ctx context.Context, userID uuid.UUID) ([]models.PendingRequest, error) {
	rows, err := s.db.Query(ctx,
		`SELECT r.id, r.sender_id, r.receiver_id, r.status, r.created_at, u.username
		 FROM friend_requests r
		 JOIN users u ON r.sender_id = u.id
		 WHERE r.receiver_id = $1 AND r.status = 'pending'
		 ORDER BY r.created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing pending requests: %w", err)
	}
	defer rows.Close()

	var requests []models.PendingRequest
	for rows.Next() {
		var r models.PendingRequest
		if err := rows.Scan(&r.ID, &r.SenderID, &r.ReceiverID, &r.Status, &r.CreatedAt, &r.SenderUsername); err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing pending requests: %w", err)
	}

	if requests == nil {
		requests = []models.PendingRequest{}
	}

	return requests, nil
}

func (s *FriendService) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	rows, err := s.db.Query(ctx,
		`SELECT f.user_id, f.friend_id, u.username, f.created_at
		 FROM friends f
		 JOIN users u ON f.friend_id = u.id
		 WHERE f.user_id = $1
		 ORDER BY u.username`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}
	defer rows.Close()

	var friends []models.Friend
	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.UserID, &f.FriendID, &f.Username, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning friend: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}

	if friends == nil {
		friends = []models.Friend{}
	}

	return friends, nil
}
