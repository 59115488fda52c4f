package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hmorita143/eventchat/internal/models"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

type UserService struct {
	db DBConn
}

func NewUserService(db DBConn) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	var emailTaken, usernameTaken bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1),
		        EXISTS(SELECT 1 FROM users WHERE username = $2)`,
		params.Email, params.Username,
	).Scan(&emailTaken, &usernameTaken)
	if err != nil {
		return nil, fmt.Errorf("checking user existence: %w", err)
	}
	if emailTaken {
		return nil, ErrEmailAlreadyExists
	}
	if usernameTaken {
		return nil, ErrUsernameAlreadyExists
	}

	user := &models.User{}
	err = s.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, username, email, password_hash, created_at`,
		params.Username, params.Email, params.PasswordHash,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by id: %w", err)
	}

	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}

	return user, nil
}

// Search matches username or email, excluding the caller and anyone the
// caller is already friends with.
func (s *UserService) Search(ctx context.Context, currentUserID uuid.UUID, query string) ([]models.UserSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.UserSearchResult{}, nil
	}

	pattern := "%" + strings.ToLower(query) + "%"

	rows, err := s.db.Query(ctx,
		`SELECT id, username, email FROM users
		 WHERE id != $1
		   AND (LOWER(username) LIKE $2 OR LOWER(email) LIKE $2)
		   AND NOT EXISTS (
		     SELECT 1 FROM friends
		     WHERE user_id = $1 AND friend_id = users.id
		   )
		 ORDER BY username
		 LIMIT 20`,
		currentUserID, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	defer rows.Close()

	var results []models.UserSearchResult
	for rows.Next() {
		var u models.UserSearchResult
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		results = append(results, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}

	if results == nil {
		results = []models.UserSearchResult{}
	}

	return results, nil
}
