package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hmorita143/eventchat/internal/models"
)

func TestUserService_Create_EmailExists(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return rowFromValues(true, false)
		},
	}

	service := NewUserService(db)
	_, err := service.Create(context.Background(), models.CreateUserParams{
		Username:     "user",
		Email:        "exists@example.com",
		PasswordHash: "hash",
	})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestUserService_Create_UsernameExists(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return rowFromValues(false, true)
		},
	}

	service := NewUserService(db)
	_, err := service.Create(context.Background(), models.CreateUserParams{
		Username:     "exists",
		Email:        "new@example.com",
		PasswordHash: "hash",
	})
	if !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Fatalf("expected ErrUsernameAlreadyExists, got %v", err)
	}
}

func TestUserService_Create_ExistenceCheckError(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return fakeRow{scanFunc: func(dest ...any) error {
				return errors.New("boom")
			}}
		},
	}

	service := NewUserService(db)
	_, err := service.Create(context.Background(), models.CreateUserParams{
		Username:     "user",
		Email:        "test@example.com",
		PasswordHash: "hash",
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestUserService_Create_Success(t *testing.T) {
	call := 0
	now := time.Now()
	userID := uuid.New()
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			call++
			if call == 1 {
				return rowFromValues(false, false)
			}
			return rowFromValues(userID, "user", "test@example.com", "hash", now)
		},
	}

	service := NewUserService(db)
	user, err := service.Create(context.Background(), models.CreateUserParams{
		Username:     "user",
		Email:        "test@example.com",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != userID {
		t.Fatalf("expected user id %v, got %v", userID, user.ID)
	}
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return fakeRow{scanFunc: func(dest ...any) error {
				return pgx.ErrNoRows
			}}
		},
	}

	service := NewUserService(db)
	_, err := service.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_GetByEmail_NotFound(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return fakeRow{scanFunc: func(dest ...any) error {
				return pgx.ErrNoRows
			}}
		},
	}

	service := NewUserService(db)
	_, err := service.GetByEmail(context.Background(), "missing@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_GetByEmail_Success(t *testing.T) {
	now := time.Now()
	userID := uuid.New()
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return rowFromValues(userID, "user", "test@example.com", "hash", now)
		},
	}

	service := NewUserService(db)
	user, err := service.GetByEmail(context.Background(), "test@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != userID {
		t.Fatalf("expected user id %v, got %v", userID, user.ID)
	}
}

func TestUserService_Search_EmptyQuery(t *testing.T) {
	queried := false
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			queried = true
			return &fakeRows{}, nil
		},
	}

	service := NewUserService(db)
	results, err := service.Search(context.Background(), uuid.New(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
	if queried {
		t.Fatal("blank query should not hit the database")
	}
}

func TestUserService_Search_Success(t *testing.T) {
	aliceID := uuid.New()
	bobID := uuid.New()
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			return &fakeRows{rows: [][]any{
				{aliceID, "alice", "alice@example.com"},
				{bobID, "bob", "bob@example.com"},
			}}, nil
		},
	}

	service := NewUserService(db)
	results, err := service.Search(context.Background(), uuid.New(), "example")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Username != "alice" {
		t.Fatalf("expected alice first, got %s", results[0].Username)
	}
}

func TestUserService_Search_NoMatches(t *testing.T) {
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			return &fakeRows{}, nil
		},
	}

	service := NewUserService(db)
	results, err := service.Search(context.Background(), uuid.New(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestUserService_Search_QueryError(t *testing.T) {
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			return nil, errors.New("boom")
		},
	}

	service := NewUserService(db)
	_, err := service.Search(context.Background(), uuid.New(), "alice")
	if err == nil {
		t.Fatal("expected error")
	}
}
