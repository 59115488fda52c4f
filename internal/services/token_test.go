package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	redis := newFakeRedis()
	service := NewTokenService(redis, "test-secret", time.Hour)
	userID := uuid.New()

	token, err := service.Issue(userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := service.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %v, got %v", userID, claims.UserID)
	}
	if claims.TokenID == "" {
		t.Fatal("expected a token id")
	}
	if !claims.ExpiresAt.After(time.Now()) {
		t.Fatal("expected expiry in the future")
	}
}

func TestTokenService_Validate_WrongSecret(t *testing.T) {
	redis := newFakeRedis()
	issuer := NewTokenService(redis, "secret-a", time.Hour)
	validator := NewTokenService(redis, "secret-b", time.Hour)

	token, err := issuer.Issue(uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = validator.Validate(context.Background(), token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_Validate_Garbage(t *testing.T) {
	service := NewTokenService(newFakeRedis(), "test-secret", time.Hour)

	_, err := service.Validate(context.Background(), "not.a.token")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_Validate_Expired(t *testing.T) {
	redis := newFakeRedis()
	service := NewTokenService(redis, "test-secret", -time.Minute)

	token, err := service.Issue(uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = service.Validate(context.Background(), token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_Validate_Revoked(t *testing.T) {
	redis := newFakeRedis()
	service := NewTokenService(redis, "test-secret", time.Hour)

	token, err := service.Issue(uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := service.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := service.Revoke(context.Background(), claims.TokenID, claims.ExpiresAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = service.Validate(context.Background(), token)
	if !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestTokenService_Revoke_TTLMatchesRemainingLifetime(t *testing.T) {
	redis := newFakeRedis()
	service := NewTokenService(redis, "test-secret", time.Hour)

	expiresAt := time.Now().Add(30 * time.Minute)
	if err := service.Revoke(context.Background(), "token-id", expiresAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ttl, ok := redis.ttls["revoked:token-id"]
	if !ok {
		t.Fatal("expected revocation key to be set")
	}
	if ttl <= 0 || ttl > 30*time.Minute {
		t.Fatalf("expected TTL near the token's remaining lifetime, got %v", ttl)
	}
}

func TestTokenService_Revoke_ExpiredTokenSkipped(t *testing.T) {
	redis := newFakeRedis()
	service := NewTokenService(redis, "test-secret", time.Hour)

	if err := service.Revoke(context.Background(), "token-id", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(redis.store) != 0 {
		t.Fatal("expected no revocation key for an already-expired token")
	}
}

func TestTokenService_Revoke_RedisError(t *testing.T) {
	redis := newFakeRedis()
	redis.setErr = errors.New("redis down")
	service := NewTokenService(redis, "test-secret", time.Hour)

	err := service.Revoke(context.Background(), "token-id", time.Now().Add(time.Hour))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestTokenService_Validate_RevocationCheckError(t *testing.T) {
	redis := newFakeRedis()
	service := NewTokenService(redis, "test-secret", time.Hour)

	token, err := service.Issue(uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	redis.getErr = errors.New("redis down")
	_, err = service.Validate(context.Background(), token)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrTokenInvalid) || errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected an infrastructure error, got %v", err)
	}
}

func TestTokenService_Validate_NoneAlgorithmRejected(t *testing.T) {
	service := NewTokenService(newFakeRedis(), "test-secret", time.Hour)

	// Header {"alg":"none","typ":"JWT"} with an arbitrary payload.
	parts := []string{
		"eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0",
		"eyJzdWIiOiJ4In0",
		"",
	}
	_, err := service.Validate(context.Background(), strings.Join(parts, "."))
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
