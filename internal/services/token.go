package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const revokedKeyPrefix = "revoked:"

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)

// TokenClaims is the identity carried by a validated access token.
type TokenClaims struct {
	UserID    uuid.UUID
	TokenID   string
	ExpiresAt time.Time
}

// TokenService issues signed access tokens and tracks revocation.
//
// Revoked token ids live in Redis with a TTL equal to the token's remaining
// lifetime, so the set stays bounded and survives process restarts.
type TokenService struct {
	redis  RedisConn
	secret []byte
	ttl    time.Duration
}

func NewTokenService(redis RedisConn, secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		redis:  redis,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token embedding the user's identity, a unique token id and
// an expiry.
func (s *TokenService) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Validate checks signature and expiry, then rejects tokens whose id is in
// the revoked set.
func (s *TokenService) Validate(ctx context.Context, tokenString string) (*TokenClaims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrTokenExpired
	}
	if err != nil {
		return nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}

	_, err = s.redis.Get(ctx, revokedKeyPrefix+claims.ID)
	if err == nil {
		return nil, ErrTokenRevoked
	}
	if !errors.Is(err, ErrCacheMiss) {
		return nil, fmt.Errorf("checking revocation: %w", err)
	}

	return &TokenClaims{
		UserID:    userID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke marks a token id unusable until its natural expiry. Idempotent;
// already-expired tokens are skipped.
func (s *TokenService) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	remaining := time.Until(expiresAt)
	if remaining <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, revokedKeyPrefix+tokenID, "1", remaining); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}
