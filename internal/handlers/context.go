package handlers

import (
	"context"

	"github.com/hmorita143/eventchat/internal/models"
	"github.com/hmorita143/eventchat/internal/services"
)

type contextKey string

const (
	userContextKey   contextKey = "user"
	claimsContextKey contextKey = "token_claims"
)

func SetUserInContext(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

func SetClaimsInContext(ctx context.Context, claims *services.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func GetClaimsFromContext(ctx context.Context) *services.TokenClaims {
	claims, _ := ctx.Value(claimsContextKey).(*services.TokenClaims)
	return claims
}
