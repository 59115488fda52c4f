package middleware

import (
	"net/http"
	"strings"

	"github.com/hmorita143/eventchat/internal/handlers"
	"github.com/hmorita143/eventchat/internal/services"
)

const accessTokenCookie = "access_token"

type AuthMiddleware struct {
	tokenService services.TokenServiceInterface
	userService  services.UserServiceInterface
}

func NewAuthMiddleware(tokenService services.TokenServiceInterface, userService services.UserServiceInterface) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		userService:  userService,
	}
}

// Authenticate validates the access token and loads the user into context.
// Requests without a valid token continue unauthenticated.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.tokenService.Validate(r.Context(), token)
		if err != nil {
			// Invalid, expired or revoked token; continue without user.
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.userService.GetByID(r.Context(), claims.UserID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := handlers.SetUserInContext(r.Context(), user)
		ctx = handlers.SetClaimsInContext(ctx, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects unauthenticated requests with 401.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handlers.GetUserFromContext(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Authentication required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractToken resolves the access token from the cookie, the
// Authorization header, or the query string (websocket handshakes cannot
// set headers from browsers).
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	return r.URL.Query().Get("token")
}
