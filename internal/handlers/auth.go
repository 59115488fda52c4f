package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/hmorita143/eventchat/internal/logging"
	"github.com/hmorita143/eventchat/internal/models"
	"github.com/hmorita143/eventchat/internal/services"
)

const accessTokenCookie = "access_token"

type AuthHandler struct {
	userService  services.UserServiceInterface
	authService  services.AuthServiceInterface
	tokenService services.TokenServiceInterface
	tokenTTL     time.Duration
	secure       bool // HTTPS-only cookies
}

func NewAuthHandler(userService services.UserServiceInterface, authService services.AuthServiceInterface, tokenService services.TokenServiceInterface, tokenTTL time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		authService:  authService,
		tokenService: tokenService,
		tokenTTL:     tokenTTL,
		secure:       secure,
	}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User    *models.User `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
	Message string       `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 2 || len(req.Username) > 80 {
		writeError(w, http.StatusBadRequest, "Username must be between 2 and 80 characters")
		return
	}

	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	passwordHash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, services.ErrPasswordTooLong) {
			writeError(w, http.StatusBadRequest, "Password is too long")
			return
		}
		logging.Error("Hashing password failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := h.userService.Create(r.Context(), models.CreateUserParams{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	})
	if errors.Is(err, services.ErrEmailAlreadyExists) {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if errors.Is(err, services.ErrUsernameAlreadyExists) {
		writeError(w, http.StatusBadRequest, "Username already taken")
		return
	}
	if err != nil {
		logging.Error("Creating user failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{User: user, Message: "User registered successfully"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := h.userService.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, services.ErrUserNotFound) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		logging.Error("Getting user failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !h.authService.VerifyPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.tokenService.Issue(user.ID)
	if err != nil {
		logging.Error("Issuing token failed", map[string]interface{}{
			"user_id": user.ID.String(),
			"error":   err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setTokenCookie(w, token)
	writeJSON(w, http.StatusOK, AuthResponse{User: user, Token: token, Message: "Login successful"})
}

// Logout revokes the current token's id so it fails validation until its
// natural expiry, then clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := GetClaimsFromContext(r.Context()); claims != nil {
		if err := h.tokenService.Revoke(r.Context(), claims.TokenID, claims.ExpiresAt); err != nil {
			logging.Error("Revoking token failed", map[string]interface{}{
				"token_id": claims.TokenID,
				"error":    err.Error(),
			})
		}
	}

	h.clearTokenCookie(w)
	writeJSON(w, http.StatusOK, AuthResponse{Message: "Logout successful"})
}

// Me returns the authenticated user, or 404 when the token resolves to
// nobody.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{User: user})
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
