package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/hmorita143/eventchat/internal/models"
)

func assertErrorResponse(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected status %d, got %d. Body: %s", status, rr.Code, rr.Body.String())
	}
	if ct := rr.Result().Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected content type application/json, got %q", ct)
	}

	var response ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Error != message {
		t.Fatalf("expected error %q, got %q", message, response.Error)
	}
}

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
	}
}

// withUser attaches an authenticated user to the request context the way
// the auth middleware would.
func withUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(SetUserInContext(r.Context(), user))
}
