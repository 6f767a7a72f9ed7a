package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ms-storefront/internal/auth"
)

const testJWTSecret = "test-jwt-secret"

func signedUserToken(t *testing.T, userID string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return s
}

func TestExtractTokenFromRequest(t *testing.T) {
	// Bearer header wins
	req := httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: auth.AccessCookie, Value: "cookie-token"})

	token, err := auth.ExtractTokenFromRequest(req)
	if err != nil {
		t.Fatalf("Expected token, got %v", err)
	}
	if token != "header-token" {
		t.Errorf("Expected header token to win, got %s", token)
	}

	// Cookie fallback
	req = httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessCookie, Value: "cookie-token"})

	token, err = auth.ExtractTokenFromRequest(req)
	if err != nil {
		t.Fatalf("Expected token, got %v", err)
	}
	if token != "cookie-token" {
		t.Errorf("Expected cookie token, got %s", token)
	}

	// Neither present
	req = httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
	if _, err := auth.ExtractTokenFromRequest(req); err == nil {
		t.Error("Expected error with no token in request")
	}

	// Malformed header
	req = httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
	req.Header.Set("Authorization", "just-a-token")
	if _, err := auth.ExtractTokenFromRequest(req); err == nil {
		t.Error("Expected error for malformed Authorization header")
	}
}

func TestVerifyToken(t *testing.T) {
	valid := signedUserToken(t, "user-1", time.Now().Add(time.Hour))

	userID, err := auth.VerifyToken(valid, testJWTSecret)
	if err != nil {
		t.Fatalf("Expected valid token to verify, got %v", err)
	}
	if userID != "user-1" {
		t.Errorf("Expected subject user-1, got %s", userID)
	}

	if _, err := auth.VerifyToken(valid, "other-secret"); err == nil {
		t.Error("Expected verification with the wrong secret to fail")
	}

	expired := signedUserToken(t, "user-1", time.Now().Add(-time.Minute))
	if _, err := auth.VerifyToken(expired, testJWTSecret); err == nil {
		t.Error("Expected expired token to fail verification")
	}

	if _, err := auth.VerifyToken("", testJWTSecret); err == nil {
		t.Error("Expected empty token to fail verification")
	}
}

func TestMiddlewareSetsUserID(t *testing.T) {
	middleware := auth.Middleware(testJWTSecret)

	var gotUserID string
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = auth.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// Unauthenticated request is rejected
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tickets", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a session, got %d", rec.Code)
	}

	// Session cookie authenticates
	req := httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessCookie, Value: signedUserToken(t, "user-1", time.Now().Add(time.Hour))})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if gotUserID != "user-1" {
		t.Errorf("Expected user id user-1 in context, got %q", gotUserID)
	}
}
