package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
)

// MockProvider stands in for the hosted identity service.

type MockProvider struct {
	users        map[string]string // email -> password
	profiles     map[string]*models.Profile
	phonePatches map[string]string
	shouldFailOn string
	providerMsg  string
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		users:        map[string]string{"jane@example.com": "secret123"},
		profiles:     map[string]*models.Profile{"user-1": {ID: "user-1", Name: "Jane Wanjiku", Email: "jane@example.com"}},
		phonePatches: make(map[string]string),
	}
}

func (m *MockProvider) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	if m.shouldFailOn == "SignInWithPassword" {
		return nil, &auth.ProviderError{Status: http.StatusBadRequest, Message: m.providerMsg}
	}
	if m.users[email] != password {
		return nil, &auth.ProviderError{Status: http.StatusBadRequest, Message: "Invalid login credentials"}
	}
	return &models.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresIn:    3600,
		User:         models.AuthUser{ID: "user-1", Email: email},
	}, nil
}

func (m *MockProvider) AdminCreateUser(ctx context.Context, email, password, name, phone string) (*models.AuthUser, error) {
	if m.shouldFailOn == "AdminCreateUser" {
		return nil, &auth.ProviderError{Status: http.StatusUnprocessableEntity, Message: m.providerMsg}
	}
	return &models.AuthUser{ID: "user-2", Email: email}, nil
}

func (m *MockProvider) GenerateSignupLink(ctx context.Context, email string) (string, error) {
	if m.shouldFailOn == "GenerateSignupLink" {
		return "", errors.New("link generation failed")
	}
	return "signup-access-token", nil
}

func (m *MockProvider) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if m.shouldFailOn == "GetProfile" {
		return nil, errors.New("profile row missing")
	}
	profile, exists := m.profiles[userID]
	if !exists {
		return nil, errors.New("profile row missing")
	}
	return profile, nil
}

func (m *MockProvider) UpdateProfilePhone(ctx context.Context, userID, phone string) error {
	if m.shouldFailOn == "UpdateProfilePhone" {
		return errors.New("patch failed")
	}
	m.phonePatches[userID] = phone
	return nil
}

func newAuthHandler(provider *MockProvider) *auth.Handler {
	return auth.NewHandler(provider, logger.NewLogger())
}

func postJSON(handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return body
}

func TestLoginPreflightAndMethods(t *testing.T) {
	handler := newAuthHandler(NewMockProvider())

	// OPTIONS gets 200 with CORS headers
	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for OPTIONS, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected permissive CORS origin header")
	}
	if rec.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Error("Expected CORS allowed headers")
	}

	// Anything but POST gets 405
	req = httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	rec = httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS headers even on rejected methods")
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	handler := newAuthHandler(NewMockProvider())

	rec := postJSON(handler.Login, models.LoginRequest{Email: "", Password: ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty credentials, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["error"] != "Email and password are required" {
		t.Errorf("Unexpected error message: %v", body["error"])
	}
}

func TestLoginWrongPassword(t *testing.T) {
	handler := newAuthHandler(NewMockProvider())

	rec := postJSON(handler.Login, models.LoginRequest{Email: "jane@example.com", Password: "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong password, got %d", rec.Code)
	}

	// The provider's message passes through verbatim
	body := decodeBody(t, rec)
	if body["error"] != "Invalid login credentials" {
		t.Errorf("Unexpected error message: %v", body["error"])
	}

	if len(rec.Result().Cookies()) != 0 {
		t.Error("Expected no session cookies on failed login")
	}
}

func TestLoginMissingProfile(t *testing.T) {
	provider := NewMockProvider()
	provider.shouldFailOn = "GetProfile"
	handler := newAuthHandler(provider)

	rec := postJSON(handler.Login, models.LoginRequest{Email: "jane@example.com", Password: "secret123"})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 when profile lookup fails, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["error"] != "Failed to fetch user profile" {
		t.Errorf("Unexpected error message: %v", body["error"])
	}

	if len(rec.Result().Cookies()) != 0 {
		t.Error("Expected no session cookies when profile lookup fails")
	}
}

func TestLoginSuccess(t *testing.T) {
	handler := newAuthHandler(NewMockProvider())

	rec := postJSON(handler.Login, models.LoginRequest{Email: "jane@example.com", Password: "secret123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	access := cookieByName(rec, auth.AccessCookie)
	if access == nil {
		t.Fatal("Expected access token cookie")
	}
	if access.Value != "access-token" {
		t.Errorf("Unexpected access cookie value: %s", access.Value)
	}
	if !access.HttpOnly || !access.Secure || access.SameSite != http.SameSiteStrictMode {
		t.Error("Expected HttpOnly, Secure, SameSite=Strict access cookie")
	}
	if access.MaxAge != 3600 {
		t.Errorf("Expected access cookie MaxAge 3600, got %d", access.MaxAge)
	}

	refresh := cookieByName(rec, auth.RefreshCookie)
	if refresh == nil {
		t.Fatal("Expected refresh token cookie")
	}
	if refresh.MaxAge != 7*24*3600 {
		t.Errorf("Expected refresh cookie MaxAge of 7 days, got %d", refresh.MaxAge)
	}

	body := decodeBody(t, rec)
	if body["message"] != "Login successful" {
		t.Errorf("Unexpected message: %v", body["message"])
	}
	user, ok := body["user"].(map[string]interface{})
	if !ok || user["name"] != "Jane Wanjiku" {
		t.Errorf("Expected profile in response, got %v", body["user"])
	}
}

func TestRegisterRequiresFields(t *testing.T) {
	handler := newAuthHandler(NewMockProvider())

	cases := []models.RegisterRequest{
		{Email: "", Password: "pw", Name: "Jane"},
		{Email: "a@b.c", Password: "", Name: "Jane"},
		{Email: "a@b.c", Password: "pw", Name: ""},
	}
	for _, req := range cases {
		rec := postJSON(handler.Register, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for %+v, got %d", req, rec.Code)
		}
	}
}

func TestRegisterProviderRejection(t *testing.T) {
	provider := NewMockProvider()
	provider.shouldFailOn = "AdminCreateUser"
	provider.providerMsg = "User already registered"
	handler := newAuthHandler(provider)

	rec := postJSON(handler.Register, models.RegisterRequest{Email: "jane@example.com", Password: "pw", Name: "Jane"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for provider rejection, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["error"] != "User already registered" {
		t.Errorf("Expected provider message verbatim, got %v", body["error"])
	}
}

func TestRegisterSuccess(t *testing.T) {
	provider := NewMockProvider()
	handler := newAuthHandler(provider)

	rec := postJSON(handler.Register, models.RegisterRequest{
		Email:    "brian@example.com",
		Password: "pw123456",
		Name:     "Brian Otieno",
		Phone:    "+254700000002",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	access := cookieByName(rec, auth.AccessCookie)
	if access == nil {
		t.Fatal("Expected access token cookie")
	}
	if access.Value != "signup-access-token" {
		t.Errorf("Unexpected access cookie value: %s", access.Value)
	}

	// The signup sign-in artifact carries no refresh token
	if refresh := cookieByName(rec, auth.RefreshCookie); refresh != nil {
		t.Error("Expected no refresh cookie on registration")
	}

	if provider.phonePatches["user-2"] != "+254700000002" {
		t.Error("Expected the profile phone to be patched")
	}

	body := decodeBody(t, rec)
	if body["message"] != "Registration successful" {
		t.Errorf("Unexpected message: %v", body["message"])
	}
}

func TestRegisterPhonePatchFailureIsNonFatal(t *testing.T) {
	provider := NewMockProvider()
	provider.shouldFailOn = "UpdateProfilePhone"
	handler := newAuthHandler(provider)

	rec := postJSON(handler.Register, models.RegisterRequest{
		Email:    "brian@example.com",
		Password: "pw123456",
		Name:     "Brian Otieno",
		Phone:    "+254700000002",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("Expected registration to succeed despite phone patch failure, got %d", rec.Code)
	}
}
