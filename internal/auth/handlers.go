package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
)

// Provider is the external identity service the edge handlers delegate to.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	AdminCreateUser(ctx context.Context, email, password, name, phone string) (*models.AuthUser, error)
	GenerateSignupLink(ctx context.Context, email string) (string, error)
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfilePhone(ctx context.Context, userID, phone string) error
}

// Handler implements the login/register edge contract: POST with a JSON
// body, permissive CORS, 405 for other methods, session cookies on success.
type Handler struct {
	Provider Provider
	Logger   *logger.Logger
}

func NewHandler(provider Provider, log *logger.Logger) *Handler {
	return &Handler{Provider: provider, Logger: log}
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
}

// preflight answers OPTIONS with 200 and enforces POST-only otherwise,
// reporting whether the handler should continue.
func (h *Handler) preflight(w http.ResponseWriter, r *http.Request) bool {
	setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return false
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// Login verifies credentials against the provider, fetches the matching
// profile row, and sets the access/refresh session cookies.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.preflight(w, r) {
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	session, err := h.Provider.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		var providerErr *ProviderError
		if errors.As(err, &providerErr) {
			h.Logger.LogAuth("LOGIN_REJECTED", fmt.Sprintf("%s: %s", req.Email, providerErr.Message))
			h.writeError(w, http.StatusUnauthorized, providerErr.Message)
			return
		}
		h.Logger.Error("AUTH", fmt.Sprintf("Login: provider call failed: %v", err))
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The caller now holds a valid provider session; a missing profile row is
	// an inconsistency that must be surfaced, not papered over.
	profile, err := h.Provider.GetProfile(r.Context(), session.User.ID)
	if err != nil {
		h.Logger.Error("AUTH", fmt.Sprintf("Login: profile lookup failed for %s: %v", session.User.ID, err))
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch user profile")
		return
	}

	SetSessionCookies(w, session.AccessToken, session.RefreshToken)
	h.Logger.LogAuth("LOGIN", req.Email)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    profile,
		"message": "Login successful",
	})
}

// Register creates a pre-verified identity, patches the profile phone when
// supplied, and sets an access-session cookie. No refresh cookie is issued
// here: the signup sign-in artifact carries no refresh token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.preflight(w, r) {
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "Email, password, and name are required")
		return
	}

	user, err := h.Provider.AdminCreateUser(r.Context(), req.Email, req.Password, req.Name, req.Phone)
	if err != nil {
		var providerErr *ProviderError
		if errors.As(err, &providerErr) {
			h.Logger.LogAuth("REGISTER_REJECTED", fmt.Sprintf("%s: %s", req.Email, providerErr.Message))
			h.writeError(w, http.StatusBadRequest, providerErr.Message)
			return
		}
		h.Logger.Error("AUTH", fmt.Sprintf("Register: provider call failed: %v", err))
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.Phone != "" {
		if err := h.Provider.UpdateProfilePhone(r.Context(), user.ID, req.Phone); err != nil {
			h.Logger.Warn("AUTH", fmt.Sprintf("Register: phone patch failed for %s: %v", user.ID, err))
		}
	}

	accessToken, err := h.Provider.GenerateSignupLink(r.Context(), req.Email)
	if err != nil {
		h.Logger.Error("AUTH", fmt.Sprintf("Register: signup link failed for %s: %v", req.Email, err))
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	SetSessionCookies(w, accessToken, "")
	h.Logger.LogAuth("REGISTER", req.Email)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"message": "Registration successful",
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("AUTH", fmt.Sprintf("failed to encode response: %v", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
