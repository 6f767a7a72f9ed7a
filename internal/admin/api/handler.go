package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ms-storefront/internal/admin"
	"ms-storefront/internal/logger"
)

type Handler struct {
	Gate   *admin.Gate
	Stats  *admin.StatsService
	Logger *logger.Logger
}

func NewHandler(gate *admin.Gate, stats *admin.StatsService, log *logger.Logger) *Handler {
	return &Handler{Gate: gate, Stats: stats, Logger: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Login answers POST /api/admin/login with a signed, expiring admin token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	token, err := h.Gate.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, admin.ErrRejected) {
			h.Logger.Warn("ADMIN", fmt.Sprintf("Login rejected for %s", req.Email))
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		h.Logger.Error("ADMIN", fmt.Sprintf("Login: %v", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.Logger.Info("ADMIN", fmt.Sprintf("Admin session issued for %s", req.Email))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loginResponse{Token: token, Message: "Login successful"})
}

// Dashboard answers GET /api/admin/stats; the route is wrapped by
// Gate.Middleware.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Dashboard(r.Context())
	if err != nil {
		h.Logger.Error("ADMIN", fmt.Sprintf("Dashboard: %v", err))
		http.Error(w, "Failed to load dashboard: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		h.Logger.Error("ADMIN", fmt.Sprintf("Dashboard: failed to encode response: %v", err))
	}
}
