package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ms-storefront/internal/checkout"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
)

type Handler struct {
	Service *checkout.Service
	Logger  *logger.Logger
}

func NewHandler(service *checkout.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

type beginCheckoutRequest struct {
	EventID    string          `json:"event_id"`
	TicketType models.TierName `json:"ticket_type"`
	Quantity   int             `json:"quantity"`
}

// BeginCheckout handles POST /api/checkout. It mints a checkout session
// cookie when the client has none and stakes the intent for that session.
func (h *Handler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	var req beginCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("BeginCheckout: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	sessionID := checkout.EnsureSession(w, r)

	intent, err := h.Service.BeginCheckout(r.Context(), sessionID, req.EventID, req.TicketType, req.Quantity)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("BeginCheckout: %v", err))
		http.Error(w, "Could not begin checkout: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(intent); err != nil {
		h.Logger.Error("API", fmt.Sprintf("BeginCheckout: failed to encode response: %v", err))
	}
}

// CurrentIntent handles GET /api/checkout. A missing or expired intent is a
// 409 instructing the client back to the catalog.
func (h *Handler) CurrentIntent(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := checkout.SessionFromRequest(r)
	if !ok {
		h.writeNoActiveCheckout(w)
		return
	}

	intent, err := h.Service.CurrentIntent(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, checkout.ErrNoActiveCheckout) {
			h.writeNoActiveCheckout(w)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("CurrentIntent: %v", err))
		http.Error(w, "Could not load checkout: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(intent); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CurrentIntent: failed to encode response: %v", err))
	}
}

func (h *Handler) writeNoActiveCheckout(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusConflict)
	json.NewEncoder(w).Encode(map[string]string{
		"error":    checkout.ErrNoActiveCheckout.Error(),
		"redirect": "/events",
	})
}
