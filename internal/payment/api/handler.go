package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/checkout"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/payment"
)

type Handler struct {
	Service *payment.Service
	Logger  *logger.Logger
}

func NewHandler(service *payment.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

type completePaymentRequest struct {
	Attendees     []models.Attendee `json:"attendees"`
	PaymentMethod string            `json:"payment_method"`
}

type completePaymentResponse struct {
	Message string          `json:"message"`
	Tickets []models.Ticket `json:"tickets"`
}

// CompletePayment handles POST /api/checkout/pay for the session's pending
// intent. Validation failures are 400s naming the offending attendee; a
// missing intent is a 409 redirecting back to the catalog.
func (h *Handler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := checkout.SessionFromRequest(r)
	if !ok {
		h.writeNoActiveCheckout(w)
		return
	}
	userID := auth.UserID(r.Context())

	var req completePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CompletePayment: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	tickets, err := h.Service.CompletePayment(r.Context(), sessionID, userID, req.Attendees, req.PaymentMethod)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(completePaymentResponse{
		Message: "Payment successful",
		Tickets: tickets,
	}); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CompletePayment: failed to encode response: %v", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var validationErr *payment.ValidationError
	var quantityErr *payment.QuantityError

	switch {
	case errors.Is(err, checkout.ErrNoActiveCheckout):
		h.writeNoActiveCheckout(w)
	case errors.As(err, &validationErr), errors.As(err, &quantityErr),
		errors.Is(err, payment.ErrUnsupportedPaymentMethod):
		h.Logger.Warn("API", fmt.Sprintf("CompletePayment: %v", err))
		http.Error(w, "Invalid attendee details: "+err.Error(), http.StatusBadRequest)
	default:
		h.Logger.Error("API", fmt.Sprintf("CompletePayment: %v", err))
		http.Error(w, "Payment failed: "+err.Error(), http.StatusInternalServerError)
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
