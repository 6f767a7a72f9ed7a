package ticket_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/logger"
	tickets "ms-storefront/internal/tickets/service"
)

type Handler struct {
	TicketService *tickets.TicketService
	Logger        *logger.Logger
}

func NewHandler(ticketService *tickets.TicketService, log *logger.Logger) *Handler {
	return &Handler{TicketService: ticketService, Logger: log}
}

// ListTickets answers GET /api/tickets?search= for the authenticated user,
// partitioned into upcoming and past.
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	searchTerm := r.URL.Query().Get("search")

	list, err := h.TicketService.ListTickets(r.Context(), userID, searchTerm)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListTickets: %v", err))
		http.Error(w, "Failed to fetch tickets: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(list); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListTickets: failed to encode response: %v", err))
	}
}

// TicketQR answers GET /api/tickets/{ticketNumber}/qr with the ticket's QR
// PNG, scoped to the authenticated owner.
func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	ticketNumber := chi.URLParam(r, "ticketNumber")

	png, err := h.TicketService.TicketQR(r.Context(), userID, ticketNumber)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("TicketQR: %v", err))
		http.Error(w, "Ticket not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

type ticketCountResponse struct {
	TotalCount int `json:"total_count"`
}

// GetTotalTicketsCount is the public issued-ticket counter.
func (h *Handler) GetTotalTicketsCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.TicketService.GetTotalTicketsCount(r.Context())
	if err != nil {
		http.Error(w, "Error retrieving ticket count: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ticketCountResponse{TotalCount: count}); err != nil {
		http.Error(w, "Error encoding response: "+err.Error(), http.StatusInternalServerError)
	}
}
