package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-storefront/internal/catalog"
	"ms-storefront/internal/logger"
)

type Handler struct {
	Store  *catalog.Store
	Logger *logger.Logger
}

func NewHandler(store *catalog.Store, log *logger.Logger) *Handler {
	return &Handler{Store: store, Logger: log}
}

// ListEvents answers GET /api/events with optional search, category,
// location and sort query parameters.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := catalog.Filter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Location: r.URL.Query().Get("location"),
		SortBy:   r.URL.Query().Get("sort"),
	}

	events := h.Store.ListEvents(filter)
	h.Logger.Debug("API", fmt.Sprintf("ListEvents: %d events after filtering", len(events)))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(events); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListEvents: failed to encode response: %v", err))
	}
}

// FeaturedEvents answers GET /api/events/featured.
func (h *Handler) FeaturedEvents(w http.ResponseWriter, r *http.Request) {
	events := h.Store.Featured()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(events); err != nil {
		h.Logger.Error("API", fmt.Sprintf("FeaturedEvents: failed to encode response: %v", err))
	}
}

// GetEvent answers GET /api/events/{eventID}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	event, err := h.Store.GetEvent(eventID)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("GetEvent: %v", err))
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(event); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetEvent: failed to encode response: %v", err))
	}
}
