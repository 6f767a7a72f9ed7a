package tickets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ms-storefront/internal/models"
)

type TicketDBLayer interface {
	GetTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error)
	GetTicketByNumber(ctx context.Context, userID, ticketNumber string) (*models.Ticket, error)
	GetTotalTicketsCount(ctx context.Context) (int, error)
}

type TicketService struct {
	DB TicketDBLayer

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

func NewTicketService(db TicketDBLayer) *TicketService {
	return &TicketService{DB: db, now: time.Now}
}

// TicketList partitions a user's tickets around the current moment.
type TicketList struct {
	Upcoming []models.Ticket `json:"upcoming"`
	Past     []models.Ticket `json:"past"`
}

// ListTickets returns the user's tickets split into upcoming and past,
// optionally narrowed by a case-insensitive search over event title,
// attendee name and venue. A ticket counts as upcoming when its event start
// is at or after the current moment.
func (s *TicketService) ListTickets(ctx context.Context, userID, searchTerm string) (*TicketList, error) {
	all, err := s.DB.GetTicketsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tickets for user %s: %w", userID, err)
	}

	term := strings.ToLower(strings.TrimSpace(searchTerm))
	now := s.now()

	list := &TicketList{
		Upcoming: []models.Ticket{},
		Past:     []models.Ticket{},
	}
	for _, ticket := range all {
		if term != "" && !matchesSearch(&ticket, term) {
			continue
		}
		if isUpcoming(&ticket, now) {
			list.Upcoming = append(list.Upcoming, ticket)
		} else {
			list.Past = append(list.Past, ticket)
		}
	}
	return list, nil
}

// TicketQR returns the stored QR PNG for one of the user's tickets.
func (s *TicketService) TicketQR(ctx context.Context, userID, ticketNumber string) ([]byte, error) {
	ticket, err := s.DB.GetTicketByNumber(ctx, userID, ticketNumber)
	if err != nil {
		return nil, fmt.Errorf("ticket %s not found: %w", ticketNumber, err)
	}
	return ticket.QRCode, nil
}

// GetTotalTicketsCount returns the total count of issued tickets.
func (s *TicketService) GetTotalTicketsCount(ctx context.Context) (int, error) {
	return s.DB.GetTotalTicketsCount(ctx)
}

func isUpcoming(ticket *models.Ticket, now time.Time) bool {
	start, ok := ticket.EventStart()
	if !ok {
		return false
	}
	return !start.Before(now)
}

func matchesSearch(ticket *models.Ticket, term string) bool {
	return strings.Contains(strings.ToLower(ticket.EventTitle), term) ||
		strings.Contains(strings.ToLower(ticket.AttendeeName), term) ||
		strings.Contains(strings.ToLower(ticket.EventVenue), term)
}
