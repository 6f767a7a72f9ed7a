package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/tickets/qr"
)

type Catalog interface {
	GetEvent(id string) (*models.Event, error)
}

type IntentSource interface {
	GetIntent(ctx context.Context, sessionID string) (*models.CheckoutIntent, error)
	DeleteIntent(ctx context.Context, sessionID string) error
}

type TicketWriter interface {
	CreateTickets(ctx context.Context, tickets []models.Ticket) error
}

type EventPublisher interface {
	PublishTicketsIssued(tickets []models.Ticket) error
}

type Service struct {
	Catalog Catalog
	Intents IntentSource
	Tickets TicketWriter
	Kafka   EventPublisher
	QR      *qr.Generator
	Delay   time.Duration
	Logger  *logger.Logger
}

func NewService(catalog Catalog, intents IntentSource, tickets TicketWriter, kafka EventPublisher, qrGen *qr.Generator, delay time.Duration, log *logger.Logger) *Service {
	return &Service{
		Catalog: catalog,
		Intents: intents,
		Tickets: tickets,
		Kafka:   kafka,
		QR:      qrGen,
		Delay:   delay,
		Logger:  log,
	}
}

// CompletePayment validates the attendee details against the session's
// pending intent, simulates the payment round-trip, and only then issues one
// ticket per attendee. The whole batch is appended atomically and the intent
// slot is cleared so it cannot be consumed twice. Any validation failure
// aborts before the delay with zero side effects.
func (s *Service) CompletePayment(ctx context.Context, sessionID, userID string, attendees []models.Attendee, paymentMethod string) ([]models.Ticket, error) {
	intent, err := s.Intents.GetIntent(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	event, err := s.Catalog.GetEvent(intent.EventID)
	if err != nil {
		return nil, fmt.Errorf("checkout references unknown event: %w", err)
	}

	price, err := event.TierPrice(intent.Tier)
	if err != nil {
		return nil, fmt.Errorf("checkout references invalid tier: %w", err)
	}

	if len(attendees) != intent.Quantity {
		return nil, &QuantityError{Want: intent.Quantity, Got: len(attendees)}
	}
	if err := validateAttendees(attendees); err != nil {
		return nil, err
	}
	if !models.KnownPaymentMethod(paymentMethod) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPaymentMethod, paymentMethod)
	}

	// Simulated processing round-trip. No ticket exists before this
	// completes; aborting the request here leaves nothing to compensate.
	select {
	case <-time.After(s.Delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	issuedAt := time.Now()
	batch := make([]models.Ticket, 0, len(attendees))
	for _, attendee := range attendees {
		ticket := models.Ticket{
			ID:            uuid.NewString(),
			TicketNumber:  GenerateTicketNumber(),
			UserID:        userID,
			AttendeeName:  strings.TrimSpace(attendee.Name),
			AttendeeEmail: strings.TrimSpace(attendee.Email),
			AttendeePhone: strings.TrimSpace(attendee.Phone),
			EventID:       event.ID,
			EventTitle:    event.Title,
			EventDate:     event.Date,
			EventTime:     event.Time,
			EventVenue:    event.Venue,
			TicketType:    intent.Tier,
			Price:         price,
			PaymentMethod: paymentMethod,
			IssuedAt:      issuedAt,
		}
		if event.HasSeating {
			ticket.SeatNumber = GenerateSeatNumber()
		}

		qrBytes, err := s.QR.GenerateEncryptedQR(qr.Payload{
			TicketNumber: ticket.TicketNumber,
			EventID:      ticket.EventID,
			AttendeeName: ticket.AttendeeName,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to generate QR: %w", err)
		}
		ticket.QRCode = qrBytes

		batch = append(batch, ticket)
	}

	if err := s.Tickets.CreateTickets(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to persist tickets: %w", err)
	}

	if err := s.Intents.DeleteIntent(ctx, sessionID); err != nil {
		// Tickets are already durable; a stale intent will expire on its own.
		s.Logger.Warn("CHECKOUT", fmt.Sprintf("failed to clear consumed intent for session %s: %v", sessionID, err))
	}

	s.Logger.LogTicket("ISSUED", batch[0].TicketNumber, fmt.Sprintf("%d tickets for event %s via %s", len(batch), event.ID, paymentMethod))

	if s.Kafka != nil {
		if err := s.Kafka.PublishTicketsIssued(batch); err != nil {
			s.Logger.Warn("KAFKA", fmt.Sprintf("tickets issued publish failed: %v", err))
		}
	}

	return batch, nil
}

func validateAttendees(attendees []models.Attendee) error {
	for i, attendee := range attendees {
		if strings.TrimSpace(attendee.Name) == "" {
			return &ValidationError{Attendee: i, Field: "name"}
		}
		if strings.TrimSpace(attendee.Phone) == "" {
			return &ValidationError{Attendee: i, Field: "phone"}
		}
		if i == 0 && strings.TrimSpace(attendee.Email) == "" {
			return &ValidationError{Attendee: i, Field: "email"}
		}
	}
	return nil
}
