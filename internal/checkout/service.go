package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
)

// ErrNoActiveCheckout is returned when a step expects a pending intent and
// none exists for the session. Callers recover by redirecting to the catalog.
var ErrNoActiveCheckout = errors.New("no active checkout for this session")

type Catalog interface {
	GetEvent(id string) (*models.Event, error)
}

type IntentStore interface {
	SaveIntent(ctx context.Context, sessionID string, intent models.CheckoutIntent) error
	GetIntent(ctx context.Context, sessionID string) (*models.CheckoutIntent, error)
	DeleteIntent(ctx context.Context, sessionID string) error
}

type EventPublisher interface {
	PublishCheckoutStarted(sessionID string, intent models.CheckoutIntent) error
}

type Service struct {
	Catalog     Catalog
	Intents     IntentStore
	Kafka       EventPublisher
	MaxQuantity int
	Logger      *logger.Logger
}

func NewService(catalog Catalog, intents IntentStore, kafka EventPublisher, maxQuantity int, log *logger.Logger) *Service {
	if maxQuantity <= 0 {
		maxQuantity = 10
	}
	return &Service{
		Catalog:     catalog,
		Intents:     intents,
		Kafka:       kafka,
		MaxQuantity: maxQuantity,
		Logger:      log,
	}
}

// BeginCheckout validates the selection, computes the total at the tier price
// current right now, and stakes the intent in the session's single slot. Any
// previous unconsumed intent for the same session is overwritten.
func (s *Service) BeginCheckout(ctx context.Context, sessionID, eventID string, tier models.TierName, quantity int) (*models.CheckoutIntent, error) {
	event, err := s.Catalog.GetEvent(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid checkout selection: %w", err)
	}

	price, err := event.TierPrice(tier)
	if err != nil {
		return nil, fmt.Errorf("invalid checkout selection: %w", err)
	}

	if quantity < 1 || quantity > s.MaxQuantity {
		return nil, fmt.Errorf("quantity must be between 1 and %d", s.MaxQuantity)
	}

	intent := models.CheckoutIntent{
		EventID:   event.ID,
		Tier:      tier,
		Quantity:  quantity,
		Total:     price * float64(quantity),
		CreatedAt: time.Now(),
	}

	if err := s.Intents.SaveIntent(ctx, sessionID, intent); err != nil {
		return nil, fmt.Errorf("failed to begin checkout: %w", err)
	}

	s.Logger.LogCheckout("BEGIN", sessionID, fmt.Sprintf("event=%s tier=%s qty=%d total=%.2f", event.ID, tier, quantity, intent.Total))

	if s.Kafka != nil {
		if err := s.Kafka.PublishCheckoutStarted(sessionID, intent); err != nil {
			s.Logger.Warn("KAFKA", fmt.Sprintf("checkout started publish failed: %v", err))
		}
	}

	return &intent, nil
}

// CurrentIntent returns the pending intent for the session.
func (s *Service) CurrentIntent(ctx context.Context, sessionID string) (*models.CheckoutIntent, error) {
	return s.Intents.GetIntent(ctx, sessionID)
}
