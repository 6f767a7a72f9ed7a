package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"ms-storefront/internal/models"
)

// CheckoutStartedEvent is emitted when a checkout intent is staked.
type CheckoutStartedEvent struct {
	SessionID string                `json:"session_id"`
	Intent    models.CheckoutIntent `json:"intent"`
}

// TicketsIssuedEvent is emitted once per completed payment batch.
type TicketsIssuedEvent struct {
	EventID       string    `json:"event_id"`
	TicketNumbers []string  `json:"ticket_numbers"`
	TicketType    string    `json:"ticket_type"`
	Total         float64   `json:"total"`
	IssuedAt      time.Time `json:"issued_at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer}
}

func (p *Producer) publish(topic, key string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(context.Background(), kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
}

// PublishCheckoutStarted streams the intent creation event.
func (p *Producer) PublishCheckoutStarted(sessionID string, intent models.CheckoutIntent) error {
	return p.publish(TopicCheckoutStarted, sessionID, CheckoutStartedEvent{
		SessionID: sessionID,
		Intent:    intent,
	})
}

// PublishTicketsIssued streams the batch issuance event.
func (p *Producer) PublishTicketsIssued(tickets []models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	event := TicketsIssuedEvent{
		EventID:    tickets[0].EventID,
		TicketType: string(tickets[0].TicketType),
		IssuedAt:   tickets[0].IssuedAt,
	}
	for _, t := range tickets {
		event.TicketNumbers = append(event.TicketNumbers, t.TicketNumber)
		event.Total += t.Price
	}

	return p.publish(TopicTicketsIssued, event.EventID, event)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
