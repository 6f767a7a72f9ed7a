package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	ID            string    `bun:"id,pk" json:"id"`
	TicketNumber  string    `bun:"ticket_number,notnull,unique" json:"ticket_number"`
	UserID        string    `bun:"user_id,notnull" json:"user_id"`
	SeatNumber    string    `bun:"seat_number,nullzero" json:"seat_number,omitempty"`
	AttendeeName  string    `bun:"attendee_name,notnull" json:"attendee_name"`
	AttendeeEmail string    `bun:"attendee_email" json:"attendee_email"`
	AttendeePhone string    `bun:"attendee_phone,notnull" json:"attendee_phone"`
	EventID       string    `bun:"event_id,notnull" json:"event_id"`
	EventTitle    string    `bun:"event_title,notnull" json:"event_title"`
	EventDate     string    `bun:"event_date,notnull" json:"event_date"`
	EventTime     string    `bun:"event_time,notnull" json:"event_time"`
	EventVenue    string    `bun:"event_venue,notnull" json:"event_venue"`
	TicketType    TierName  `bun:"ticket_type,notnull" json:"ticket_type"`
	Price         float64   `bun:"price,notnull" json:"price"`
	PaymentMethod string    `bun:"payment_method,notnull" json:"payment_method"`
	QRCode        []byte    `bun:"qr_code" json:"-"`
	IssuedAt      time.Time `bun:"issued_at,notnull" json:"issued_at"`
}

// EventStart combines the denormalized event date and time into a moment.
// Tickets for events whose date fails to parse are treated as past.
func (t *Ticket) EventStart() (time.Time, bool) {
	if t.EventTime != "" {
		if ts, err := time.Parse("2006-01-02 15:04", t.EventDate+" "+t.EventTime); err == nil {
			return ts, true
		}
	}
	ts, err := time.Parse("2006-01-02", t.EventDate)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// TicketCount is a per-event, per-day issuance tally maintained by the
// tickets.issued consumer and read by the admin dashboard.
type TicketCount struct {
	bun.BaseModel `bun:"table:ticket_counts"`

	ID      int64     `bun:"id,pk,autoincrement" json:"id"`
	EventID string    `bun:"event_id,notnull" json:"event_id"`
	Date    time.Time `bun:"date,notnull" json:"date"`
	Count   int       `bun:"count,notnull" json:"count"`
}
