package models

import "time"

// CheckoutIntent is the transient record of an in-progress ticket selection.
// Exactly one intent exists per checkout session; starting a new checkout
// overwrites any unconsumed one. The total is computed once at creation and
// never recomputed.
type CheckoutIntent struct {
	EventID   string    `json:"event_id"`
	Tier      TierName  `json:"ticket_type"`
	Quantity  int       `json:"quantity"`
	Total     float64   `json:"total_amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Attendee carries the details collected for one ticket of a checkout.
// Name and phone are always required; email is required only for the
// primary attendee (index 0).
type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Payment methods accepted by the simulated payment step.
const (
	PaymentMpesa = "mpesa"
	PaymentCard  = "card"
	PaymentBank  = "bank"
)

// KnownPaymentMethod reports whether m is one of the accepted methods.
func KnownPaymentMethod(m string) bool {
	switch m {
	case PaymentMpesa, PaymentCard, PaymentBank:
		return true
	}
	return false
}
