package payment

import (
	"errors"
	"fmt"
)

// ErrUnsupportedPaymentMethod rejects payment methods outside mpesa/card/bank.
var ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")

// ValidationError reports invalid attendee input. Attendee is 0-based;
// user-facing messages number attendees from 1. A ValidationError always
// means nothing was persisted.
type ValidationError struct {
	Attendee int
	Field    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("attendee %d: %s is required", e.Attendee+1, e.Field)
}

// QuantityError reports a mismatch between the attendee list and the
// quantity staked in the checkout intent.
type QuantityError struct {
	Want, Got int
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("expected details for %d attendees, got %d", e.Want, e.Got)
}
