// Package payment creates payment intents for paid bookings.
package payment

import (
	"context"
	"errors"
)

// Gateway creates payment intents with an external processor.
type Gateway interface {
	// CreatePaymentIntent opens a charge of req.AmountMinorUnits and returns the
	// handle the client uses to complete it.
	CreatePaymentIntent(ctx context.Context, req *IntentRequest) (*Intent, error)

	// Name returns the gateway name
	Name() string
}

// IntentRequest describes the charge to open.
type IntentRequest struct {
	AmountMinorUnits int64
	Currency         string
	Description      string
	Metadata         map[string]string
}

// Intent is the processor's handle for an in-progress charge.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// ErrInvalidRequest is returned before contacting the processor when the
// request cannot produce a charge.
var ErrInvalidRequest = errors.New("invalid payment intent request")

func validate(req *IntentRequest) error {
	if req == nil || req.AmountMinorUnits <= 0 || req.Currency == "" {
		return ErrInvalidRequest
	}
	return nil
}
