package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
)

// StripeGateway implements Gateway using Stripe payment intents.
type StripeGateway struct {
	client *stripe.Client
}

// NewStripeGateway creates a Stripe gateway bound to secretKey. The key is
// held by the client instance rather than set process-wide.
func NewStripeGateway(secretKey string) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	return &StripeGateway{client: stripe.NewClient(secretKey)}, nil
}

// CreatePaymentIntent creates a payment intent with automatic payment methods.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req *IntentRequest) (*Intent, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(req.AmountMinorUnits),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: make(map[string]string, len(req.Metadata)),
	}
	for k, v := range req.Metadata {
		params.Metadata[k] = v
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}

	pi, err := g.client.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

// Name returns the gateway name
func (g *StripeGateway) Name() string {
	return "stripe"
}
