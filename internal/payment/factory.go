package payment

import (
	"fmt"

	"github.com/Shivanand-hulikatti/letsgo/internal/config"
)

// GatewayType represents the type of payment gateway
type GatewayType string

const (
	GatewayTypeMock   GatewayType = "mock"
	GatewayTypeStripe GatewayType = "stripe"
)

// NewGateway creates the gateway selected by cfg.
func NewGateway(cfg config.PaymentConfig) (Gateway, error) {
	switch GatewayType(cfg.Gateway) {
	case GatewayTypeMock, "":
		return NewMockGateway(nil), nil
	case GatewayTypeStripe:
		return NewStripeGateway(cfg.StripeSecretKey)
	default:
		return nil, fmt.Errorf("unsupported gateway type: %s", cfg.Gateway)
	}
}
