package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrDeclined is returned by MockGateway when configured to fail.
var ErrDeclined = errors.New("payment declined")

// MockGateway implements Gateway without a network call. It is the default
// for local development and is used by tests.
type MockGateway struct {
	config *MockGatewayConfig

	mu      sync.Mutex
	intents []IntentRequest
}

// MockGatewayConfig holds configuration for the mock gateway
type MockGatewayConfig struct {
	// Fail makes every request return ErrDeclined.
	Fail bool

	// Delay is the simulated processing time.
	Delay time.Duration
}

// NewMockGateway creates a new mock gateway
func NewMockGateway(config *MockGatewayConfig) *MockGateway {
	if config == nil {
		config = &MockGatewayConfig{}
	}
	return &MockGateway{config: config}
}

// CreatePaymentIntent records req and returns a synthetic intent.
func (g *MockGateway) CreatePaymentIntent(ctx context.Context, req *IntentRequest) (*Intent, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if g.config.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(g.config.Delay):
		}
	}

	if g.config.Fail {
		return nil, ErrDeclined
	}

	g.mu.Lock()
	g.intents = append(g.intents, *req)
	g.mu.Unlock()

	id := "pi_mock_" + uuid.NewString()
	return &Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       "requires_payment_method",
	}, nil
}

// Requests returns the intents created so far.
func (g *MockGateway) Requests() []IntentRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]IntentRequest, len(g.intents))
	copy(out, g.intents)
	return out
}

// Name returns the gateway name
func (g *MockGateway) Name() string {
	return "mock"
}
