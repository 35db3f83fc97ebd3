package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
	"xtopay-checkout/internal/common/enum"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type IGateway interface {
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeResult, error)
}

// GatewayClient simulates the payment processor. It produces a random
// outcome after a fixed delay and must be replaced by a real gateway
// integration before this service moves money.
type GatewayClient struct {
	config *Config
	mu     sync.Mutex
	rng    *rand.Rand
}

type Config struct {
	// SuccessRate is the probability of a successful outcome, in [0, 1].
	SuccessRate float64
	// InsufficientShare is the portion of failures reported as insufficient
	// funds rather than declined, in [0, 1].
	InsufficientShare float64
	// Latency is the simulated processing delay.
	Latency time.Duration
	// Seed fixes the random sequence; zero seeds from the clock.
	Seed int64
}

func DefaultConfig() *Config {
	return &Config{
		SuccessRate:       0.8,
		InsufficientShare: 0.25,
		Latency:           time.Second,
	}
}

func Setup(cfg *Config) *GatewayClient {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &GatewayClient{
		config: cfg,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// ChargeResult is the UI-facing shape of a simulated settlement.
type ChargeResult struct {
	Outcome       enum.OutcomeEnum
	TransactionID string
	Message       string
}

type ChargeRequest struct {
	SessionID string
	Method    enum.PaymentMethodEnum
	Amount    float64
	Currency  string
	// Reference is the method-specific account identifier, already masked.
	Reference string
}

// Charge blocks for the configured latency, then rolls an outcome. Honors
// context cancellation during the delay.
func (g *GatewayClient) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(g.config.Latency):
	}

	g.mu.Lock()
	roll := g.rng.Float64()
	failRoll := g.rng.Float64()
	g.mu.Unlock()

	if roll < g.config.SuccessRate {
		id, err := gonanoid.Generate("abcdefghijklmnopqrstuvwxyz0123456789", 8)
		if err != nil {
			return nil, fmt.Errorf("failed to generate transaction id: %w", err)
		}
		return &ChargeResult{
			Outcome:       enum.OUTCOME_SUCCESS,
			TransactionID: "txn_" + id,
			Message:       "Payment completed successfully",
		}, nil
	}

	if failRoll < g.config.InsufficientShare {
		return &ChargeResult{
			Outcome: enum.OUTCOME_INSUFFICIENT,
			Message: "Payment failed - insufficient funds",
		}, nil
	}

	return &ChargeResult{
		Outcome: enum.OUTCOME_FAILED,
		Message: "Payment failed - transaction declined",
	}, nil
}
