package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"swiftlink/internal/domain"

	"github.com/google/uuid"
)

var ErrInvalidAmount = errors.New("amount must be greater than zero")

// Checkout is what a sender needs to complete payment for a shipment.
type Checkout struct {
	Reference    string `json:"reference"`
	ClientSecret string `json:"clientSecret,omitempty"`
	Provider     string `json:"provider"`
	Status       string `json:"status"`
}

// Request describes the charge to open for a shipment.
type Request struct {
	TrackingCode string
	Amount       domain.Cents
	Currency     string
	Email        string
}

// Gateway opens a payment with an external provider.
type Gateway interface {
	Initialize(ctx context.Context, req Request) (Checkout, error)
}

// Simulated is the test-mode gateway used when no provider key is set.
type Simulated struct{}

func (Simulated) Initialize(_ context.Context, req Request) (Checkout, error) {
	if req.Amount <= 0 {
		return Checkout{}, ErrInvalidAmount
	}
	ref := fmt.Sprintf("SIM-%s-%s", strings.ToUpper(req.TrackingCode), uuid.NewString()[:8])
	return Checkout{Reference: ref, Provider: "simulated", Status: "requires_payment_method"}, nil
}
