package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeGateway opens PaymentIntents the sender confirms client-side.
type StripeGateway struct {
	client *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeGateway{client: sc}
}

func (g *StripeGateway) Initialize(ctx context.Context, req Request) (Checkout, error) {
	if req.Amount <= 0 {
		return Checkout{}, ErrInvalidAmount
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "usd"
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(req.Amount)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String("Shipment " + req.TrackingCode),
	}
	if req.Email != "" {
		params.ReceiptEmail = stripe.String(req.Email)
	}
	params.AddMetadata("tracking_code", req.TrackingCode)
	params.IdempotencyKey = stripe.String("init-" + req.TrackingCode)
	params.Context = ctx

	pi, err := g.client.PaymentIntents.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) {
			return Checkout{}, fmt.Errorf("stripe %s: %s", se.Code, se.Msg)
		}
		return Checkout{}, fmt.Errorf("stripe: %w", err)
	}
	return Checkout{
		Reference:    pi.ID,
		ClientSecret: pi.ClientSecret,
		Provider:     "stripe",
		Status:       string(pi.Status),
	}, nil
}
