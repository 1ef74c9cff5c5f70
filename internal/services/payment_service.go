package services

import (
	"context"
	"errors"

	"swiftlink/internal/domain"
	"swiftlink/internal/domain/models"
	"swiftlink/internal/gateway"
	"swiftlink/internal/repositories"
	"swiftlink/internal/utils"
)

// PaymentService opens checkouts with the payment gateway and lists the
// payment history of a shipment. Carrier payouts are written by
// SettlementService.
type PaymentService struct {
	Shipments repositories.ShipmentRepository
	Payments  repositories.PaymentRepository
	Users     repositories.UserRepository
	Gateway   gateway.Gateway
	Currency  string
	RequestID string
	Now       clock
}

type InitializeResult struct {
	Checkout gateway.Checkout `json:"checkout"`
	Payment  models.Payment   `json:"payment"`
}

// Initialize records a pending payment for the sender's shipment fee.
func (s PaymentService) Initialize(ctx context.Context, actor domain.RequestContext, code string) (InitializeResult, error) {
	code = normalizeCode(code)
	if code == "" {
		return InitializeResult{}, domain.ValidationError{Field: "trackingCode", Msg: "is required"}
	}
	sh, err := s.Shipments.GetByTrackingCode(ctx, code)
	if err != nil {
		return InitializeResult{}, err
	}
	if sh.SenderID != actor.UserID {
		return InitializeResult{}, domain.ForbiddenError{Msg: "only the sender can pay for this shipment"}
	}
	if sh.Status == domain.ShipmentCancelled {
		return InitializeResult{}, domain.ConflictError{Resource: "shipment", Msg: "shipment is cancelled"}
	}
	fee := sh.FeeOrZero()
	if fee <= 0 {
		return InitializeResult{}, domain.ValidationError{Field: "fee", Msg: "shipment has no fee to pay"}
	}

	var email string
	if u, err := s.Users.GetByID(ctx, actor.UserID); err == nil {
		email = u.Email
	}

	gw := s.Gateway
	if gw == nil {
		gw = gateway.Simulated{}
	}
	checkout, err := gw.Initialize(ctx, gateway.Request{
		TrackingCode: sh.TrackingCode,
		Amount:       fee,
		Currency:     s.Currency,
		Email:        email,
	})
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidAmount) {
			return InitializeResult{}, domain.ValidationError{Field: "fee", Msg: err.Error()}
		}
		utils.LogEvent(s.RequestID, "payment", "initialize", "gateway error: "+err.Error())
		return InitializeResult{}, domain.InternalError{Msg: "payment gateway unavailable", Err: err}
	}

	now := s.Now.now()
	p := models.Payment{
		ShipmentID: sh.ID,
		Reference:  checkout.Reference,
		Amount:     fee,
		Status:     domain.PaymentPending,
		CreatedAt:  now,
	}
	if err := s.Payments.Insert(ctx, &p); err != nil {
		if !domain.IsConflict(err) {
			return InitializeResult{}, err
		}
		// the provider replayed an idempotent request; hand back the row we already have
		existing, lerr := s.Payments.ListByShipment(ctx, sh.ID)
		if lerr != nil {
			return InitializeResult{}, lerr
		}
		for _, e := range existing {
			if e.Reference == checkout.Reference {
				return InitializeResult{Checkout: checkout, Payment: e}, nil
			}
		}
		return InitializeResult{}, err
	}
	utils.LogEventf(s.RequestID, "payment", "initialize", "tracking_code=%s provider=%s reference=%s", sh.TrackingCode, checkout.Provider, checkout.Reference)
	return InitializeResult{Checkout: checkout, Payment: p}, nil
}

func (s PaymentService) ListByShipment(ctx context.Context, code string) ([]models.Payment, error) {
	sh, err := s.Shipments.GetByTrackingCode(ctx, normalizeCode(code))
	if err != nil {
		return nil, err
	}
	return s.Payments.ListByShipment(ctx, sh.ID)
}
