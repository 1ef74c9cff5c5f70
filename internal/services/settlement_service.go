package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"swiftlink/internal/domain"
	"swiftlink/internal/domain/models"
	"swiftlink/internal/repositories"
	"swiftlink/internal/utils"

	"github.com/google/uuid"
)

// SettlementService pays the carrier for a delivered shipment. It does not
// open its own transaction: bind Users and Payments to the caller's tx so
// the balance change commits or rolls back with the status transition.
type SettlementService struct {
	Users     repositories.UserRepository
	Payments  repositories.PaymentRepository
	RequestID string
	Now       clock
}

// Settle records the full fee on the released payment together with the
// platform share; the carrier is credited the difference.
func (s SettlementService) Settle(ctx context.Context, sh models.Shipment) (models.Settlement, error) {
	now := s.Now.now()
	split := domain.ComputeSettlement(sh.FeeOrZero())

	if split.AmountReleased > 0 && sh.CarrierID > 0 {
		if err := s.Users.IncrementBalance(ctx, sh.CarrierID, split.AmountReleased); err != nil {
			return models.Settlement{}, err
		}
	}

	p := models.Payment{
		ShipmentID:  sh.ID,
		Reference:   paymentReference(sh.TrackingCode, now),
		Amount:      split.Fee,
		PlatformFee: split.PlatformFee,
		Status:      domain.PaymentReleased,
		ReleasedAt:  &now,
		CreatedAt:   now,
	}
	if err := s.Payments.Insert(ctx, &p); err != nil {
		return models.Settlement{}, err
	}

	utils.LogEventf(s.RequestID, "settlement", "settle", "tracking_code=%s released=%s platform_fee=%s carrier_id=%d",
		sh.TrackingCode, split.AmountReleased, split.PlatformFee, sh.CarrierID)
	return models.Settlement{
		AmountReleased: split.AmountReleased,
		PlatformFee:    split.PlatformFee,
		Payment:        p,
	}, nil
}

// paymentReference builds SHIP-<code>-<unix millis>-<8 hex>.
func paymentReference(code string, at time.Time) string {
	return fmt.Sprintf("SHIP-%s-%d-%s", code, at.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
