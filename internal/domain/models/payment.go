package models

import (
	"time"

	"swiftlink/internal/domain"
)

// Payment is one settlement or authorization event for a shipment.
type Payment struct {
	ID          domain.ID            `json:"id"`
	ShipmentID  domain.ID            `json:"shipmentId"`
	Reference   string               `json:"reference"`
	Amount      domain.Cents         `json:"amount"`
	PlatformFee domain.Cents         `json:"platformFee"`
	Status      domain.PaymentStatus `json:"status"`
	ReleasedAt  *time.Time           `json:"releasedAt,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// Settlement is the outcome of releasing a delivered shipment's fee.
type Settlement struct {
	AmountReleased domain.Cents `json:"amountReleased"`
	PlatformFee    domain.Cents `json:"platformFee"`
	Payment        Payment      `json:"payment"`
}
