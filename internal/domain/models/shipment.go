package models

import (
	"time"

	"swiftlink/internal/domain"
)

// Shipment is a parcel booked on a flight.
type Shipment struct {
	ID                 domain.ID             `json:"id"`
	FlightID           domain.ID             `json:"flightId"`
	SenderID           domain.ID             `json:"senderId"`
	CarrierID          domain.ID             `json:"carrierId"`
	ItemWeight         domain.Grams          `json:"itemWeight"`
	AcceptorName       string                `json:"acceptorName"`
	AcceptorPhone      string                `json:"acceptorPhone"`
	AcceptorNationalID string                `json:"-"`
	TrackingCode       string                `json:"trackingCode"`
	Status             domain.ShipmentStatus `json:"status"`
	Fee                *domain.Cents         `json:"fee"`
	AcceptorVerified   bool                  `json:"acceptorVerified"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
	DeliveredAt        *time.Time            `json:"deliveredAt,omitempty"`
}

// FeeOrZero treats a missing fee as zero.
func (s Shipment) FeeOrZero() domain.Cents {
	if s.Fee == nil {
		return 0
	}
	return *s.Fee
}

// Acceptor is the person who receives the parcel at destination.
type Acceptor struct {
	Name       string
	Phone      string
	NationalID string
}

// ShipmentView is the public tracking projection. It never carries
// credentials or national ID numbers.
type ShipmentView struct {
	TrackingCode     string                `json:"trackingCode"`
	Status           domain.ShipmentStatus `json:"status"`
	ItemWeight       domain.Grams          `json:"itemWeight"`
	AcceptorName     string                `json:"acceptorName"`
	AcceptorVerified bool                  `json:"acceptorVerified"`
	Fee              *domain.Cents         `json:"fee"`
	CreatedAt        time.Time             `json:"createdAt"`
	DeliveredAt      *time.Time            `json:"deliveredAt,omitempty"`
	Flight           FlightSummary         `json:"flight"`
	Sender           PartyInfo             `json:"sender"`
	Carrier          PartyInfo             `json:"carrier"`
}
