package models

import (
	"time"

	"swiftlink/internal/domain"
)

// PartyInfo is the public identity of a sender or carrier.
type PartyInfo struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// Flight is capacity published by a carrier.
type Flight struct {
	ID            domain.ID           `json:"id"`
	CarrierID     domain.ID           `json:"carrierId"`
	From          string              `json:"from"`
	To            string              `json:"to"`
	DepartureDate time.Time           `json:"departureDate"`
	AvailableKg   domain.Grams        `json:"availableKg"`
	PricePerKg    *domain.Cents       `json:"pricePerKg,omitempty"`
	Status        domain.FlightStatus `json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	Carrier       *PartyInfo          `json:"carrier,omitempty"`
}

// FlightSummary is the slice of a flight exposed on tracking lookups.
type FlightSummary struct {
	From          string              `json:"from"`
	To            string              `json:"to"`
	DepartureDate time.Time           `json:"departureDate"`
	Status        domain.FlightStatus `json:"status"`
}

// NewFlight carries validated input for flight creation.
type NewFlight struct {
	CarrierID     domain.ID
	From          string
	To            string
	DepartureDate time.Time
	AvailableKg   domain.Grams
	PricePerKg    *domain.Cents
}
