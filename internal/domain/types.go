package domain

import "strings"

// ID is used across domain entities.
type ID int64

// Role is the closed set of account roles.
type Role string

const (
	RoleSender   Role = "sender"
	RoleCarrier  Role = "carrier"
	RoleReceiver Role = "receiver"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

// ParseRole normalizes user input into a known Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleSender, RoleCarrier, RoleReceiver, RoleAgent, RoleAdmin:
		return r, true
	}
	return "", false
}

// SelfRegistrable reports whether the role may be chosen at sign-up.
func (r Role) SelfRegistrable() bool {
	return r == RoleSender || r == RoleCarrier || r == RoleReceiver || r == RoleAgent
}

type FlightStatus string

const (
	FlightOnTime   FlightStatus = "on-time"
	FlightDelayed  FlightStatus = "delayed"
	FlightCanceled FlightStatus = "canceled"
)

func ParseFlightStatus(s string) (FlightStatus, bool) {
	st := FlightStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case FlightOnTime, FlightDelayed, FlightCanceled:
		return st, true
	}
	return "", false
}

type ShipmentStatus string

const (
	ShipmentRequested ShipmentStatus = "REQUESTED"
	ShipmentInTransit ShipmentStatus = "IN_TRANSIT"
	ShipmentDelivered ShipmentStatus = "DELIVERED"
	ShipmentCancelled ShipmentStatus = "CANCELLED"
)

// Terminal reports whether no further transition is allowed.
func (s ShipmentStatus) Terminal() bool {
	return s == ShipmentDelivered || s == ShipmentCancelled
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentReleased PaymentStatus = "released"
)

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID    ID     `json:"userId"`
	Role      Role   `json:"role"`
	RequestID string `json:"-"`
}
