package auth

import "swiftlink/internal/domain"

// Capability names one guarded operation.
type Capability string

const (
	CapFlightCreate       Capability = "flight:create"
	CapFlightUpdateStatus Capability = "flight:update_status"
	CapShipmentCreate     Capability = "shipment:create"
	CapShipmentListOwn    Capability = "shipment:list_own"
	CapShipmentPickup     Capability = "shipment:pickup"
	CapShipmentDeliver    Capability = "shipment:deliver"
	CapShipmentCancel     Capability = "shipment:cancel"
	CapShipmentVerify     Capability = "shipment:verify_acceptor"
	CapShipmentDocuments  Capability = "shipment:documents"
	CapPaymentInitialize  Capability = "payment:initialize"
	CapPaymentList        Capability = "payment:list"
	CapProfileRead        Capability = "profile:read"
	CapUserLookup         Capability = "user:lookup"
)

func roles(rs ...domain.Role) map[domain.Role]struct{} {
	m := make(map[domain.Role]struct{}, len(rs))
	for _, r := range rs {
		m[r] = struct{}{}
	}
	return m
}

var capabilityTable = map[Capability]map[domain.Role]struct{}{
	CapFlightCreate:       roles(domain.RoleCarrier, domain.RoleAdmin),
	CapFlightUpdateStatus: roles(domain.RoleCarrier, domain.RoleAdmin),
	CapShipmentCreate:     roles(domain.RoleSender),
	CapShipmentListOwn:    roles(domain.RoleSender, domain.RoleCarrier),
	CapShipmentPickup:     roles(domain.RoleCarrier, domain.RoleAdmin),
	CapShipmentDeliver:    roles(domain.RoleReceiver, domain.RoleAgent, domain.RoleAdmin),
	CapShipmentCancel:     roles(domain.RoleSender, domain.RoleAgent, domain.RoleAdmin),
	CapShipmentVerify:     roles(domain.RoleCarrier, domain.RoleAgent, domain.RoleAdmin),
	CapShipmentDocuments:  roles(domain.RoleSender, domain.RoleCarrier, domain.RoleAgent, domain.RoleAdmin),
	CapPaymentInitialize:  roles(domain.RoleSender),
	CapPaymentList:        roles(domain.RoleAgent, domain.RoleAdmin),
	CapProfileRead:        roles(domain.RoleSender, domain.RoleCarrier, domain.RoleReceiver, domain.RoleAgent, domain.RoleAdmin),
	CapUserLookup:         roles(domain.RoleAgent, domain.RoleAdmin),
}

// Can reports whether role holds capability. Unknown capabilities are denied.
func Can(role domain.Role, c Capability) bool {
	allowed, ok := capabilityTable[c]
	if !ok {
		return false
	}
	_, ok = allowed[role]
	return ok
}

// Privileged roles bypass ownership checks (but not the capability table).
func Privileged(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleAgent
}
