package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"
	"strings"

	"swiftlink/internal/auth"
	intdb "swiftlink/internal/db"
	"swiftlink/internal/domain"
	"swiftlink/internal/domain/models"
	"swiftlink/internal/metrics"
	"swiftlink/internal/notify"
	"swiftlink/internal/repositories"
	"swiftlink/internal/utils"

	"github.com/google/uuid"
)

const trackingCodeAttempts = 3

// ShipmentService drives a shipment from booking to delivery or
// cancellation. Every operation that touches more than one row runs in a
// single transaction on DB.
type ShipmentService struct {
	DB        *sql.DB
	Flights   repositories.FlightRepository
	Shipments repositories.ShipmentRepository
	Users     repositories.UserRepository
	Payments  repositories.PaymentRepository
	Notify    notify.Dispatcher
	RequestID string
	Now       clock
	NewCode   func() string
}

func NewShipmentService(db *sql.DB, d notify.Dispatcher) ShipmentService {
	return ShipmentService{
		DB:        db,
		Flights:   repositories.FlightRepository{DB: db},
		Shipments: repositories.ShipmentRepository{DB: db},
		Users:     repositories.UserRepository{DB: db},
		Payments:  repositories.PaymentRepository{DB: db},
		Notify:    d,
	}
}

type CreateShipmentInput struct {
	FlightID   domain.ID
	SenderID   domain.ID
	ItemWeight domain.Grams
	Acceptor   models.Acceptor
}

// DeliveryResult is returned by ConfirmDelivery.
type DeliveryResult struct {
	Shipment       models.Shipment `json:"shipment"`
	AmountReleased domain.Cents    `json:"amountReleased"`
	PlatformFee    domain.Cents    `json:"platformFee"`
	Payment        models.Payment  `json:"payment"`
}

func (s ShipmentService) Create(ctx context.Context, in CreateShipmentInput) (models.Shipment, error) {
	acc := models.Acceptor{
		Name:       utils.NormalizeSpace(in.Acceptor.Name),
		Phone:      utils.NormalizePhone(in.Acceptor.Phone),
		NationalID: strings.TrimSpace(in.Acceptor.NationalID),
	}
	if err := firstErr(
		required("acceptorName", acc.Name),
		required("acceptorPhone", acc.Phone),
		required("acceptorNationalId", acc.NationalID),
	); err != nil {
		return models.Shipment{}, err
	}
	if in.SenderID <= 0 {
		return models.Shipment{}, domain.UnauthorizedError{}
	}

	now := s.Now.now()
	var out models.Shipment
	err := intdb.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		caps := CapacityService{Flights: s.Flights.WithTx(tx), RequestID: s.RequestID, Now: s.Now}
		flight, err := caps.Reserve(ctx, in.FlightID, in.ItemWeight)
		if err != nil {
			return err
		}
		fee, err := domain.ComputeShipmentFee(in.ItemWeight, flight.PricePerKg)
		if err != nil {
			return err
		}

		sh := models.Shipment{
			FlightID:           flight.ID,
			SenderID:           in.SenderID,
			CarrierID:          flight.CarrierID,
			ItemWeight:         in.ItemWeight,
			AcceptorName:       acc.Name,
			AcceptorPhone:      acc.Phone,
			AcceptorNationalID: acc.NationalID,
			Status:             domain.ShipmentRequested,
			Fee:                fee,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		ships := s.Shipments.WithTx(tx)
		for attempt := 1; ; attempt++ {
			sh.TrackingCode = s.newCode()
			err = ships.Create(ctx, &sh)
			if err == nil {
				break
			}
			if !domain.IsConflict(err) || attempt >= trackingCodeAttempts {
				return err
			}
		}
		out = sh
		return nil
	})
	if err != nil {
		return models.Shipment{}, err
	}

	metrics.ShipmentsBooked.Inc()
	utils.LogEventf(s.RequestID, "shipment", "create", "tracking_code=%s flight_id=%d weight=%s", out.TrackingCode, out.FlightID, out.ItemWeight)
	s.notify(out, notify.EventShipmentCreated,
		fmt.Sprintf("A parcel is on its way to you. Tracking code: %s", out.TrackingCode))
	return out, nil
}

// ConfirmDelivery moves the shipment to DELIVERED and settles it in the same
// transaction. Only one caller can win the guarded transition, so a retry
// gets AlreadyDeliveredError and never a second payout.
//
// The guarded UPDATE runs before any read in the transaction. Under
// REPEATABLE READ the read that follows it then observes a concurrent
// winner's commit instead of a snapshot taken before it.
func (s ShipmentService) ConfirmDelivery(ctx context.Context, code string) (DeliveryResult, error) {
	code = normalizeCode(code)
	now := s.Now.now()

	var out DeliveryResult
	err := intdb.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		ships := s.Shipments.WithTx(tx)
		ok, err := ships.TransitionByCode(ctx, code, []domain.ShipmentStatus{domain.ShipmentRequested, domain.ShipmentInTransit}, domain.ShipmentDelivered, now)
		if err != nil {
			return err
		}
		sh, err := ships.GetByTrackingCode(ctx, code)
		if err != nil {
			return err
		}
		if !ok {
			if err := deliverable(sh); err != nil {
				return err
			}
			return domain.ConflictError{Resource: "shipment", Msg: "status changed concurrently"}
		}

		settle := SettlementService{
			Users:     s.Users.WithTx(tx),
			Payments:  s.Payments.WithTx(tx),
			RequestID: s.RequestID,
			Now:       s.Now,
		}
		res, err := settle.Settle(ctx, sh)
		if err != nil {
			return err
		}

		out = DeliveryResult{
			Shipment:       sh,
			AmountReleased: res.AmountReleased,
			PlatformFee:    res.PlatformFee,
			Payment:        res.Payment,
		}
		return nil
	})
	if err != nil {
		return DeliveryResult{}, err
	}

	metrics.ShipmentTransitions.WithLabelValues(string(domain.ShipmentDelivered)).Inc()
	metrics.SettledCents.WithLabelValues("carrier").Add(float64(out.AmountReleased))
	metrics.SettledCents.WithLabelValues("platform").Add(float64(out.PlatformFee))
	utils.LogEventf(s.RequestID, "shipment", "deliver", "tracking_code=%s released=%s", code, out.AmountReleased)
	s.notify(out.Shipment, notify.EventShipmentDelivered,
		fmt.Sprintf("Shipment %s has been delivered.", code))
	return out, nil
}

func deliverable(sh models.Shipment) error {
	switch sh.Status {
	case domain.ShipmentDelivered:
		return domain.AlreadyDeliveredError{TrackingCode: sh.TrackingCode}
	case domain.ShipmentCancelled:
		return domain.ConflictError{Resource: "shipment", Msg: "shipment is cancelled"}
	}
	return nil
}

// Pickup is the carrier taking the parcel: REQUESTED to IN_TRANSIT.
func (s ShipmentService) Pickup(ctx context.Context, code string, actor domain.RequestContext) (models.Shipment, error) {
	sh, err := s.Shipments.GetByTrackingCode(ctx, normalizeCode(code))
	if err != nil {
		return models.Shipment{}, err
	}
	if sh.CarrierID != actor.UserID && actor.Role != domain.RoleAdmin {
		return models.Shipment{}, domain.ForbiddenError{Msg: "only the flight's carrier can pick up this shipment"}
	}
	now := s.Now.now()
	ok, err := s.Shipments.Transition(ctx, sh.ID, []domain.ShipmentStatus{domain.ShipmentRequested}, domain.ShipmentInTransit, now)
	if err != nil {
		return models.Shipment{}, err
	}
	if !ok {
		return models.Shipment{}, domain.ConflictError{Resource: "shipment", Msg: "only requested shipments can be picked up"}
	}
	sh.Status = domain.ShipmentInTransit
	sh.UpdatedAt = now

	metrics.ShipmentTransitions.WithLabelValues(string(sh.Status)).Inc()
	utils.LogEventf(s.RequestID, "shipment", "pickup", "tracking_code=%s carrier_id=%d", sh.TrackingCode, actor.UserID)
	s.notify(sh, notify.EventShipmentPickedUp,
		fmt.Sprintf("Shipment %s is in transit.", sh.TrackingCode))
	return sh, nil
}

// Cancel ends a shipment that has not been picked up and gives its weight
// back to the flight in the same transaction.
func (s ShipmentService) Cancel(ctx context.Context, code string, actor domain.RequestContext) (models.Shipment, error) {
	code = normalizeCode(code)
	now := s.Now.now()

	var out models.Shipment
	err := intdb.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		ships := s.Shipments.WithTx(tx)
		sh, err := ships.GetByTrackingCode(ctx, code)
		if err != nil {
			return err
		}
		if sh.SenderID != actor.UserID && !auth.Privileged(actor.Role) {
			return domain.ForbiddenError{Msg: "only the sender can cancel this shipment"}
		}
		ok, err := ships.Transition(ctx, sh.ID, []domain.ShipmentStatus{domain.ShipmentRequested}, domain.ShipmentCancelled, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ConflictError{Resource: "shipment", Msg: "only requested shipments can be cancelled"}
		}
		caps := CapacityService{Flights: s.Flights.WithTx(tx), RequestID: s.RequestID, Now: s.Now}
		if err := caps.Release(ctx, sh.FlightID, sh.ItemWeight); err != nil {
			return err
		}
		sh.Status = domain.ShipmentCancelled
		sh.UpdatedAt = now
		out = sh
		return nil
	})
	if err != nil {
		return models.Shipment{}, err
	}

	metrics.ShipmentTransitions.WithLabelValues(string(out.Status)).Inc()
	utils.LogEventf(s.RequestID, "shipment", "cancel", "tracking_code=%s by=%d", code, actor.UserID)
	s.notify(out, notify.EventShipmentCancelled,
		fmt.Sprintf("Shipment %s was cancelled.", code))
	return out, nil
}

// VerifyAcceptor checks the ID shown at handover against the one recorded
// at booking.
func (s ShipmentService) VerifyAcceptor(ctx context.Context, code, nationalID string, actor domain.RequestContext) (models.Shipment, error) {
	if err := required("nationalId", nationalID); err != nil {
		return models.Shipment{}, err
	}
	sh, err := s.Shipments.GetByTrackingCode(ctx, normalizeCode(code))
	if err != nil {
		return models.Shipment{}, err
	}
	if sh.CarrierID != actor.UserID && !auth.Privileged(actor.Role) {
		return models.Shipment{}, domain.ForbiddenError{Msg: "not allowed to verify this shipment"}
	}
	if sh.Status == domain.ShipmentCancelled {
		return models.Shipment{}, domain.ConflictError{Resource: "shipment", Msg: "shipment is cancelled"}
	}
	given := strings.ToUpper(strings.TrimSpace(nationalID))
	want := strings.ToUpper(strings.TrimSpace(sh.AcceptorNationalID))
	if subtle.ConstantTimeCompare([]byte(given), []byte(want)) != 1 {
		utils.LogEvent(s.RequestID, "shipment", "verify_acceptor", "mismatch tracking_code="+sh.TrackingCode)
		return models.Shipment{}, domain.ValidationError{Field: "nationalId", Msg: "does not match the acceptor on record"}
	}
	now := s.Now.now()
	if err := s.Shipments.MarkAcceptorVerified(ctx, sh.ID, now); err != nil {
		return models.Shipment{}, err
	}
	sh.AcceptorVerified = true
	sh.UpdatedAt = now
	utils.LogEvent(s.RequestID, "shipment", "verify_acceptor", "ok tracking_code="+sh.TrackingCode)
	return sh, nil
}

func (s ShipmentService) ListMine(ctx context.Context, actor domain.RequestContext) ([]models.Shipment, error) {
	return s.Shipments.ListByParty(ctx, actor.UserID)
}

// GetForParty loads a shipment the actor takes part in, as sender or
// carrier, or any shipment for agents and admins.
func (s ShipmentService) GetForParty(ctx context.Context, code string, actor domain.RequestContext) (models.Shipment, error) {
	sh, err := s.Shipments.GetByTrackingCode(ctx, normalizeCode(code))
	if err != nil {
		return models.Shipment{}, err
	}
	if sh.SenderID != actor.UserID && sh.CarrierID != actor.UserID && !auth.Privileged(actor.Role) {
		return models.Shipment{}, domain.ForbiddenError{Msg: "not a party to this shipment"}
	}
	return sh, nil
}

func (s ShipmentService) newCode() string {
	if s.NewCode != nil {
		return s.NewCode()
	}
	return NewTrackingCode()
}

// NewTrackingCode returns SL- followed by ten uppercase hex characters.
func NewTrackingCode() string {
	return "SL-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s ShipmentService) notify(sh models.Shipment, event, text string) {
	s.Notify.Send(s.RequestID, notify.Message{
		Event:        event,
		TrackingCode: sh.TrackingCode,
		Status:       sh.Status,
		Phone:        sh.AcceptorPhone,
		Text:         text,
	})
}
