package services

import (
	"context"

	"swiftlink/internal/domain"
	"swiftlink/internal/domain/models"
	"swiftlink/internal/repositories"
	"swiftlink/internal/utils"
)

type FlightService struct {
	Flights   repositories.FlightRepository
	RequestID string
	Now       clock
}

type AddFlightInput struct {
	From          string
	To            string
	DepartureDate string
	AvailableKg   domain.Grams
	PricePerKg    *domain.Cents
}

func (s FlightService) Add(ctx context.Context, actor domain.RequestContext, in AddFlightInput) (models.Flight, error) {
	from := utils.NormalizeSpace(in.From)
	to := utils.NormalizeSpace(in.To)
	if err := firstErr(
		required("from", from),
		required("to", to),
		required("departureDate", in.DepartureDate),
	); err != nil {
		return models.Flight{}, err
	}
	dep, err := utils.ParseDeparture(in.DepartureDate)
	if err != nil {
		return models.Flight{}, domain.ValidationError{Field: "departureDate", Msg: "invalid date", Err: err}
	}
	if in.AvailableKg <= 0 {
		return models.Flight{}, domain.ValidationError{Field: "availableKg", Msg: "must be greater than zero"}
	}
	if in.PricePerKg != nil && *in.PricePerKg < 0 {
		return models.Flight{}, domain.ValidationError{Field: "pricePerKg", Msg: "must not be negative"}
	}

	f, err := s.Flights.Create(ctx, models.NewFlight{
		CarrierID:     actor.UserID,
		From:          from,
		To:            to,
		DepartureDate: dep,
		AvailableKg:   in.AvailableKg,
		PricePerKg:    in.PricePerKg,
	}, s.Now.now())
	if err != nil {
		return models.Flight{}, err
	}
	utils.LogEventf(s.RequestID, "flight", "add", "flight_id=%d carrier_id=%d route=%s-%s capacity=%s", f.ID, f.CarrierID, f.From, f.To, f.AvailableKg)
	return f, nil
}

func (s FlightService) List(ctx context.Context) ([]models.Flight, error) {
	return s.Flights.List(ctx, repositories.FlightFilter{})
}

// ListAvailable returns on-time flights that still have capacity.
func (s FlightService) ListAvailable(ctx context.Context) ([]models.Flight, error) {
	return s.Flights.List(ctx, repositories.FlightFilter{OnlyBookable: true})
}

// UpdateStatus is restricted to the flight's own carrier and admins.
func (s FlightService) UpdateStatus(ctx context.Context, actor domain.RequestContext, id domain.ID, raw string) (models.Flight, error) {
	status, ok := domain.ParseFlightStatus(raw)
	if !ok {
		return models.Flight{}, domain.ValidationError{Field: "status", Msg: "must be one of on-time, delayed, canceled"}
	}
	f, err := s.Flights.GetByID(ctx, id)
	if err != nil {
		return models.Flight{}, err
	}
	if f.CarrierID != actor.UserID && actor.Role != domain.RoleAdmin {
		return models.Flight{}, domain.ForbiddenError{Msg: "only the owning carrier can update this flight"}
	}
	if err := s.Flights.UpdateStatus(ctx, id, status, s.Now.now()); err != nil {
		return models.Flight{}, err
	}
	utils.LogEventf(s.RequestID, "flight", "update_status", "flight_id=%d status=%s", id, status)
	return s.Flights.GetByID(ctx, id)
}
