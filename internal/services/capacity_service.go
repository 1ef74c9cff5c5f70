package services

import (
	"context"

	"swiftlink/internal/domain"
	"swiftlink/internal/domain/models"
	"swiftlink/internal/metrics"
	"swiftlink/internal/repositories"
	"swiftlink/internal/utils"
)

// CapacityService owns every change to a flight's available weight.
// Bind Flights to a transaction to make a reservation part of a larger unit.
type CapacityService struct {
	Flights   repositories.FlightRepository
	RequestID string
	Now       clock
}

// Reserve takes weight off the flight in one conditional decrement and
// returns the flight as it is afterwards.
func (s CapacityService) Reserve(ctx context.Context, flightID domain.ID, weight domain.Grams) (models.Flight, error) {
	if flightID <= 0 {
		return models.Flight{}, domain.ValidationError{Field: "flightId", Msg: "is required"}
	}
	if weight <= 0 {
		return models.Flight{}, domain.ValidationError{Field: "itemWeight", Msg: "must be greater than zero"}
	}

	ok, err := s.Flights.Reserve(ctx, flightID, weight, s.Now.now())
	if err != nil {
		return models.Flight{}, err
	}
	if !ok {
		f, err := s.Flights.GetByID(ctx, flightID)
		if err != nil {
			return models.Flight{}, err
		}
		if f.Status == domain.FlightCanceled {
			return models.Flight{}, domain.ConflictError{Resource: "flight", Msg: "flight is canceled"}
		}
		metrics.CapacityRejections.Inc()
		utils.LogEventf(s.RequestID, "capacity", "reserve", "rejected flight_id=%d requested=%s available=%s", flightID, weight, f.AvailableKg)
		return models.Flight{}, domain.CapacityExceededError{FlightID: flightID, RequestedKg: weight.String()}
	}

	return s.Flights.GetByID(ctx, flightID)
}

// Release is the compensating increment for a reservation that will not fly.
func (s CapacityService) Release(ctx context.Context, flightID domain.ID, weight domain.Grams) error {
	if weight <= 0 {
		return nil
	}
	if err := s.Flights.Release(ctx, flightID, weight, s.Now.now()); err != nil {
		return err
	}
	utils.LogEventf(s.RequestID, "capacity", "release", "flight_id=%d released=%s", flightID, weight)
	return nil
}
