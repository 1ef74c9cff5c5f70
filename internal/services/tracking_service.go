package services

import (
	"context"

	"swiftlink/internal/domain"
	"swiftlink/internal/domain/models"
	"swiftlink/internal/repositories"

	"golang.org/x/sync/singleflight"
)

// TrackingService answers public tracking lookups. Concurrent lookups of the
// same code share one query.
type TrackingService struct {
	Shipments repositories.ShipmentRepository
	group     *singleflight.Group
}

func NewTrackingService(repo repositories.ShipmentRepository) TrackingService {
	return TrackingService{Shipments: repo, group: &singleflight.Group{}}
}

func (s TrackingService) Lookup(ctx context.Context, code string) (models.ShipmentView, error) {
	code = normalizeCode(code)
	if code == "" {
		return models.ShipmentView{}, domain.NotFoundError{Resource: "shipment"}
	}
	if s.group == nil {
		return s.Shipments.TrackingView(ctx, code)
	}
	// the shared query must not die with whichever caller arrived first
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(code, func() (any, error) {
		return s.Shipments.TrackingView(shared, code)
	})
	if err != nil {
		return models.ShipmentView{}, err
	}
	return v.(models.ShipmentView), nil
}
