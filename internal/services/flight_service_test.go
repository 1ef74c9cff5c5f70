package services

import (
	"context"
	"testing"

	"swiftlink/internal/domain"
	"swiftlink/internal/repositories"
)

func newTestFlightService(t *testing.T) (FlightService, func() domain.RequestContext) {
	t.Helper()
	db := openTestDB(t)
	carrier := mustUser(t, db, "car@example.com", domain.RoleCarrier)
	svc := FlightService{Flights: repositories.FlightRepository{DB: db}, Now: fixedClock}
	return svc, func() domain.RequestContext {
		return domain.RequestContext{UserID: carrier.ID, Role: domain.RoleCarrier}
	}
}

func TestAddFlightValidation(t *testing.T) {
	svc, actor := newTestFlightService(t)
	ctx := context.Background()

	bad := []AddFlightInput{
		{To: "London", DepartureDate: "2026-04-01", AvailableKg: 1000},
		{From: "Nairobi", To: "London", DepartureDate: "someday", AvailableKg: 1000},
		{From: "Nairobi", To: "London", DepartureDate: "2026-04-01"},
		{From: "Nairobi", To: "London", DepartureDate: "2026-04-01", AvailableKg: 1000, PricePerKg: cents(-1)},
	}
	for i, in := range bad {
		if _, err := svc.Add(ctx, actor(), in); !domain.IsValidation(err) {
			t.Fatalf("case %d: expected ValidationError, got %v", i, err)
		}
	}

	f, err := svc.Add(ctx, actor(), AddFlightInput{
		From: "  Nairobi ", To: "London", DepartureDate: "2026-04-01", AvailableKg: 10000, PricePerKg: cents(2500),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if f.From != "Nairobi" || f.Status != domain.FlightOnTime || f.AvailableKg != 10000 || f.CarrierID != actor().UserID {
		t.Fatalf("flight = %+v", f)
	}
}

func TestUpdateFlightStatusOwnership(t *testing.T) {
	svc, actor := newTestFlightService(t)
	ctx := context.Background()

	f, err := svc.Add(ctx, actor(), AddFlightInput{From: "Nairobi", To: "London", DepartureDate: "2026-04-01", AvailableKg: 5000})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, actor(), f.ID, "grounded"); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	stranger := domain.RequestContext{UserID: actor().UserID + 100, Role: domain.RoleCarrier}
	if _, err := svc.UpdateStatus(ctx, stranger, f.ID, "delayed"); !domain.IsForbidden(err) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, actor(), f.ID+100, "delayed"); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, actor(), f.ID, " Delayed ")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.FlightDelayed {
		t.Fatalf("status = %s", updated.Status)
	}

	admin := domain.RequestContext{UserID: 999, Role: domain.RoleAdmin}
	if _, err := svc.UpdateStatus(ctx, admin, f.ID, "on-time"); err != nil {
		t.Fatalf("admin update: %v", err)
	}
}

func TestListAvailableFlights(t *testing.T) {
	svc, actor := newTestFlightService(t)
	ctx := context.Background()

	open, err := svc.Add(ctx, actor(), AddFlightInput{From: "Nairobi", To: "London", DepartureDate: "2026-04-02", AvailableKg: 5000})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	delayed, err := svc.Add(ctx, actor(), AddFlightInput{From: "Nairobi", To: "Dubai", DepartureDate: "2026-04-01", AvailableKg: 5000})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, actor(), delayed.ID, "delayed"); err != nil {
		t.Fatalf("update: %v", err)
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != delayed.ID {
		t.Fatalf("list should hold both flights ordered by departure, got %+v", all)
	}

	avail, err := svc.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(avail) != 1 || avail[0].ID != open.ID {
		t.Fatalf("available = %+v", avail)
	}
	if avail[0].Carrier == nil || avail[0].Carrier.FullName != "User car@example.com" {
		t.Fatalf("carrier info missing: %+v", avail[0].Carrier)
	}
}
