package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"swiftlink/internal/domain"
	"swiftlink/internal/repositories"
)

func TestTrackingLookup(t *testing.T) {
	db := openTestDB(t)
	carrier := mustUser(t, db, "carrier@x.io", domain.RoleCarrier)
	sender := mustUser(t, db, "sender@x.io", domain.RoleSender)
	flight := mustFlight(t, db, carrier.ID, "10", cents(1000))
	svc := newTestShipmentService(db)
	ctx := context.Background()

	sh, err := svc.Create(ctx, CreateShipmentInput{FlightID: flight.ID, SenderID: sender.ID, ItemWeight: kg(t, "1.5"), Acceptor: acceptor()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tracking := NewTrackingService(repositories.ShipmentRepository{DB: db})
	if _, err := tracking.Lookup(ctx, "SL-UNKNOWN"); !domain.IsNotFound(err) {
		t.Fatalf("unknown code: expected NotFound, got %v", err)
	}

	v, err := tracking.Lookup(ctx, strings.ToLower(sh.TrackingCode))
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if v.Flight.From != "Nairobi" || v.Flight.To != "London" {
		t.Fatalf("route = %s -> %s", v.Flight.From, v.Flight.To)
	}
	if !v.Flight.DepartureDate.Equal(flight.DepartureDate) {
		t.Fatalf("departure = %v, want %v", v.Flight.DepartureDate, flight.DepartureDate)
	}
	if v.Sender.FullName != sender.FullName || v.Carrier.FullName != carrier.FullName {
		t.Fatalf("parties = %+v / %+v", v.Sender, v.Carrier)
	}

	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, secret := range []string{"AB123456", sender.NationalID, carrier.NationalID, "password", "nationalId"} {
		if strings.Contains(string(body), secret) {
			t.Fatalf("tracking view leaks %q: %s", secret, body)
		}
	}
}

func TestTrackingLookupOutlivesCallerCancel(t *testing.T) {
	db := openTestDB(t)
	carrier := mustUser(t, db, "carrier@x.io", domain.RoleCarrier)
	sender := mustUser(t, db, "sender@x.io", domain.RoleSender)
	flight := mustFlight(t, db, carrier.ID, "10", nil)
	sh, err := newTestShipmentService(db).Create(context.Background(), CreateShipmentInput{
		FlightID: flight.ID, SenderID: sender.ID, ItemWeight: kg(t, "1"), Acceptor: acceptor(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// a caller that has already gone away still leads the shared query
	gone, cancel := context.WithCancel(context.Background())
	cancel()

	tracking := NewTrackingService(repositories.ShipmentRepository{DB: db})
	v, err := tracking.Lookup(gone, sh.TrackingCode)
	if err != nil {
		t.Fatalf("lookup with canceled leader: %v", err)
	}
	if v.TrackingCode != sh.TrackingCode {
		t.Fatalf("tracking code = %q, want %q", v.TrackingCode, sh.TrackingCode)
	}
}
