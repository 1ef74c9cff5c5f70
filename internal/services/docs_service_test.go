package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"swiftlink/internal/domain"
	"swiftlink/internal/domain/models"
)

func TestDocsServiceGenerate(t *testing.T) {
	released := testNow
	fee := domain.Cents(10000)
	data := shipmentDocData{
		Shipment: models.Shipment{
			ID:            7,
			TrackingCode:  "SL-ABC123",
			Status:        domain.ShipmentDelivered,
			ItemWeight:    2500,
			AcceptorName:  "Jane Doe",
			AcceptorPhone: "+447700900123",
			Fee:           &fee,
			CreatedAt:     testNow,
		},
		View: models.ShipmentView{
			Flight:  models.FlightSummary{From: "Nairobi", To: "London", DepartureDate: testNow.Add(24 * time.Hour)},
			Sender:  models.PartyInfo{FullName: "Ada Sender", Phone: "1"},
			Carrier: models.PartyInfo{FullName: "Cai Carrier", Phone: "2"},
		},
		Released: &models.Payment{Reference: "SHIP-SL-ABC123-1-abcd1234", Amount: 10000, PlatformFee: 1000, ReleasedAt: &released},
	}
	svc := DocsService{
		Currency: "usd",
		Loader: func(ctx context.Context, code string) (shipmentDocData, error) {
			return data, nil
		},
	}

	pdf, filename, err := svc.GenerateWaybill(context.Background(), data.Shipment)
	if err != nil {
		t.Fatalf("GenerateWaybill returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) || filename != "WAYBILL_SL-ABC123.pdf" {
		t.Fatalf("GenerateWaybill returned %q (%d bytes)", filename, len(pdf))
	}

	receipt, name, err := svc.GenerateReceipt(context.Background(), data.Shipment)
	if err != nil {
		t.Fatalf("GenerateReceipt returned error: %v", err)
	}
	if len(receipt) == 0 || name != "RECEIPT_SL-ABC123.pdf" {
		t.Fatalf("GenerateReceipt returned empty data")
	}
}

func TestDocsServiceReceiptNeedsRelease(t *testing.T) {
	db := openTestDB(t)
	carrier := mustUser(t, db, "carrier@x.io", domain.RoleCarrier)
	sender := mustUser(t, db, "sender@x.io", domain.RoleSender)
	flight := mustFlight(t, db, carrier.ID, "10", cents(2000))
	ships := newTestShipmentService(db)
	ctx := context.Background()

	sh, err := ships.Create(ctx, CreateShipmentInput{FlightID: flight.ID, SenderID: sender.ID, ItemWeight: kg(t, "1"), Acceptor: acceptor()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	docs := DocsService{Shipments: ships.Shipments, Payments: ships.Payments}

	if _, _, err := docs.GenerateWaybill(ctx, sh); err != nil {
		t.Fatalf("waybill: %v", err)
	}
	if _, _, err := docs.GenerateReceipt(ctx, sh); !domain.IsNotFound(err) {
		t.Fatalf("receipt before delivery: expected NotFound, got %v", err)
	}
	if _, err := ships.ConfirmDelivery(ctx, sh.TrackingCode); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, _, err := docs.GenerateReceipt(ctx, sh); err != nil {
		t.Fatalf("receipt after delivery: %v", err)
	}
}
