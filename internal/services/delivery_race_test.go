package services

import (
	"context"
	"regexp"
	"testing"

	"swiftlink/internal/domain"
	"swiftlink/internal/notify"

	"github.com/DATA-DOG/go-sqlmock"
)

var shipmentRowColumns = []string{
	"id", "flight_id", "sender_id", "carrier_id", "item_grams",
	"acceptor_name", "acceptor_phone", "acceptor_national_id",
	"tracking_code", "status", "fee_cents", "acceptor_verified",
	"created_at", "updated_at", "delivered_at",
}

// A delivery that loses the guarded UPDATE to a concurrent commit must read
// the row only after the UPDATE, so the read reflects the winner's commit.
func TestConfirmDeliveryLoserSeesWinnerCommit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE shipments SET status = ?, updated_at = ?, delivered_at = ? WHERE tracking_code = ? AND status IN (?,?)")).
		WithArgs("DELIVERED", "2026-03-01 09:30:00", "2026-03-01 09:30:00", "SL-RACE", "REQUESTED", "IN_TRANSIT").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM shipments s WHERE s.tracking_code").
		WithArgs("SL-RACE").
		WillReturnRows(sqlmock.NewRows(shipmentRowColumns).AddRow(
			1, 2, 3, 4, 1000,
			"Jane", "+1", "AB1",
			"SL-RACE", "DELIVERED", 10000, false,
			"2026-03-01 09:00:00", "2026-03-01 09:29:59", "2026-03-01 09:29:59",
		))
	mock.ExpectRollback()

	svc := NewShipmentService(db, notify.Dispatcher{})
	svc.Now = fixedClock
	_, err = svc.ConfirmDelivery(context.Background(), "sl-race")
	if !domain.IsAlreadyDelivered(err) {
		t.Fatalf("expected AlreadyDelivered, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConfirmDeliveryUnknownCodeAfterTransition(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE shipments SET status").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM shipments s WHERE s.tracking_code").
		WillReturnRows(sqlmock.NewRows(shipmentRowColumns))
	mock.ExpectRollback()

	svc := NewShipmentService(db, notify.Dispatcher{})
	svc.Now = fixedClock
	if _, err := svc.ConfirmDelivery(context.Background(), "SL-NONE"); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
