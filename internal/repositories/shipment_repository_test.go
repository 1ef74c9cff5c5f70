package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"swiftlink/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestShipmentTransitionGuardsSourceStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE shipments SET status = ?, updated_at = ?, delivered_at = ? WHERE id = ? AND status IN (?,?)")).
		WithArgs("DELIVERED", "2026-03-01 09:30:00", "2026-03-01 09:30:00", int64(9), "REQUESTED", "IN_TRANSIT").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := ShipmentRepository{DB: db}.Transition(context.Background(), 9,
		[]domain.ShipmentStatus{domain.ShipmentRequested, domain.ShipmentInTransit}, domain.ShipmentDelivered, repoNow)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if ok {
		t.Fatalf("transition should report no change when the guard fails")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestShipmentTransitionByCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE shipments SET status = ?, updated_at = ? WHERE tracking_code = ? AND status IN (?)")).
		WithArgs("CANCELLED", "2026-03-01 09:30:00", "SL-9", "REQUESTED").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := ShipmentRepository{DB: db}.TransitionByCode(context.Background(), "SL-9",
		[]domain.ShipmentStatus{domain.ShipmentRequested}, domain.ShipmentCancelled, repoNow)
	if err != nil || !ok {
		t.Fatalf("transition = %v, %v", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestShipmentTransitionNeedsSource(t *testing.T) {
	_, err := ShipmentRepository{}.Transition(context.Background(), 1, nil, domain.ShipmentCancelled, repoNow)
	if err == nil {
		t.Fatalf("expected error without source statuses")
	}
}

func TestShipmentCreateDuplicateCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO shipments").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'SL-1' for key 'tracking_code'"})
	mock.ExpectExec("INSERT INTO shipments").
		WillReturnError(errors.New("connection reset"))

	repo := ShipmentRepository{DB: db}
	if err := repo.Create(context.Background(), &testShipment); !domain.IsConflict(err) {
		t.Fatalf("expected Conflict, got %v", err)
	}
	if err := repo.Create(context.Background(), &testShipment); err == nil || domain.IsConflict(err) {
		t.Fatalf("expected plain error, got %v", err)
	}
}
