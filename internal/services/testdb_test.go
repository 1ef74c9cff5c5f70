package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	intdb "swiftlink/internal/db"
	"swiftlink/internal/domain"
	"swiftlink/internal/domain/models"
	"swiftlink/internal/notify"
	"swiftlink/internal/repositories"

	_ "modernc.org/sqlite"
)

var testNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "swiftlink.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := intdb.Migrate(context.Background(), db, intdb.SQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustUser(t *testing.T, db *sql.DB, email string, role domain.Role) models.User {
	t.Helper()
	u := models.User{
		FullName:      "User " + email,
		Email:         email,
		Phone:         "+1555" + email[:3],
		NationalID:    "NID-" + email,
		PasswordHash:  "x",
		Role:          role,
		PhoneVerified: true,
		CreatedAt:     testNow,
	}
	if err := (repositories.UserRepository{DB: db}).Create(context.Background(), &u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func mustFlight(t *testing.T, db *sql.DB, carrier domain.ID, kg string, pricePerKg *domain.Cents) models.Flight {
	t.Helper()
	g, err := domain.ParseKg(kg)
	if err != nil {
		t.Fatalf("parse kg: %v", err)
	}
	f, err := (repositories.FlightRepository{DB: db}).Create(context.Background(), models.NewFlight{
		CarrierID:     carrier,
		From:          "Nairobi",
		To:            "London",
		DepartureDate: testNow.Add(72 * time.Hour),
		AvailableKg:   g,
		PricePerKg:    pricePerKg,
	}, testNow)
	if err != nil {
		t.Fatalf("create flight: %v", err)
	}
	return f
}

func cents(v int64) *domain.Cents {
	c := domain.Cents(v)
	return &c
}

func kg(t *testing.T, s string) domain.Grams {
	t.Helper()
	g, err := domain.ParseKg(s)
	if err != nil {
		t.Fatalf("parse kg %q: %v", s, err)
	}
	return g
}

func newTestShipmentService(db *sql.DB) ShipmentService {
	svc := NewShipmentService(db, notify.Dispatcher{})
	svc.Now = fixedClock
	return svc
}

func acceptor() models.Acceptor {
	return models.Acceptor{Name: "Jane Doe", Phone: "+44 7700 900123", NationalID: "AB123456"}
}

func availableKg(t *testing.T, db *sql.DB, id domain.ID) domain.Grams {
	t.Helper()
	f, err := (repositories.FlightRepository{DB: db}).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get flight: %v", err)
	}
	return f.AvailableKg
}

func balanceOf(t *testing.T, db *sql.DB, id domain.ID) domain.Cents {
	t.Helper()
	u, err := (repositories.UserRepository{DB: db}).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	return u.Balance
}
