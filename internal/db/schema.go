package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Dialect selects the DDL flavour. Queries themselves are shared: both
// drivers accept "?" placeholders and the conditional UPDATE forms used by
// the repositories.
type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite"
)

func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case MySQL, "":
		return MySQL, nil
	case SQLite, "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported db driver %q", s)
	}
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == SQLite {
		return "sqlite"
	}
	return "mysql"
}

var mysqlSchema = []string{`
CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	full_name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	phone VARCHAR(50) NOT NULL,
	national_id VARCHAR(100) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(20) NOT NULL,
	phone_verified TINYINT(1) NOT NULL DEFAULT 0,
	national_id_verified TINYINT(1) NOT NULL DEFAULT 0,
	balance_cents BIGINT NOT NULL DEFAULT 0,
	otp_code VARCHAR(10) NULL,
	otp_expiry DATETIME NULL,
	created_at DATETIME NOT NULL,
	UNIQUE KEY uniq_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`, `
CREATE TABLE IF NOT EXISTS flights (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	carrier_id BIGINT NOT NULL,
	route_from VARCHAR(120) NOT NULL,
	route_to VARCHAR(120) NOT NULL,
	departure_date DATETIME NOT NULL,
	available_grams BIGINT NOT NULL,
	price_per_kg_cents BIGINT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'on-time',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	CONSTRAINT chk_flights_capacity CHECK (available_grams >= 0),
	KEY idx_flights_carrier (carrier_id),
	KEY idx_flights_departure (departure_date),
	CONSTRAINT fk_flights_carrier FOREIGN KEY (carrier_id) REFERENCES users(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`, `
CREATE TABLE IF NOT EXISTS shipments (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	flight_id BIGINT NOT NULL,
	sender_id BIGINT NOT NULL,
	carrier_id BIGINT NOT NULL,
	item_grams BIGINT NOT NULL,
	acceptor_name VARCHAR(255) NOT NULL,
	acceptor_phone VARCHAR(50) NOT NULL,
	acceptor_national_id VARCHAR(100) NOT NULL,
	tracking_code VARCHAR(64) NOT NULL,
	status VARCHAR(20) NOT NULL,
	fee_cents BIGINT NULL,
	acceptor_verified TINYINT(1) NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	delivered_at DATETIME NULL,
	UNIQUE KEY uniq_shipments_tracking (tracking_code),
	KEY idx_shipments_sender (sender_id),
	KEY idx_shipments_carrier (carrier_id),
	CONSTRAINT fk_shipments_flight FOREIGN KEY (flight_id) REFERENCES flights(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`, `
CREATE TABLE IF NOT EXISTS payments (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	shipment_id BIGINT NOT NULL,
	reference VARCHAR(128) NOT NULL,
	amount_cents BIGINT NOT NULL,
	platform_fee_cents BIGINT NOT NULL DEFAULT 0,
	status VARCHAR(20) NOT NULL,
	release_key BIGINT NULL,
	released_at DATETIME NULL,
	created_at DATETIME NOT NULL,
	UNIQUE KEY uniq_payments_reference (reference),
	UNIQUE KEY uniq_payments_release (release_key),
	KEY idx_payments_shipment (shipment_id),
	CONSTRAINT fk_payments_shipment FOREIGN KEY (shipment_id) REFERENCES shipments(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}

var sqliteSchema = []string{`
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL,
	national_id TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL,
	phone_verified INTEGER NOT NULL DEFAULT 0,
	national_id_verified INTEGER NOT NULL DEFAULT 0,
	balance_cents INTEGER NOT NULL DEFAULT 0,
	otp_code TEXT NULL,
	otp_expiry DATETIME NULL,
	created_at DATETIME NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS flights (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	carrier_id INTEGER NOT NULL REFERENCES users(id),
	route_from TEXT NOT NULL,
	route_to TEXT NOT NULL,
	departure_date DATETIME NOT NULL,
	available_grams INTEGER NOT NULL CHECK (available_grams >= 0),
	price_per_kg_cents INTEGER NULL,
	status TEXT NOT NULL DEFAULT 'on-time',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS shipments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	flight_id INTEGER NOT NULL REFERENCES flights(id),
	sender_id INTEGER NOT NULL,
	carrier_id INTEGER NOT NULL,
	item_grams INTEGER NOT NULL,
	acceptor_name TEXT NOT NULL,
	acceptor_phone TEXT NOT NULL,
	acceptor_national_id TEXT NOT NULL,
	tracking_code TEXT NOT NULL UNIQUE,
	status TEXT NOT NULL,
	fee_cents INTEGER NULL,
	acceptor_verified INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	delivered_at DATETIME NULL
)`, `
CREATE TABLE IF NOT EXISTS payments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	shipment_id INTEGER NOT NULL REFERENCES shipments(id),
	reference TEXT NOT NULL UNIQUE,
	amount_cents INTEGER NOT NULL,
	platform_fee_cents INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	release_key INTEGER NULL UNIQUE,
	released_at DATETIME NULL,
	created_at DATETIME NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_shipments_sender ON shipments(sender_id)`,
	`CREATE INDEX IF NOT EXISTS idx_shipments_carrier ON shipments(carrier_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_shipment ON payments(shipment_id)`,
}

// Migrate creates every table the service needs. It is idempotent.
func Migrate(ctx context.Context, conn *sql.DB, d Dialect) error {
	stmts := mysqlSchema
	if d == SQLite {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
