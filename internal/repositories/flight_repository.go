package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	intdb "swiftlink/internal/db"
	"swiftlink/internal/domain"
	"swiftlink/internal/domain/models"
)

type FlightRepository struct {
	DB intdb.DBTX
}

// WithTx binds the repository to an open transaction.
func (r FlightRepository) WithTx(tx *sql.Tx) FlightRepository {
	return FlightRepository{DB: tx}
}

const flightColumns = `
	f.id, f.carrier_id, f.route_from, f.route_to, f.departure_date,
	f.available_grams, f.price_per_kg_cents, f.status, f.created_at, f.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlight(row rowScanner, extra ...any) (models.Flight, error) {
	var (
		f         models.Flight
		price     sql.NullInt64
		dep       intdb.Time
		created   intdb.Time
		updated   intdb.Time
		status    string
		carrierID int64
		id        int64
		grams     int64
		routeFrom string
		routeTo   string
	)
	dest := []any{&id, &carrierID, &routeFrom, &routeTo, &dep, &grams, &price, &status, &created, &updated}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return f, err
	}
	f.ID = domain.ID(id)
	f.CarrierID = domain.ID(carrierID)
	f.From = routeFrom
	f.To = routeTo
	f.DepartureDate = dep.Time
	f.AvailableKg = domain.Grams(grams)
	if price.Valid {
		c := domain.Cents(price.Int64)
		f.PricePerKg = &c
	}
	f.Status = domain.FlightStatus(status)
	f.CreatedAt = created.Time
	f.UpdatedAt = updated.Time
	return f, nil
}

func (r FlightRepository) Create(ctx context.Context, in models.NewFlight, now time.Time) (models.Flight, error) {
	var price any
	if in.PricePerKg != nil {
		price = int64(*in.PricePerKg)
	}
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO flights (carrier_id, route_from, route_to, departure_date, available_grams, price_per_kg_cents, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(in.CarrierID), in.From, in.To, intdb.FormatTime(in.DepartureDate),
		int64(in.AvailableKg), price, string(domain.FlightOnTime),
		intdb.FormatTime(now), intdb.FormatTime(now),
	)
	if err != nil {
		return models.Flight{}, fmt.Errorf("failed to insert flight: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Flight{}, fmt.Errorf("failed to get inserted flight id: %w", err)
	}
	return r.GetByID(ctx, domain.ID(id))
}

func (r FlightRepository) GetByID(ctx context.Context, id domain.ID) (models.Flight, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+flightColumns+` FROM flights f WHERE f.id = ? LIMIT 1`, int64(id))
	f, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Flight{}, domain.NotFoundError{Resource: "flight", Err: err}
		}
		return models.Flight{}, fmt.Errorf("failed to fetch flight %d: %w", id, err)
	}
	return f, nil
}

// FlightFilter narrows List. The zero value lists every flight.
type FlightFilter struct {
	OnlyBookable bool
	CarrierID    domain.ID
}

// List returns flights joined with the carrier's public identity, ordered
// by departure date.
func (r FlightRepository) List(ctx context.Context, filter FlightFilter) ([]models.Flight, error) {
	query := `SELECT ` + flightColumns + `, COALESCE(u.full_name, ''), COALESCE(u.phone, '')
		FROM flights f
		LEFT JOIN users u ON u.id = f.carrier_id
		WHERE 1=1`
	args := []any{}
	if filter.OnlyBookable {
		query += ` AND f.available_grams > 0 AND f.status = ?`
		args = append(args, string(domain.FlightOnTime))
	}
	if filter.CarrierID > 0 {
		query += ` AND f.carrier_id = ?`
		args = append(args, int64(filter.CarrierID))
	}
	query += ` ORDER BY f.departure_date ASC, f.id ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}
	defer rows.Close()

	out := []models.Flight{}
	for rows.Next() {
		var name, phone string
		f, err := scanFlight(rows, &name, &phone)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flight: %w", err)
		}
		f.Carrier = &models.PartyInfo{FullName: name, Phone: phone}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r FlightRepository) UpdateStatus(ctx context.Context, id domain.ID, status domain.FlightStatus, now time.Time) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE flights SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), intdb.FormatTime(now), int64(id))
	if err != nil {
		return fmt.Errorf("failed to update flight status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "flight"}
	}
	return nil
}

// Reserve is the single conditional decrement backing a booking. It reports
// false when the flight is missing, canceled or has less than grams left at
// the moment the statement runs; the caller distinguishes those cases.
func (r FlightRepository) Reserve(ctx context.Context, id domain.ID, grams domain.Grams, now time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE flights
		SET available_grams = available_grams - ?, updated_at = ?
		WHERE id = ? AND status <> ? AND available_grams >= ?`,
		int64(grams), intdb.FormatTime(now), int64(id), string(domain.FlightCanceled), int64(grams),
	)
	if err != nil {
		return false, fmt.Errorf("failed to reserve capacity on flight %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}

// Release gives grams back to the flight.
func (r FlightRepository) Release(ctx context.Context, id domain.ID, grams domain.Grams, now time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE flights
		SET available_grams = available_grams + ?, updated_at = ?
		WHERE id = ?`,
		int64(grams), intdb.FormatTime(now), int64(id),
	)
	if err != nil {
		return fmt.Errorf("failed to release capacity on flight %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "flight"}
	}
	return nil
}
