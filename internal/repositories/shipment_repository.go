package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intdb "swiftlink/internal/db"
	"swiftlink/internal/domain"
	"swiftlink/internal/domain/models"
)

type ShipmentRepository struct {
	DB intdb.DBTX
}

func (r ShipmentRepository) WithTx(tx *sql.Tx) ShipmentRepository {
	return ShipmentRepository{DB: tx}
}

const shipmentColumns = `
	s.id, s.flight_id, s.sender_id, s.carrier_id, s.item_grams,
	s.acceptor_name, s.acceptor_phone, s.acceptor_national_id,
	s.tracking_code, s.status, s.fee_cents, s.acceptor_verified,
	s.created_at, s.updated_at, s.delivered_at`

func scanShipment(row rowScanner) (models.Shipment, error) {
	var (
		s                           models.Shipment
		id, flightID, senderID      int64
		carrierID, grams            int64
		fee                         sql.NullInt64
		status                      string
		verified                    bool
		created, updated, delivered intdb.Time
	)
	if err := row.Scan(
		&id, &flightID, &senderID, &carrierID, &grams,
		&s.AcceptorName, &s.AcceptorPhone, &s.AcceptorNationalID,
		&s.TrackingCode, &status, &fee, &verified,
		&created, &updated, &delivered,
	); err != nil {
		return s, err
	}
	s.ID = domain.ID(id)
	s.FlightID = domain.ID(flightID)
	s.SenderID = domain.ID(senderID)
	s.CarrierID = domain.ID(carrierID)
	s.ItemWeight = domain.Grams(grams)
	s.Status = domain.ShipmentStatus(status)
	if fee.Valid {
		c := domain.Cents(fee.Int64)
		s.Fee = &c
	}
	s.AcceptorVerified = verified
	s.CreatedAt = created.Time
	s.UpdatedAt = updated.Time
	s.DeliveredAt = delivered.Ptr()
	return s, nil
}

// Create inserts s and fills in its ID. A duplicate tracking code is
// reported as a ConflictError so the caller can retry with a fresh code.
func (r ShipmentRepository) Create(ctx context.Context, s *models.Shipment) error {
	var fee any
	if s.Fee != nil {
		fee = int64(*s.Fee)
	}
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO shipments
		(flight_id, sender_id, carrier_id, item_grams, acceptor_name, acceptor_phone, acceptor_national_id,
		 tracking_code, status, fee_cents, acceptor_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(s.FlightID), int64(s.SenderID), int64(s.CarrierID), int64(s.ItemWeight),
		s.AcceptorName, s.AcceptorPhone, s.AcceptorNationalID,
		s.TrackingCode, string(s.Status), fee, s.AcceptorVerified,
		intdb.FormatTime(s.CreatedAt), intdb.FormatTime(s.UpdatedAt),
	)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return domain.ConflictError{Resource: "shipment", Msg: "tracking code already used", Err: err}
		}
		return fmt.Errorf("failed to insert shipment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted shipment id: %w", err)
	}
	s.ID = domain.ID(id)
	return nil
}

func (r ShipmentRepository) GetByTrackingCode(ctx context.Context, code string) (models.Shipment, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+shipmentColumns+` FROM shipments s WHERE s.tracking_code = ? LIMIT 1`, code)
	s, err := scanShipment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Shipment{}, domain.NotFoundError{Resource: "shipment", Err: err}
		}
		return models.Shipment{}, fmt.Errorf("failed to fetch shipment: %w", err)
	}
	return s, nil
}

// ListByParty returns shipments where userID is the sender or the carrier.
func (r ShipmentRepository) ListByParty(ctx context.Context, userID domain.ID) ([]models.Shipment, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+shipmentColumns+`
		FROM shipments s
		WHERE s.sender_id = ? OR s.carrier_id = ?
		ORDER BY s.created_at DESC, s.id DESC`, int64(userID), int64(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}
	defer rows.Close()

	out := []models.Shipment{}
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shipment: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Transition moves the shipment to `to` only if its current status is one
// of `from`. It reports whether the row changed; a false result means some
// other request got there first (or the shipment was never in `from`).
func (r ShipmentRepository) Transition(ctx context.Context, id domain.ID, from []domain.ShipmentStatus, to domain.ShipmentStatus, now time.Time) (bool, error) {
	return r.transition(ctx, "id = ?", int64(id), from, to, now)
}

// TransitionByCode is Transition keyed by tracking code. As the first
// statement of a transaction it takes the row lock before any snapshot read,
// so a follow-up read sees the committed state of a concurrent winner.
func (r ShipmentRepository) TransitionByCode(ctx context.Context, code string, from []domain.ShipmentStatus, to domain.ShipmentStatus, now time.Time) (bool, error) {
	return r.transition(ctx, "tracking_code = ?", code, from, to, now)
}

func (r ShipmentRepository) transition(ctx context.Context, where string, key any, from []domain.ShipmentStatus, to domain.ShipmentStatus, now time.Time) (bool, error) {
	if len(from) == 0 {
		return false, fmt.Errorf("transition needs at least one source status")
	}
	placeholders := make([]string, len(from))
	args := []any{string(to), intdb.FormatTime(now)}
	set := "status = ?, updated_at = ?"
	if to == domain.ShipmentDelivered {
		set += ", delivered_at = ?"
		args = append(args, intdb.FormatTime(now))
	}
	args = append(args, key)
	for i, st := range from {
		placeholders[i] = "?"
		args = append(args, string(st))
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE shipments SET `+set+` WHERE `+where+` AND status IN (`+strings.Join(placeholders, ",")+`)`,
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update shipment status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}

func (r ShipmentRepository) MarkAcceptorVerified(ctx context.Context, id domain.ID, now time.Time) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE shipments SET acceptor_verified = 1, updated_at = ? WHERE id = ?`,
		intdb.FormatTime(now), int64(id))
	if err != nil {
		return fmt.Errorf("failed to mark acceptor verified: %w", err)
	}
	return nil
}

// TrackingView joins shipment, flight and both parties. Only public
// columns are selected.
func (r ShipmentRepository) TrackingView(ctx context.Context, code string) (models.ShipmentView, error) {
	var (
		v                models.ShipmentView
		status, fstatus  string
		grams            int64
		fee              sql.NullInt64
		verified         bool
		created, deliver intdb.Time
		departure        intdb.Time
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT s.tracking_code, s.status, s.item_grams, s.acceptor_name, s.acceptor_verified,
		       s.fee_cents, s.created_at, s.delivered_at,
		       f.route_from, f.route_to, f.departure_date, f.status,
		       COALESCE(su.full_name, ''), COALESCE(su.phone, ''),
		       COALESCE(cu.full_name, ''), COALESCE(cu.phone, '')
		FROM shipments s
		JOIN flights f ON f.id = s.flight_id
		LEFT JOIN users su ON su.id = s.sender_id
		LEFT JOIN users cu ON cu.id = s.carrier_id
		WHERE s.tracking_code = ?
		LIMIT 1`, code,
	).Scan(
		&v.TrackingCode, &status, &grams, &v.AcceptorName, &verified,
		&fee, &created, &deliver,
		&v.Flight.From, &v.Flight.To, &departure, &fstatus,
		&v.Sender.FullName, &v.Sender.Phone,
		&v.Carrier.FullName, &v.Carrier.Phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ShipmentView{}, domain.NotFoundError{Resource: "shipment", Err: err}
		}
		return models.ShipmentView{}, fmt.Errorf("failed to load tracking view: %w", err)
	}
	v.Status = domain.ShipmentStatus(status)
	v.ItemWeight = domain.Grams(grams)
	v.AcceptorVerified = verified
	if fee.Valid {
		c := domain.Cents(fee.Int64)
		v.Fee = &c
	}
	v.CreatedAt = created.Time
	v.DeliveredAt = deliver.Ptr()
	v.Flight.DepartureDate = departure.Time
	v.Flight.Status = domain.FlightStatus(fstatus)
	return v, nil
}
