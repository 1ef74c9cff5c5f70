package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intdb "swiftlink/internal/db"
	"swiftlink/internal/domain"
	"swiftlink/internal/domain/models"
)

type PaymentRepository struct {
	DB intdb.DBTX
}

func (r PaymentRepository) WithTx(tx *sql.Tx) PaymentRepository {
	return PaymentRepository{DB: tx}
}

const paymentColumns = `id, shipment_id, reference, amount_cents, platform_fee_cents, status, released_at, created_at`

func scanPayment(row rowScanner) (models.Payment, error) {
	var (
		p                 models.Payment
		id, shipmentID    int64
		amount, fee       int64
		status            string
		released, created intdb.Time
	)
	if err := row.Scan(&id, &shipmentID, &p.Reference, &amount, &fee, &status, &released, &created); err != nil {
		return p, err
	}
	p.ID = domain.ID(id)
	p.ShipmentID = domain.ID(shipmentID)
	p.Amount = domain.Cents(amount)
	p.PlatformFee = domain.Cents(fee)
	p.Status = domain.PaymentStatus(status)
	p.ReleasedAt = released.Ptr()
	p.CreatedAt = created.Time
	return p, nil
}

// Insert stores p and fills in its ID. Released rows carry the shipment id
// in release_key, whose unique index allows at most one release per
// shipment.
func (r PaymentRepository) Insert(ctx context.Context, p *models.Payment) error {
	var releaseKey any
	if p.Status == domain.PaymentReleased {
		releaseKey = int64(p.ShipmentID)
	}
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO payments (shipment_id, reference, amount_cents, platform_fee_cents, status, release_key, released_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(p.ShipmentID), p.Reference, int64(p.Amount), int64(p.PlatformFee), string(p.Status),
		releaseKey, intdb.NullTimeArg(p.ReleasedAt), intdb.FormatTime(p.CreatedAt),
	)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return domain.ConflictError{Resource: "payment", Msg: "duplicate reference or release", Err: err}
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted payment id: %w", err)
	}
	p.ID = domain.ID(id)
	return nil
}

func (r PaymentRepository) ListByShipment(ctx context.Context, shipmentID domain.ID) ([]models.Payment, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE shipment_id = ? ORDER BY id ASC`, int64(shipmentID))
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	out := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetReleased returns the release row for a shipment.
func (r PaymentRepository) GetReleased(ctx context.Context, shipmentID domain.ID) (models.Payment, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE release_key = ? LIMIT 1`, int64(shipmentID))
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Payment{}, domain.NotFoundError{Resource: "released payment", Err: err}
		}
		return models.Payment{}, fmt.Errorf("failed to fetch released payment: %w", err)
	}
	return p, nil
}
