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

type UserRepository struct {
	DB intdb.DBTX
}

func (r UserRepository) WithTx(tx *sql.Tx) UserRepository {
	return UserRepository{DB: tx}
}

const userColumns = `id, full_name, email, phone, national_id, password_hash, role,
	phone_verified, national_id_verified, balance_cents, COALESCE(otp_code, ''), otp_expiry, created_at`

func scanUser(row rowScanner) (models.User, error) {
	var (
		u               models.User
		id, balance     int64
		role            string
		expiry, created intdb.Time
	)
	if err := row.Scan(&id, &u.FullName, &u.Email, &u.Phone, &u.NationalID, &u.PasswordHash, &role,
		&u.PhoneVerified, &u.NationalIDVerified, &balance, &u.OTPCode, &expiry, &created); err != nil {
		return u, err
	}
	u.ID = domain.ID(id)
	u.Role = domain.Role(role)
	u.Balance = domain.Cents(balance)
	u.OTPExpiry = expiry.Ptr()
	u.CreatedAt = created.Time
	return u, nil
}

func (r UserRepository) Create(ctx context.Context, u *models.User) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (full_name, email, phone, national_id, password_hash, role,
		                   phone_verified, national_id_verified, balance_cents, otp_code, otp_expiry, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.FullName, u.Email, u.Phone, u.NationalID, u.PasswordHash, string(u.Role),
		u.PhoneVerified, u.NationalIDVerified, int64(u.Balance), intdb.NullIfEmpty(u.OTPCode),
		intdb.NullTimeArg(u.OTPExpiry), intdb.FormatTime(u.CreatedAt),
	)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return domain.ConflictError{Resource: "user", Msg: "email already registered", Err: err}
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted user id: %w", err)
	}
	u.ID = domain.ID(id)
	return nil
}

func (r UserRepository) GetByID(ctx context.Context, id domain.ID) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, int64(id))
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email)
}

func (r UserRepository) getOne(ctx context.Context, query string, arg any) (models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
		}
		return models.User{}, fmt.Errorf("failed to fetch user: %w", err)
	}
	return u, nil
}

func (r UserRepository) SetOTP(ctx context.Context, id domain.ID, code string, expiry time.Time) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET otp_code = ?, otp_expiry = ? WHERE id = ?`,
		code, intdb.FormatTime(expiry), int64(id))
	if err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

// MarkPhoneVerified also clears the one-time code so it cannot be reused.
func (r UserRepository) MarkPhoneVerified(ctx context.Context, id domain.ID) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET phone_verified = 1, otp_code = NULL, otp_expiry = NULL WHERE id = ?`, int64(id))
	if err != nil {
		return fmt.Errorf("failed to mark phone verified: %w", err)
	}
	return nil
}

// IncrementBalance is an atomic in-place add; it never reads the balance.
func (r UserRepository) IncrementBalance(ctx context.Context, id domain.ID, amount domain.Cents) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET balance_cents = balance_cents + ? WHERE id = ?`, int64(amount), int64(id))
	if err != nil {
		return fmt.Errorf("failed to update balance for user %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "carrier account"}
	}
	return nil
}
