package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/sportmate/internal/model"
	"github.com/xxxsen/sportmate/internal/pkg/dbutil"
	appErr "github.com/xxxsen/sportmate/internal/pkg/errors"
)

// OTPRepo keeps one row per email. Replace is a single upsert so two
// concurrent issues for the same email can never leave two live codes.
type OTPRepo struct {
	db *sql.DB
}

func NewOTPRepo(db *sql.DB) *OTPRepo {
	return &OTPRepo{db: db}
}

const otpUpsertSQL = `INSERT INTO otps (email, id, code_hash, purpose, expires_at, attempts, ctime)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (email) DO UPDATE SET
	id = EXCLUDED.id,
	code_hash = EXCLUDED.code_hash,
	purpose = EXCLUDED.purpose,
	expires_at = EXCLUDED.expires_at,
	attempts = EXCLUDED.attempts,
	ctime = EXCLUDED.ctime`

func (r *OTPRepo) Replace(ctx context.Context, code *model.OTP) error {
	sqlStr, args := dbutil.Finalize(otpUpsertSQL, []interface{}{
		code.Email, code.ID, code.CodeHash, string(code.Purpose), code.ExpiresAt, code.Attempts, code.Ctime,
	})
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *OTPRepo) Get(ctx context.Context, email string, purpose model.OTPPurpose) (*model.OTP, error) {
	where := map[string]interface{}{"email": email, "purpose": string(purpose), "_limit": []uint{0, 1}}
	sqlStr, args, err := builder.BuildSelect("otps", where, []string{"id", "email", "code_hash", "purpose", "expires_at", "attempts", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var (
		code       model.OTP
		purposeStr string
	)
	if err := rows.Scan(&code.ID, &code.Email, &code.CodeHash, &purposeStr, &code.ExpiresAt, &code.Attempts, &code.Ctime); err != nil {
		return nil, err
	}
	code.Purpose = model.OTPPurpose(purposeStr)
	return &code, nil
}

func (r *OTPRepo) Delete(ctx context.Context, id string) error {
	sqlStr, args, err := builder.BuildDelete("otps", map[string]interface{}{"id": id})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *OTPRepo) IncrementAttempts(ctx context.Context, id string) (int, error) {
	sqlStr, args := dbutil.Finalize("UPDATE otps SET attempts = attempts + 1 WHERE id = ? RETURNING attempts", []interface{}{id})
	var attempts int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&attempts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErr.ErrNotFound
		}
		return 0, err
	}
	return attempts, nil
}

func (r *OTPRepo) DeleteExpired(ctx context.Context, before int64) (int64, error) {
	sqlStr, args, err := builder.BuildDelete("otps", map[string]interface{}{"expires_at <": before})
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
