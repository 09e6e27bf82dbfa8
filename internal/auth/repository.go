package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// InvalidateCodes marks every outstanding code for the phone as used so
// only the freshest issued code can verify.
func (r *Repository) InvalidateCodes(ctx context.Context, phone string) error {
	const q = `UPDATE otp_codes SET used = TRUE WHERE phone = $1 AND NOT used`
	_, err := r.db.Exec(ctx, q, phone)
	return err
}

func (r *Repository) InsertCode(ctx context.Context, phone, codeHash string, expiresAt time.Time) error {
	const q = `
INSERT INTO otp_codes (phone, code_hash, expires_at)
VALUES ($1, $2, $3)
`
	_, err := r.db.Exec(ctx, q, phone, codeHash, expiresAt)
	return err
}

// LatestCode returns the newest unused code for the phone, if any.
func (r *Repository) LatestCode(ctx context.Context, phone string) (*Code, error) {
	const q = `
SELECT id, phone, code_hash, expires_at, attempts, used, created_at
FROM otp_codes
WHERE phone = $1 AND NOT used
ORDER BY created_at DESC
LIMIT 1
`
	c := &Code{}
	if err := r.db.QueryRow(ctx, q, phone).Scan(
		&c.ID, &c.Phone, &c.CodeHash, &c.ExpiresAt, &c.Attempts, &c.Used, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Repository) BumpAttempts(ctx context.Context, id int64) error {
	const q = `UPDATE otp_codes SET attempts = attempts + 1 WHERE id = $1`
	_, err := r.db.Exec(ctx, q, id)
	return err
}

func (r *Repository) MarkUsed(ctx context.Context, id int64) error {
	const q = `UPDATE otp_codes SET used = TRUE WHERE id = $1`
	_, err := r.db.Exec(ctx, q, id)
	return err
}
