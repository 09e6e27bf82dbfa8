package user

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mylavanya/internal/api"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, email, phone, first_name, last_name, COALESCE(username,''), role, active, COALESCE(password_hash,''), created_at, updated_at`

func (r *Repository) FindByID(ctx context.Context, id int64) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, q, id))
}

func (r *Repository) FindByPhone(ctx context.Context, phone string) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	return r.scanOne(r.db.QueryRow(ctx, q, phone))
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return r.scanOne(r.db.QueryRow(ctx, q, email))
}

// FindActor satisfies api.ActorSource: only active accounts can act.
func (r *Repository) FindActor(ctx context.Context, id int64) (*api.Actor, error) {
	const q = `
SELECT id, role, first_name, last_name, COALESCE(username,'')
FROM users
WHERE id = $1 AND active
`
	a := &api.Actor{}
	if err := r.db.QueryRow(ctx, q, id).Scan(&a.ID, &a.Role, &a.FirstName, &a.LastName, &a.Username); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	const q = `
INSERT INTO users (email, phone, first_name, last_name, username, role, password_hash, active)
VALUES ($1, $2, $3, $4, NULLIF($5,''), $6, NULLIF($7,''), $8)
RETURNING ` + userColumns
	return r.scanOne(r.db.QueryRow(ctx, q,
		u.Email, u.Phone, u.FirstName, u.LastName, u.Username, u.Role, u.PasswordHash, u.Active,
	))
}

func (r *Repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, q, passwordHash, id)
	return err
}

func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	const q = `UPDATE users SET active = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, q, active, id)
	return err
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Phone, &u.FirstName, &u.LastName, &u.Username,
			&u.Role, &u.Active, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repository) scanOne(row interface{ Scan(dest ...any) error }) (*User, error) {
	u := &User{}
	if err := row.Scan(
		&u.ID, &u.Email, &u.Phone, &u.FirstName, &u.LastName, &u.Username,
		&u.Role, &u.Active, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}
