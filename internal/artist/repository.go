package artist

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const artistColumns = `id, first_name, last_name, COALESCE(emp_code,''), COALESCE(phone,''), active, created_at`

// ListActiveOptions returns assignment candidates for booking forms.
func (r *Repository) ListActiveOptions(ctx context.Context) ([]Option, error) {
	const q = `
SELECT id, TRIM(CONCAT(first_name, ' ', last_name))
FROM artists
WHERE active
ORDER BY first_name, last_name
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Option
	for rows.Next() {
		var o Option
		if err := rows.Scan(&o.ID, &o.DisplayName); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Artist, error) {
	const q = `SELECT ` + artistColumns + ` FROM artists WHERE id = $1`
	a := &Artist{}
	if err := r.db.QueryRow(ctx, q, id).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.EmpCode, &a.Phone, &a.Active, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return a, nil
}

// FindByUserID resolves the artist profile behind an artist-role login.
func (r *Repository) FindByUserID(ctx context.Context, userID int64) (*Artist, error) {
	const q = `SELECT ` + artistColumns + ` FROM artists WHERE user_id = $1`
	a := &Artist{}
	if err := r.db.QueryRow(ctx, q, userID).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.EmpCode, &a.Phone, &a.Active, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repository) List(ctx context.Context) ([]Artist, error) {
	const q = `SELECT ` + artistColumns + ` FROM artists ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Artist
	for rows.Next() {
		var a Artist
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.EmpCode, &a.Phone, &a.Active, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) Create(ctx context.Context, a *Artist) (*Artist, error) {
	const q = `
INSERT INTO artists (first_name, last_name, emp_code, phone, active)
VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), $5)
RETURNING ` + artistColumns
	out := &Artist{}
	if err := r.db.QueryRow(ctx, q, a.FirstName, a.LastName, a.EmpCode, a.Phone, a.Active).Scan(
		&out.ID, &out.FirstName, &out.LastName, &out.EmpCode, &out.Phone, &out.Active, &out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	const q = `UPDATE artists SET active = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, q, active, id)
	return err
}
