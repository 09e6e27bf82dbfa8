package status

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

func (r *Repository) ListActive(ctx context.Context) ([]Option, error) {
	const q = `
SELECT code, name, requires_artist, sequence, active
FROM status_codes
WHERE active
ORDER BY sequence
`
	return r.list(ctx, q)
}

func (r *Repository) List(ctx context.Context) ([]Option, error) {
	const q = `SELECT code, name, requires_artist, sequence, active FROM status_codes ORDER BY sequence`
	return r.list(ctx, q)
}

func (r *Repository) list(ctx context.Context, q string) ([]Option, error) {
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Option
	for rows.Next() {
		var o Option
		if err := rows.Scan(&o.Code, &o.Name, &o.RequiresArtist, &o.Sequence, &o.Active); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) Upsert(ctx context.Context, o *Option) (*Option, error) {
	const q = `
INSERT INTO status_codes (code, name, requires_artist, sequence, active)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (code) DO UPDATE SET
  name = EXCLUDED.name,
  requires_artist = EXCLUDED.requires_artist,
  sequence = EXCLUDED.sequence,
  active = EXCLUDED.active
RETURNING code, name, requires_artist, sequence, active
`
	out := &Option{}
	if err := r.db.QueryRow(ctx, q, o.Code, o.Name, o.RequiresArtist, o.Sequence, o.Active).Scan(
		&out.Code, &out.Name, &out.RequiresArtist, &out.Sequence, &out.Active,
	); err != nil {
		return nil, err
	}
	return out, nil
}
