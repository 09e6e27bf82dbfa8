package product

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Numeric columns travel as text; pgx has no native shopspring codec.
const productColumns = `id, product_name, service_name, COALESCE(sub_service,''), COALESCE(scheme,''), price::text, net_payable::text, active, created_at`

// ListActive returns the products offered on booking forms, ordered by
// product name.
func (r *Repository) ListActive(ctx context.Context) ([]Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE active
ORDER BY product_name
`
	return r.list(ctx, q)
}

func (r *Repository) List(ctx context.Context) ([]Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products ORDER BY product_name`
	return r.list(ctx, q)
}

func (r *Repository) list(ctx context.Context, q string) ([]Product, error) {
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRow(ctx, q, id).Scan)
}

func (r *Repository) Create(ctx context.Context, p *Product) (*Product, error) {
	const q = `
INSERT INTO products (product_name, service_name, sub_service, scheme, price, net_payable, active)
VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), CAST($5 AS numeric), CAST($6 AS numeric), $7)
RETURNING ` + productColumns

	var netStr *string
	if p.NetPayable != nil {
		s := p.NetPayable.String()
		netStr = &s
	}
	return scanProduct(r.db.QueryRow(ctx, q,
		p.ProductName, p.ServiceName, p.SubService, p.Scheme, p.Price.String(), netStr, p.Active,
	).Scan)
}

func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	const q = `UPDATE products SET active = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, q, active, id)
	return err
}

func scanProduct(scan func(dest ...any) error) (*Product, error) {
	p := &Product{}
	var priceStr string
	var netStr *string
	if err := scan(
		&p.ID, &p.ProductName, &p.ServiceName, &p.SubService, &p.Scheme,
		&priceStr, &netStr, &p.Active, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, err
	}
	p.Price = price
	if netStr != nil {
		net, err := decimal.NewFromString(*netStr)
		if err != nil {
			return nil, err
		}
		p.NetPayable = &net
	}
	return p, nil
}
