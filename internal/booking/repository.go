package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"mylavanya/pkg/db"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const bookingColumns = `id, booking_number, job_number, name, phone, email, COALESCE(address,''), pincode,
service_name, COALESCE(sub_service,''), product_id, product_name, COALESCE(scheme,''), quantity,
price::text, date::text, to_char("time", 'HH24:MI'), status_code, status_updated_at,
artist_id, assigned_to, assigned_by, COALESCE(assigned_emp_code,''), assigned_at, created_at`

func scanBooking(scan func(dest ...any) error) (*Booking, error) {
	b := &Booking{}
	var priceStr string
	if err := scan(
		&b.ID, &b.BookingNumber, &b.JobNumber, &b.Name, &b.Phone, &b.Email, &b.Address, &b.Pincode,
		&b.ServiceName, &b.SubService, &b.ProductID, &b.ProductName, &b.Scheme, &b.Quantity,
		&priceStr, &b.Date, &b.Time, &b.StatusCode, &b.StatusUpdatedAt,
		&b.ArtistID, &b.AssignedTo, &b.AssignedBy, &b.EmpCode, &b.AssignedAt, &b.CreatedAt,
	); err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, err
	}
	b.Price = price
	return b, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.db.QueryRow(ctx, q, id).Scan)
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]Booking, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *Repository) List(ctx context.Context) ([]Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`
	return r.list(ctx, q)
}

func (r *Repository) ListByBookingNumber(ctx context.Context, bookingNumber int64) ([]Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_number = $1 ORDER BY job_number`
	return r.list(ctx, q, bookingNumber)
}

func (r *Repository) ListByPhone(ctx context.Context, phone string) ([]Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE phone = $1 ORDER BY created_at DESC`
	return r.list(ctx, q, phone)
}

func (r *Repository) ListByArtist(ctx context.Context, artistID int64) ([]Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE artist_id = $1 ORDER BY date, "time"`
	return r.list(ctx, q, artistID)
}

// LatestJob returns the newest job under a booking number, used to
// inherit customer context when adding another job.
func (r *Repository) LatestJob(ctx context.Context, bookingNumber int64) (*Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_number = $1 ORDER BY job_number DESC LIMIT 1`
	return scanBooking(r.db.QueryRow(ctx, q, bookingNumber).Scan)
}

// NewBookingNumber allocates the next booking number server-side.
func (r *Repository) NewBookingNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT nextval('booking_number_seq')`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

const insertRetries = 3

// CreateJob persists a new job, allocating max(job_number)+1 inside the
// insert transaction. Two racing creators can still read the same max,
// so the unique index on (booking_number, job_number) is the arbiter:
// the loser's insert fails with 23505 and is retried with a fresh number.
func (r *Repository) CreateJob(ctx context.Context, bookingNumber int64, build func(jobNumber int) (*Booking, error)) (*Booking, error) {
	var created *Booking
	for attempt := 0; attempt < insertRetries; attempt++ {
		err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
			var next int
			const qNext = `SELECT COALESCE(MAX(job_number), 0) + 1 FROM bookings WHERE booking_number = $1`
			if err := tx.QueryRow(ctx, qNext, bookingNumber).Scan(&next); err != nil {
				return err
			}

			b, err := build(next)
			if err != nil {
				return err
			}

			created, err = insertTx(ctx, tx, b)
			return err
		})
		if err == nil {
			return created, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("could not allocate job number after %d attempts", insertRetries)
}

func insertTx(ctx context.Context, tx pgx.Tx, b *Booking) (*Booking, error) {
	const q = `
INSERT INTO bookings (
  booking_number, job_number, name, phone, email, address, pincode,
  service_name, sub_service, product_id, product_name, scheme, quantity,
  price, date, "time", status_code, status_updated_at,
  artist_id, assigned_to, assigned_by, assigned_emp_code, assigned_at, created_at
) VALUES (
  $1, $2, $3, $4, $5, NULLIF($6,''), $7,
  $8, NULLIF($9,''), $10, $11, NULLIF($12,''), $13,
  CAST($14 AS numeric), CAST($15 AS date), CAST($16 AS time), $17, $18,
  $19, $20, $21, NULLIF($22,''), $23, $24
)
RETURNING ` + bookingColumns
	return scanBooking(tx.QueryRow(ctx, q,
		b.BookingNumber, b.JobNumber, b.Name, b.Phone, b.Email, b.Address, b.Pincode,
		b.ServiceName, b.SubService, b.ProductID, b.ProductName, b.Scheme, b.Quantity,
		b.Price.String(), b.Date, b.Time, b.StatusCode, b.StatusUpdatedAt,
		b.ArtistID, b.AssignedTo, b.AssignedBy, b.EmpCode, b.AssignedAt, b.CreatedAt,
	).Scan)
}

// ApplyPatch writes a diffed partial update and returns the merged row.
// An empty patch is a no-op read.
func (r *Repository) ApplyPatch(ctx context.Context, id int64, p *Patch) (*Booking, error) {
	if p.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	sets := make([]string, 0, 10)
	args := make([]any, 0, 11)
	add := func(expr string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}

	if p.Date != nil {
		add(`date = CAST($%d AS date)`, *p.Date)
	}
	if p.Time != nil {
		add(`"time" = CAST($%d AS time)`, *p.Time)
	}
	if p.Status != nil {
		add(`status_code = $%d`, *p.Status)
		add(`status_updated_at = $%d`, *p.StatusUpdatedAt)
	}
	if p.Address != nil {
		add(`address = NULLIF($%d,'')`, *p.Address)
	}
	if p.SetPincode {
		add(`pincode = $%d`, p.Pincode)
	}
	if p.Quantity != nil {
		add(`quantity = $%d`, *p.Quantity)
	}
	if p.ArtistID != nil {
		// The stamp travels with the artist id, never separately.
		add(`artist_id = $%d`, *p.ArtistID)
		add(`assigned_to = $%d`, p.Stamp.AssignedTo)
		add(`assigned_by = $%d`, p.Stamp.AssignedBy)
		add(`assigned_at = $%d`, p.Stamp.AssignedAt)
	}

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE bookings SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), bookingColumns)

	return scanBooking(r.db.QueryRow(ctx, q, args...).Scan)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
