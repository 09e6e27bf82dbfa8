package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is satisfied by both *pgxpool.Pool and pgx.Tx, so entries can be
// written inside or outside a transaction.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const (
	ActionJobCreated     = "JOB_CREATED"
	ActionBookingUpdated = "BOOKING_UPDATED"
	ActionStatusChanged  = "STATUS_CHANGED"
	ActionArtistAssigned = "ARTIST_ASSIGNED"
)

func Insert(ctx context.Context, db Execer, bookingID *int64, action, actor string, metadata any) error {
	var s *string
	if metadata != nil {
		b, _ := json.Marshal(metadata)
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO audit_logs (booking_id, action, actor, metadata)
VALUES ($1, $2, $3, CAST($4 AS jsonb))
`
	_, err := db.Exec(ctx, q, bookingID, action, actor, s)
	return err
}
