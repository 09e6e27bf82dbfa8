package booking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Booking is one schedulable job. Several jobs placed together share a
// booking number; job numbers sequence them within it, starting at 1.
//
// Only the status code is persisted; the display name is resolved from
// the status table at read time.
type Booking struct {
	ID            int64 `json:"id"`
	BookingNumber int64 `json:"bookingNumber"`
	JobNumber     int   `json:"jobNumber"`

	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email,omitempty"`
	Address string  `json:"address,omitempty"`
	Pincode *int    `json:"pincode,omitempty"`

	ServiceName string `json:"serviceName"`
	SubService  string `json:"subService,omitempty"`
	ProductID   *int64 `json:"productId,omitempty"`
	ProductName string `json:"productName"`
	Scheme      string `json:"scheme,omitempty"`
	Quantity    int    `json:"quantity"`

	// Price is the product's net payable snapshotted at booking time.
	Price decimal.Decimal `json:"price"`

	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM, local time-of-day

	StatusCode      string    `json:"status"`
	StatusName      string    `json:"statusName,omitempty"` // resolved, never stored
	StatusUpdatedAt time.Time `json:"statusUpdatedAt"`

	ArtistID   *int64     `json:"artistId,omitempty"`
	AssignedTo *string    `json:"assignedTo,omitempty"`
	AssignedBy *string    `json:"assignedBy,omitempty"`
	EmpCode    string     `json:"artistEmpCode,omitempty"`
	AssignedAt *time.Time `json:"assignedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// ValidationError is a pre-request failure: the save is rejected locally
// and nothing is written.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrArtistRequired gates transitions into assignment-required statuses.
var ErrArtistRequired = ValidationError{Code: "ARTIST_REQUIRED", Message: "this status requires an assigned artist"}

const dateLayout = "2006-01-02"

// NormalizeDate reformats a calendar date to YYYY-MM-DD, tolerating a
// full timestamp input.
func NormalizeDate(s string) (string, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.Format(dateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(dateLayout), nil
	}
	return "", ValidationError{Code: "VALIDATION_FAILED", Message: "date must be YYYY-MM-DD"}
}
