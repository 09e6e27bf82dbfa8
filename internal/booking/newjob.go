package booking

import (
	"strconv"
	"strings"
	"time"

	"mylavanya/internal/api"
	"mylavanya/internal/artist"
	"mylavanya/internal/product"
	"mylavanya/internal/status"
)

// NewJobInput is the form payload for adding a job: either an extra job
// under an existing booking number or the first job of a new booking.
type NewJobInput struct {
	Product  *product.Product
	Date     string
	Time     string
	Quantity int

	StatusCode string

	// Artist must be resolved by the caller when an artist was selected.
	Artist *artist.Artist

	// Address/Pincode override the inherited customer context when set.
	Address *string
	Pincode *string
}

// BuildJob assembles a new Booking from the parent's customer context and
// the selected product. The job number is allocated by the repository;
// this stays pure so the whole assembly is testable without a database.
func BuildJob(parent *Booking, in NewJobInput, jobNumber int, actor *api.Actor, options []status.Option, now time.Time) (*Booking, error) {
	if in.Product == nil {
		return nil, ValidationError{Code: "VALIDATION_FAILED", Message: "a service product is required"}
	}
	if strings.TrimSpace(in.Date) == "" || strings.TrimSpace(in.Time) == "" {
		return nil, ValidationError{Code: "VALIDATION_FAILED", Message: "date and time are required"}
	}
	date, err := NormalizeDate(strings.TrimSpace(in.Date))
	if err != nil {
		return nil, err
	}

	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, ValidationError{Code: "VALIDATION_FAILED", Message: "quantity must be at least 1"}
	}

	statusCode := in.StatusCode
	if statusCode == "" {
		statusCode = status.CodePending
	}
	if RequiresArtist(statusCode, options) && in.Artist == nil {
		return nil, ErrArtistRequired
	}

	b := &Booking{
		BookingNumber: parent.BookingNumber,
		JobNumber:     jobNumber,
		Name:          parent.Name,
		Phone:         parent.Phone,
		Email:         parent.Email,
		Address:       parent.Address,
		Pincode:       parent.Pincode,
		ServiceName:   in.Product.ServiceName,
		SubService:    in.Product.SubService,
		ProductID:     &in.Product.ID,
		ProductName:   in.Product.ProductName,
		Scheme:        in.Product.Scheme,
		Quantity:      quantity,
		Price:         in.Product.EffectivePrice(),
		Date:          date,
		Time:          strings.TrimSpace(in.Time),

		StatusCode:      statusCode,
		StatusName:      ResolveStatusName(statusCode, options),
		StatusUpdatedAt: now,
		CreatedAt:       now,
	}

	if in.Address != nil && strings.TrimSpace(*in.Address) != "" {
		b.Address = strings.TrimSpace(*in.Address)
	}
	if in.Pincode != nil {
		raw := strings.TrimSpace(*in.Pincode)
		if raw == "" {
			b.Pincode = nil
		} else {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, ValidationError{Code: "VALIDATION_FAILED", Message: "pincode must be numeric"}
			}
			b.Pincode = &n
		}
	}

	if in.Artist != nil {
		stamp := NewAssignmentStamp(in.Artist.DisplayName(), actor, now)
		id := in.Artist.ID
		b.ArtistID = &id
		b.AssignedTo = &stamp.AssignedTo
		b.AssignedBy = &stamp.AssignedBy
		b.AssignedAt = &stamp.AssignedAt
		b.EmpCode = in.Artist.EmpCode
	}

	return b, nil
}
