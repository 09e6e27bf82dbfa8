package artist

import (
	"strings"
	"time"
)

type Artist struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	EmpCode   string    `json:"empCode,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayName is the denormalized name snapshot written into
// bookings.assigned_to.
func (a *Artist) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}

// Option is the shape booking forms consume.
type Option struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
}
