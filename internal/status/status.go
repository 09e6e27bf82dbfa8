package status

// Option is one admin-managed status code. RequiresArtist drives the
// assignment gate in the booking workflow; keeping it on the row means
// the rule has exactly one source of truth.
type Option struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	RequiresArtist bool   `json:"requiresArtist"`
	Sequence       int    `json:"sequence"`
	Active         bool   `json:"active"`
}

// Well-known codes seeded by the migrations. Admins can add more; these
// are the ones the workflow itself references.
const (
	CodePending            = "pending"
	CodeConfirmed          = "confirmed"
	CodeBeauticianAssigned = "beautician_assigned"
	CodeOnTheWay           = "on_the_way"
	CodeServiceStarted     = "service_started"
	CodeDone               = "done"
	CodeCancelled          = "cancelled"
)
