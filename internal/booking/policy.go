package booking

import (
	"time"

	"mylavanya/internal/api"
	"mylavanya/internal/status"
)

// RequiresArtist reports whether a status cannot be persisted without an
// assigned artist. The rule comes from the loaded status options so the
// admin-managed table stays the single source of truth.
func RequiresArtist(code string, options []status.Option) bool {
	for _, o := range options {
		if o.Code == code {
			return o.RequiresArtist
		}
	}
	return false
}

// ResolveStatusName looks up the display label for a code. Unknown codes
// fall back to "Pending" (a fresh job before the option list loads).
func ResolveStatusName(code string, options []status.Option) string {
	for _, o := range options {
		if o.Code == code {
			return o.Name
		}
	}
	return "Pending"
}

// AssignmentStamp is the trio written together whenever the assigned
// artist changes. The fields never move independently: a stale name next
// to a fresh assigner would be worse than no stamp at all.
type AssignmentStamp struct {
	AssignedTo string
	AssignedBy string
	AssignedAt time.Time
}

// NewAssignmentStamp builds the stamp for an artist (re)assignment.
// Attribution prefers the actor's full name, then username, then the
// literal "admin" when no actor context exists.
func NewAssignmentStamp(artistName string, actor *api.Actor, now time.Time) AssignmentStamp {
	return AssignmentStamp{
		AssignedTo: artistName,
		AssignedBy: actor.DisplayName(),
		AssignedAt: now,
	}
}
