package booking

import (
	"strconv"
	"strings"
	"time"

	"mylavanya/internal/api"
	"mylavanya/internal/artist"
	"mylavanya/internal/status"
)

// EditInput carries the user-edited field values from the booking edit
// dialog. Nil means the field was not touched.
type EditInput struct {
	Date     *string `json:"date,omitempty"`
	Time     *string `json:"time,omitempty"`
	Status   *string `json:"status,omitempty"`
	Address  *string `json:"address,omitempty"`
	Pincode  *string `json:"pincode,omitempty"` // raw text; blank clears
	Quantity *int    `json:"quantity,omitempty"`
	ArtistID *int64  `json:"artistId,omitempty"`
}

// Patch is the diffed partial update for one booking. Nil fields are
// omitted from the UPDATE entirely.
type Patch struct {
	Date            *string
	Time            *string
	Status          *string
	StatusUpdatedAt *time.Time
	Address         *string
	SetPincode      bool
	Pincode         *int // nil with SetPincode means clear
	Quantity        *int
	ArtistID        *int64
	Stamp           *AssignmentStamp
}

func (p *Patch) IsEmpty() bool {
	return p.Date == nil && p.Time == nil && p.Status == nil && p.Address == nil &&
		!p.SetPincode && p.Quantity == nil && p.ArtistID == nil
}

// BuildPatch computes the diff-and-patch payload for an edit.
//
// Rules, in order:
//   - date is normalized to YYYY-MM-DD and included only when changed
//   - time passes through as-is when changed
//   - a status change stamps StatusUpdatedAt; re-selecting the current
//     status does not
//   - pincode parses to an integer (blank clears); non-numeric input is a
//     validation error, never sent through
//   - zero or negative quantity edits are dropped silently
//   - an artist change must carry the full assignment stamp, so the
//     resolved artist is required and the stamp is built here
//
// The artist-required gate runs last against the effective status and
// effective artist, so an invalid combination is rejected before any
// remote call.
func BuildPatch(cur *Booking, in EditInput, art *artist.Artist, actor *api.Actor, options []status.Option, now time.Time) (*Patch, error) {
	p := &Patch{}

	if in.Date != nil && strings.TrimSpace(*in.Date) != "" {
		d, err := NormalizeDate(strings.TrimSpace(*in.Date))
		if err != nil {
			return nil, err
		}
		if d != cur.Date {
			p.Date = &d
		}
	}

	if in.Time != nil && strings.TrimSpace(*in.Time) != "" {
		t := strings.TrimSpace(*in.Time)
		if t != cur.Time {
			p.Time = &t
		}
	}

	if in.Status != nil && *in.Status != "" && *in.Status != cur.StatusCode {
		s := *in.Status
		p.Status = &s
		p.StatusUpdatedAt = &now
	}

	if in.Address != nil && *in.Address != cur.Address {
		a := *in.Address
		p.Address = &a
	}

	if in.Pincode != nil {
		raw := strings.TrimSpace(*in.Pincode)
		if raw == "" {
			if cur.Pincode != nil {
				p.SetPincode = true
			}
		} else {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, ValidationError{Code: "VALIDATION_FAILED", Message: "pincode must be numeric"}
			}
			if cur.Pincode == nil || *cur.Pincode != n {
				p.SetPincode = true
				p.Pincode = &n
			}
		}
	}

	if in.Quantity != nil && *in.Quantity > 0 && *in.Quantity != cur.Quantity {
		q := *in.Quantity
		p.Quantity = &q
	}

	if in.ArtistID != nil && (cur.ArtistID == nil || *cur.ArtistID != *in.ArtistID) {
		if art == nil || art.ID != *in.ArtistID {
			return nil, ValidationError{Code: "ARTIST_NOT_FOUND", Message: "selected artist does not exist"}
		}
		id := art.ID
		stamp := NewAssignmentStamp(art.DisplayName(), actor, now)
		p.ArtistID = &id
		p.Stamp = &stamp
	}

	effectiveStatus := cur.StatusCode
	if p.Status != nil {
		effectiveStatus = *p.Status
	}
	hasArtist := cur.ArtistID != nil || p.ArtistID != nil
	if RequiresArtist(effectiveStatus, options) && !hasArtist {
		return nil, ErrArtistRequired
	}

	return p, nil
}
