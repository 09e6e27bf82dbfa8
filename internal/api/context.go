package api

import (
	"context"
	"strings"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
	RoleArtist = "artist"
)

// Actor is the authenticated user attached to a request. Booking
// operations receive it explicitly so assignment attribution never reads
// ambient state.
type Actor struct {
	ID        int64
	Role      string
	FirstName string
	LastName  string
	Username  string
}

// DisplayName is the attribution string stamped into assigned_by:
// full name, else username, else "admin".
func (a *Actor) DisplayName() string {
	if a != nil {
		name := strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
		if name != "" {
			return name
		}
		if u := strings.TrimSpace(a.Username); u != "" {
			return u
		}
	}
	return "admin"
}

type ctxKey string

const ctxKeyActor ctxKey = "actor"

func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, a)
}

func ActorFromContext(ctx context.Context) *Actor {
	v := ctx.Value(ctxKeyActor)
	if v == nil {
		return nil
	}
	a, _ := v.(*Actor)
	return a
}
