package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mylavanya/pkg/config"
	"mylavanya/pkg/token"
)

// ActorSource resolves a verified token subject to a live account.
// Implemented by user.Repository; kept as an interface so middleware does
// not depend on the storage package.
type ActorSource interface {
	FindActor(ctx context.Context, id int64) (*Actor, error)
}

// SessionAuth validates Bearer access tokens and attaches the acting user
// to the request context.
//
// Expected header:
// - Authorization: Bearer <JWT>
func SessionAuth(cfg config.Config, users ActorSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
				return
			}

			id, err := token.Verify(strings.TrimSpace(authz[7:]), cfg.Auth.JWTSecret, time.Now())
			if err != nil || id.Purpose != token.PurposeAccess {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session token")
				return
			}

			userID, err := strconv.ParseInt(id.UserID, 10, 64)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session token")
				return
			}

			// Re-load the account so deactivated users lose access before
			// their token expires.
			actor, err := users.FindActor(r.Context(), userID)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unknown user")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireRole gates a route group to the listed roles. Must run after
// SessionAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a := ActorFromContext(r.Context())
			if a == nil {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
				return
			}
			if !allowed[a.Role] {
				WriteError(w, http.StatusForbidden, "FORBIDDEN", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
