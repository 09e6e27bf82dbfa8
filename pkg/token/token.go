package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose distinguishes full access tokens from the short-lived reset
// tokens issued after OTP verification.
type Purpose string

const (
	PurposeAccess        Purpose = "access"
	PurposePasswordReset Purpose = "password_reset"
)

type Claims struct {
	jwt.RegisteredClaims

	Role      string  `json:"role,omitempty"`
	FirstName string  `json:"firstName,omitempty"`
	LastName  string  `json:"lastName,omitempty"`
	Username  string  `json:"username,omitempty"`
	Purpose   Purpose `json:"purpose,omitempty"`
}

type Identity struct {
	UserID    string
	Role      string
	FirstName string
	LastName  string
	Username  string
	Purpose   Purpose
	ExpiresAt time.Time
}

// Sign mints an HS256 token for the given identity. The subject claim
// carries the user ID.
func Sign(secret string, id Identity, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("missing jwt secret")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:      id.Role,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Username:  id.Username,
		Purpose:   id.Purpose,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// Verify validates an HS256 token and returns the identity it carries.
func Verify(tokenString, secret string, now time.Time) (*Identity, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	if secret == "" {
		return nil, fmt.Errorf("missing jwt secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	claims := &Claims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return nil, fmt.Errorf("token expired")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("missing subject")
	}

	purpose := claims.Purpose
	if purpose == "" {
		purpose = PurposeAccess
	}

	return &Identity{
		UserID:    claims.Subject,
		Role:      claims.Role,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Username:  claims.Username,
		Purpose:   purpose,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
