package token

import (
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	signed, err := Sign("secret", Identity{
		UserID:    "42",
		Role:      "admin",
		FirstName: "Priya",
		LastName:  "Shah",
		Username:  "priya",
		Purpose:   PurposeAccess,
	}, time.Hour, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := Verify(signed, "secret", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.UserID != "42" || id.Role != "admin" || id.FirstName != "Priya" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if id.Purpose != PurposeAccess {
		t.Fatalf("expected access purpose, got %q", id.Purpose)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	signed, err := Sign("secret", Identity{UserID: "42", Role: "member"}, time.Minute, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Verify(signed, "secret", now.Add(2*time.Minute)); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	signed, err := Sign("secret", Identity{UserID: "42", Role: "member"}, time.Hour, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Verify(signed, "other", now); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}
