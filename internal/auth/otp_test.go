package auth

import (
	"testing"
	"time"
)

func TestGenerateCodeDigitsOnly(t *testing.T) {
	code, err := GenerateCode(6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6 digits, got %q", code)
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			t.Fatalf("expected digits only, got %q", code)
		}
	}
}

func TestCheckUsable(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	base := Code{ExpiresAt: now.Add(5 * time.Minute)}

	if err := CheckUsable(base, now, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	used := base
	used.Used = true
	if err := CheckUsable(used, now, 5); err == nil {
		t.Fatalf("expected error for used code")
	}

	if err := CheckUsable(base, now.Add(6*time.Minute), 5); err == nil {
		t.Fatalf("expected error for expired code")
	}

	tried := base
	tried.Attempts = 5
	if err := CheckUsable(tried, now, 5); err == nil {
		t.Fatalf("expected error after attempt cap")
	}
}
