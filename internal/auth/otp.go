package auth

import (
	"crypto/rand"
	"fmt"
	"time"
)

const otpLength = 6

// Code mirrors one row of otp_codes. Only the bcrypt hash of the digits
// is stored.
type Code struct {
	ID        int64
	Phone     string
	CodeHash  string
	ExpiresAt time.Time
	Attempts  int
	Used      bool
	CreatedAt time.Time
}

// GenerateCode returns n cryptographically random decimal digits.
func GenerateCode(n int) (string, error) {
	if n <= 0 {
		n = otpLength
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	digits := make([]byte, n)
	for i, b := range buf {
		digits[i] = '0' + b%10
	}
	return string(digits), nil
}

// CheckUsable rejects codes that are spent, expired, or over the attempt
// cap. Split out of the verify handler so the rules are testable without
// the database.
func CheckUsable(c Code, now time.Time, maxAttempts int) error {
	if c.Used {
		return fmt.Errorf("code already used")
	}
	if now.After(c.ExpiresAt) {
		return fmt.Errorf("code expired")
	}
	if maxAttempts > 0 && c.Attempts >= maxAttempts {
		return fmt.Errorf("too many attempts")
	}
	return nil
}
