package auth

import (
	"context"
	"log"
)

// Sender delivers one-time codes. Production wires an SMS/email provider;
// tests and local dev use LogSender.
type Sender interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// LogSender writes codes to the process log instead of delivering them.
type LogSender struct{}

func (LogSender) SendOTP(_ context.Context, phone, code string) error {
	log.Printf("[otp] code for %s: %s", phone, code)
	return nil
}
