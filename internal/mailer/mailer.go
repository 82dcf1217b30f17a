// Package mailer delivers one-time login codes out-of-band. Delivery is an
// external collaborator; the log implementation stands in until an email
// provider is wired up.
package mailer

import (
	"context"
	"log"
)

// Mailer sends a plaintext login code to the address it was issued for.
type Mailer interface {
	SendLoginCode(ctx context.Context, email, code string) error
}

type logMailer struct{}

// NewLogMailer returns a Mailer that prints codes to the process log.
// TODO: replace with SMTP delivery.
func NewLogMailer() Mailer {
	return logMailer{}
}

func (logMailer) SendLoginCode(_ context.Context, email, code string) error {
	log.Printf("login code for %s: %s", email, code)
	return nil
}
