package client

import (
	"context"
	"log"
)

type Email struct {
	To      string
	Subject string
	HTML    string
}

// Result reports what happened to a delivery attempt. DryRun means no
// provider was configured and the message was logged instead of sent.
type Result struct {
	Delivered bool
	DryRun    bool
}

type Mailer interface {
	Send(ctx context.Context, email Email) (Result, error)
}

// LogMailer is the dry-run Mailer used when no provider credential is
// configured. It always succeeds.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(_ context.Context, email Email) (Result, error) {
	log.Printf("DRY-RUN email send -> to=%s subject=%q", email.To, email.Subject)
	return Result{Delivered: false, DryRun: true}, nil
}
