package mailer

import (
	"context"
	"log/slog"
)

// LogMailer logs messages instead of sending them. Used when no relay is configured.
type LogMailer struct{}

// NewLogMailer creates a new LogMailer.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// Send logs the message envelope.
func (m *LogMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	slog.Info("[Mailer] email (not sent, no relay configured)",
		"to", to,
		"subject", subject,
		"body_bytes", len(htmlBody),
	)
	return nil
}
