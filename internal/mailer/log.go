package mailer

import (
	"context"

	"github.com/bibletext/dailyverse/internal/logger"
)

// LogSender logs messages instead of sending them. Used when no mail
// provider API key is configured.
type LogSender struct {
	log *logger.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send logs the message and reports success.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("text", msg.Text).
		Msg("email not sent (no provider configured)")
	return nil
}
