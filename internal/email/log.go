package email

import (
	"context"

	"github.com/vestatus/gomail/internal/logger"
	"github.com/vestatus/gomail/internal/service"
)

// LogSender writes emails to the logger instead of delivering them.
type LogSender struct{}

func (s *LogSender) Name() string {
	return ProviderLog
}

func (s *LogSender) SendEmail(ctx context.Context, email service.Email) error {
	logger.FromContext(ctx).
		WithField("from", email.From().String()).
		WithField("to", email.To().String()).
		WithField("subject", email.Subject).
		Info(email.Body)

	return nil
}
