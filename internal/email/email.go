// Package email holds the delivery providers used by the pipeline.
package email

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/vestatus/gomail/internal/service"
)

const (
	ProviderLog      = "log"
	ProviderPostmark = "postmark"
	ProviderSES      = "ses"
)

type Config struct {
	Provider string        `envconfig:"PROVIDER" default:"log"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"10s"`

	PostmarkServerToken  string `envconfig:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `envconfig:"POSTMARK_ACCOUNT_TOKEN"`
	PostmarkBaseURL      string `envconfig:"POSTMARK_BASE_URL"`

	SESRegion      string `envconfig:"SES_REGION" default:"us-east-1"`
	SESAccessKeyID string `envconfig:"SES_ACCESS_KEY_ID"`
	SESSecretKey   string `envconfig:"SES_SECRET_KEY"`
	SESEndpoint    string `envconfig:"SES_ENDPOINT"`
}

// New builds the sender named by config.Provider.
func New(ctx context.Context, config Config) (service.EmailSender, error) {
	switch config.Provider {
	case ProviderLog:
		return &LogSender{}, nil
	case ProviderPostmark:
		return NewPostmarkSender(config)
	case ProviderSES:
		return NewSESSender(ctx, config)
	default:
		return nil, errors.Errorf("unknown email provider %q", config.Provider)
	}
}
