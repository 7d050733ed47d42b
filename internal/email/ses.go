package email

import (
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"

	"github.com/vestatus/gomail/internal/service"
)

const sesCharset = "UTF-8"

// SESClient is the part of the SES v2 API the sender uses.
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type SESSender struct {
	client SESClient
}

func NewSESSender(ctx context.Context, cfg Config) (*SESSender, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.SESRegion),
		config.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.SESAccessKeyID != "" && cfg.SESSecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.SESAccessKeyID, cfg.SESSecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load aws config")
	}

	client := sesv2.NewFromConfig(awsConfig, func(o *sesv2.Options) {
		if cfg.SESEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.SESEndpoint)
		}
	})

	return NewSESSenderWithClient(client), nil
}

func NewSESSenderWithClient(client SESClient) *SESSender {
	return &SESSender{client: client}
}

func (s *SESSender) Name() string {
	return ProviderSES
}

func (s *SESSender) SendEmail(ctx context.Context, email service.Email) error {
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(email.From().String()),
		Destination: &types.Destination{
			ToAddresses: []string{email.To().String()},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(email.Subject), Charset: aws.String(sesCharset)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(email.Body), Charset: aws.String(sesCharset)},
				},
			},
		},
	})
	if err == nil {
		return nil
	}

	err = errors.Wrap(err, "ses")

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "MessageRejected", "BadRequestException", "MailFromDomainNotVerifiedException":
			return service.Permanent(err)
		}
	}

	return err
}
