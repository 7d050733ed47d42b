package email

import (
	"context"
	"net/http"

	"github.com/mrz1836/postmark"
	"github.com/pkg/errors"

	"github.com/vestatus/gomail/internal/service"
)

// Postmark API error codes for requests that will fail the same way on retry.
const (
	postmarkInvalidEmailRequest = 300
	postmarkInactiveRecipient   = 406
)

type PostmarkSender struct {
	client *postmark.Client
}

func NewPostmarkSender(config Config) (*PostmarkSender, error) {
	if config.PostmarkServerToken == "" {
		return nil, errors.New("postmark server token is required")
	}

	client := postmark.NewClient(config.PostmarkServerToken, config.PostmarkAccountToken)
	client.HTTPClient = &http.Client{Timeout: config.Timeout}
	if config.PostmarkBaseURL != "" {
		client.BaseURL = config.PostmarkBaseURL
	}

	return &PostmarkSender{client: client}, nil
}

func (s *PostmarkSender) Name() string {
	return ProviderPostmark
}

func (s *PostmarkSender) SendEmail(ctx context.Context, email service.Email) error {
	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     email.From().String(),
		To:       email.To().String(),
		Subject:  email.Subject,
		TextBody: email.Body,
	})

	// the error code comes either in a 200 body or in an APIError for 4xx answers
	code := int64(resp.ErrorCode)
	var apiErr postmark.APIError
	if errors.As(err, &apiErr) {
		code = int64(apiErr.ErrorCode)
	}

	if err == nil && code == 0 {
		return nil
	}
	if err == nil {
		err = errors.Errorf("error %d: %s", code, resp.Message)
	}
	err = errors.Wrap(err, "postmark")

	switch code {
	case postmarkInvalidEmailRequest, postmarkInactiveRecipient:
		return service.Permanent(err)
	default:
		return err
	}
}
