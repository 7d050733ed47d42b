package client

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/vestatus/gomail/internal/service"
)

type sendEmailRequest struct {
	Email service.Email `json:"email"`
}

// SendEmailResponse accepts the message id either nested under "email"
// or at the top level.
type SendEmailResponse struct {
	Email struct {
		MessageID string `json:"messageId"`
	} `json:"email"`
	TopLevelMessageID string `json:"messageId"`
}

func (r *SendEmailResponse) MessageID() string {
	if r.Email.MessageID != "" {
		return r.Email.MessageID
	}

	return r.TopLevelMessageID
}

// UnmarshalJSON tolerates an "email" value that is not an object; the id is then
// taken from the top level only.
func (r *SendEmailResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Email     json.RawMessage `json:"email"`
		MessageID string          `json:"messageId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.TopLevelMessageID = raw.MessageID
	if len(raw.Email) > 0 {
		// ignore a non-object email
		_ = json.Unmarshal(raw.Email, &r.Email)
	}

	return nil
}

// SendEmail posts email to the send endpoint.
func (c *Client) SendEmail(ctx context.Context, email service.Email) (*SendEmailResponse, error) {
	body, err := c.postJSON(ctx, pathSendEmail, sendEmailRequest{Email: email})
	if err != nil {
		return nil, errors.WithMessage(err, "send email")
	}
	defer body.Close()

	var resp SendEmailResponse

	err = json.NewDecoder(body).Decode(&resp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode response")
	}

	return &resp, nil
}

// NormalizeErrors turns any failure of SendEmail into field errors: the API's
// own errors object is passed through verbatim, everything else becomes a
// base error carrying the failure message.
func NormalizeErrors(err error) service.FieldErrors {
	if err == nil {
		return nil
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) && len(respErr.Errors) > 0 {
		return service.FieldErrors(respErr.Errors)
	}

	return service.FieldErrors{service.BaseErrorKey: rootMessage(err)}
}

// rootMessage drops the context added by WithMessage/Wrap so the user sees
// the failure itself, e.g. "timeout of 1000ms exceeded".
func rootMessage(err error) string {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.Error()
	}

	var tErr timeoutError
	if errors.As(err, &tErr) {
		return tErr.Error()
	}

	return err.Error()
}
