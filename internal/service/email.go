package service

import (
	"context"
	"fmt"
)

// BaseErrorKey holds errors that are not tied to a single field.
const BaseErrorKey = "base"

// Email is what the form collects and what the API accepts.
type Email struct {
	FromName  string `json:"fromName"`
	FromEmail string `json:"fromEmail"`
	ToName    string `json:"toName"`
	ToEmail   string `json:"toEmail"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

func (e Email) From() EmailAddress {
	return EmailAddress{Name: e.FromName, Address: e.FromEmail}
}

func (e Email) To() EmailAddress {
	return EmailAddress{Name: e.ToName, Address: e.ToEmail}
}

type EmailAddress struct {
	Name    string
	Address string
}

// String formats the address as `Name <address>`, or the bare address without a name.
func (a EmailAddress) String() string {
	if a.Name == "" {
		return a.Address
	}

	return fmt.Sprintf("%s <%s>", a.Name, a.Address)
}

// FieldErrors maps a field name, or BaseErrorKey, to a message.
type FieldErrors map[string]string

func (fe FieldErrors) Base() string {
	return fe[BaseErrorKey]
}

func (fe FieldErrors) For(f Field) string {
	return fe[f.Name()]
}

// EmailSender delivers a single email. Implementations live in internal/email.
type EmailSender interface {
	Name() string
	SendEmail(ctx context.Context, email Email) error
}
