package store

import "github.com/vestatus/gomail/internal/service"

type Kind string

const (
	SubmitEmailRequest  Kind = "SUBMIT_EMAIL_REQUEST"
	SubmitEmailResponse Kind = "SUBMIT_EMAIL_RESPONSE"
	SubmitEmailError    Kind = "SUBMIT_EMAIL_ERROR"
)

// Action is one of RequestAction, ResponseAction or ErrorAction.
type Action interface {
	Kind() Kind
	action()
}

type RequestAction struct{}

func (RequestAction) Kind() Kind { return SubmitEmailRequest }
func (RequestAction) action()    {}

type ResponseAction struct {
	MessageID string
}

func (ResponseAction) Kind() Kind { return SubmitEmailResponse }
func (ResponseAction) action()    {}

type ErrorAction struct {
	Errors service.FieldErrors
}

func (ErrorAction) Kind() Kind { return SubmitEmailError }
func (ErrorAction) action()    {}
