package api

import (
	"regexp"

	"github.com/vestatus/gomail/internal/service"
)

var emailRegexp = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`)

// Validate returns the field errors of email, or nil when it can be sent.
func Validate(e service.Email) service.FieldErrors {
	errs := service.FieldErrors{}

	if msg := validateAddress("From email", e.FromEmail); msg != "" {
		errs[service.FieldFromEmail.Name()] = msg
	}
	if msg := validateAddress("To email", e.ToEmail); msg != "" {
		errs[service.FieldToEmail.Name()] = msg
	}
	if e.Body == "" {
		errs[service.FieldBody.Name()] = "Body is required"
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

func validateAddress(fieldName, address string) string {
	if address == "" {
		return fieldName + " is required"
	}
	if !emailRegexp.MatchString(address) {
		return fieldName + " is not a valid email"
	}

	return ""
}
