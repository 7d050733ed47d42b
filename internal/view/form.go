package view

import (
	"net/url"

	"github.com/vestatus/gomail/internal/service"
)

// Form holds the values typed into the form that have not been submitted yet.
// The zero value is the empty form.
type Form struct {
	FromName  string
	FromEmail string
	ToName    string
	ToEmail   string
	Subject   string
	Body      string
}

// Set returns a copy of f with exactly one field replaced.
func (f Form) Set(field service.Field, value string) Form {
	switch field {
	case service.FieldFromName:
		f.FromName = value
	case service.FieldFromEmail:
		f.FromEmail = value
	case service.FieldToName:
		f.ToName = value
	case service.FieldToEmail:
		f.ToEmail = value
	case service.FieldSubject:
		f.Subject = value
	case service.FieldBody:
		f.Body = value
	}

	return f
}

func (f Form) Get(field service.Field) string {
	switch field {
	case service.FieldFromName:
		return f.FromName
	case service.FieldFromEmail:
		return f.FromEmail
	case service.FieldToName:
		return f.ToName
	case service.FieldToEmail:
		return f.ToEmail
	case service.FieldSubject:
		return f.Subject
	case service.FieldBody:
		return f.Body
	}

	return ""
}

// Apply sets every known field present in values; other fields keep their value.
func (f Form) Apply(values url.Values) Form {
	for _, field := range service.Fields {
		if vs, ok := values[field.Name()]; ok && len(vs) > 0 {
			f = f.Set(field, vs[0])
		}
	}

	return f
}

// Email is the snapshot handed to the store on submit.
func (f Form) Email() service.Email {
	return service.Email{
		FromName:  f.FromName,
		FromEmail: f.FromEmail,
		ToName:    f.ToName,
		ToEmail:   f.ToEmail,
		Subject:   f.Subject,
		Body:      f.Body,
	}
}
