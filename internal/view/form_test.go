package view_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vestatus/gomail/internal/service"
	"github.com/vestatus/gomail/internal/view"
)

func filledForm() view.Form {
	return view.Form{
		FromName:  "From Name",
		FromEmail: "from@example.com",
		ToName:    "To Name",
		ToEmail:   "to@example.com",
		Subject:   "Test subject",
		Body:      "Test body",
	}
}

func TestFormStartsEmpty(t *testing.T) {
	var form view.Form

	for _, f := range service.Fields {
		assert.Empty(t, form.Get(f), f.Name())
	}
	assert.Equal(t, service.Email{}, form.Email())
}

func TestFormSetChangesOneField(t *testing.T) {
	for _, start := range []view.Form{{}, filledForm()} {
		for _, edited := range service.Fields {
			got := start.Set(edited, "changed")

			assert.Equal(t, "changed", got.Get(edited))
			for _, other := range service.Fields {
				if other != edited {
					assert.Equal(t, start.Get(other), got.Get(other), "editing %s changed %s", edited, other)
				}
			}
		}
	}
}

func TestFormSetDoesNotMutate(t *testing.T) {
	form := filledForm()
	_ = form.Set(service.FieldSubject, "other")

	assert.Equal(t, "Test subject", form.Subject)
}

func TestFormApply(t *testing.T) {
	form := filledForm().Apply(url.Values{
		"toEmail": {""},
		"subject": {"New subject"},
		"cc":      {"ignored@example.com"},
	})

	assert.Equal(t, "", form.ToEmail)
	assert.Equal(t, "New subject", form.Subject)
	assert.Equal(t, "From Name", form.FromName)
}

func TestFormEmail(t *testing.T) {
	assert.Equal(t, service.Email{
		FromName:  "From Name",
		FromEmail: "from@example.com",
		ToName:    "To Name",
		ToEmail:   "to@example.com",
		Subject:   "Test subject",
		Body:      "Test body",
	}, filledForm().Email())
}
