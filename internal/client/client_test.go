package client_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestatus/gomail/internal/client"
	"github.com/vestatus/gomail/internal/service"
)

var testEmail = service.Email{
	FromName:  "From Name",
	FromEmail: "from@example.com",
	ToName:    "To Name",
	ToEmail:   "to@example.com",
	Subject:   "Test subject",
	Body:      "Test body",
}

func newServer(t *testing.T, status int, body string) (*client.Client, *http.Request, *[]byte) {
	t.Helper()

	var (
		got     http.Request
		gotBody []byte
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = *r
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c, err := client.NewClient(srv.Client(), srv.URL, time.Second)
	require.NoError(t, err)

	return c, &got, &gotBody
}

func TestSendEmailRequest(t *testing.T) {
	c, req, body := newServer(t, http.StatusOK, `{"email":{"messageId":"abc123"}}`)

	resp, err := c.SendEmail(t.Context(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.MessageID())

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/email/send", req.URL.Path)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"email":{
		"fromName":"From Name","fromEmail":"from@example.com",
		"toName":"To Name","toEmail":"to@example.com",
		"subject":"Test subject","body":"Test body"}}`, string(*body))
}

func TestSendEmailTopLevelMessageID(t *testing.T) {
	c, _, _ := newServer(t, http.StatusOK, `{"messageId":"m1"}`)

	resp, err := c.SendEmail(t.Context(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, "m1", resp.MessageID())
}

func TestSendEmailValidationErrors(t *testing.T) {
	c, _, _ := newServer(t, http.StatusUnprocessableEntity, `{"errors":{"toEmail":"required"}}`)

	_, err := c.SendEmail(t.Context(), testEmail)
	require.Error(t, err)

	var respErr *client.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusUnprocessableEntity, respErr.StatusCode)

	assert.Equal(t, service.FieldErrors{"toEmail": "required"}, client.NormalizeErrors(err))
}

func TestSendEmailStatusWithoutBody(t *testing.T) {
	c, _, _ := newServer(t, http.StatusServiceUnavailable, ``)

	_, err := c.SendEmail(t.Context(), testEmail)
	require.Error(t, err)

	assert.Equal(t,
		service.FieldErrors{"base": "Request failed with status code 503"},
		client.NormalizeErrors(err),
	)
}

func TestSendEmailMalformedResponse(t *testing.T) {
	c, _, _ := newServer(t, http.StatusOK, `not json`)

	_, err := c.SendEmail(t.Context(), testEmail)
	require.Error(t, err)

	errs := client.NormalizeErrors(err)
	assert.Contains(t, errs.Base(), "failed to decode response")
}

type blockingTransport struct{}

func (blockingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	<-r.Context().Done()
	return nil, r.Context().Err()
}

func TestSendEmailTimeout(t *testing.T) {
	c, err := client.NewClient(&http.Client{Transport: blockingTransport{}}, "http://gomail.test", 0)
	require.NoError(t, err)

	_, err = c.SendEmail(t.Context(), testEmail)
	require.Error(t, err)

	assert.Equal(t,
		service.FieldErrors{"base": "timeout of 1000ms exceeded"},
		client.NormalizeErrors(err),
	)
}

func TestSendEmailConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := client.NewClient(nil, url, time.Second)
	require.NoError(t, err)

	_, err = c.SendEmail(t.Context(), testEmail)
	require.Error(t, err)

	errs := client.NormalizeErrors(err)
	assert.Len(t, errs, 1)
	assert.NotEmpty(t, errs.Base())
}

func TestNormalizeErrorsNil(t *testing.T) {
	assert.Nil(t, client.NormalizeErrors(nil))
}

func TestResponseMessageID(t *testing.T) {
	var resp client.SendEmailResponse

	require.NoError(t, json.Unmarshal([]byte(`{"email":"queued","messageId":"top"}`), &resp))
	assert.Equal(t, "top", resp.MessageID())
}

func TestNewClientBadURL(t *testing.T) {
	_, err := client.NewClient(nil, "://bad", time.Second)
	assert.Error(t, err)
}
