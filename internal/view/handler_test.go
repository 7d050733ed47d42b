package view_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestatus/gomail/internal/client"
	"github.com/vestatus/gomail/internal/service"
	"github.com/vestatus/gomail/internal/store"
	"github.com/vestatus/gomail/internal/view"
)

// fakeAPI answers like the send API: 422 for a missing toEmail, 200 otherwise.
type fakeAPI struct {
	mu       sync.Mutex
	received []service.Email
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email service.Email `json:"email"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.received = append(f.received, req.Email)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if req.Email.ToEmail == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"errors":{"toEmail":"can't be blank"}}`)
		return
	}

	io.WriteString(w, `{"email":{"messageId":"abc123"}}`)
}

type browser struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
}

func setup(t *testing.T) (*browser, *fakeAPI) {
	t.Helper()

	api := &fakeAPI{}
	apiSrv := httptest.NewServer(api)
	t.Cleanup(apiSrv.Close)

	c, err := client.NewClient(apiSrv.Client(), apiSrv.URL, time.Second)
	require.NoError(t, err)

	r := chi.NewRouter()
	view.NewHandler(view.NewSessions(c), "").Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &browser{t: t, srv: srv, client: &http.Client{Jar: jar}}, api
}

func (b *browser) do(method, path string, form url.Values) (int, string) {
	b.t.Helper()

	var (
		resp *http.Response
		err  error
	)
	if method == http.MethodGet {
		resp, err = b.client.Get(b.srv.URL + path)
	} else {
		resp, err = b.client.PostForm(b.srv.URL+path, form)
	}
	require.NoError(b.t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)

	return resp.StatusCode, string(body)
}

func (b *browser) state() store.State {
	b.t.Helper()

	_, body := b.do(http.MethodGet, "/state", nil)

	var state store.State
	require.NoError(b.t, json.Unmarshal([]byte(body), &state))

	return state
}

func validForm() url.Values {
	return url.Values{
		"fromName":  {"From Name"},
		"fromEmail": {"from@example.com"},
		"toName":    {"To Name"},
		"toEmail":   {"to@example.com"},
		"subject":   {"Test subject"},
		"body":      {"Test body"},
	}
}

func TestIndex(t *testing.T) {
	b, _ := setup(t)

	status, html := b.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, html, `name="fromName"`)

	assert.Equal(t, store.State{}, b.state())
}

func TestSubmitWithMissingRecipient(t *testing.T) {
	b, _ := setup(t)

	form := validForm()
	form.Set("toEmail", "")

	status, html := b.do(http.MethodPost, "/", form)
	assert.Equal(t, http.StatusOK, status)

	group := formGroup(t, html, "toEmail")
	assert.Contains(t, group, `<span class="help-block">can&#39;t be blank</span>`)
	assert.NotContains(t, html, "alert-danger")

	// values stay in the form after a failed submission
	assert.Contains(t, html, `value="from@example.com"`)

	state := b.state()
	assert.False(t, state.IsSubmittingEmail)
	assert.False(t, state.ShowSuccess)
	assert.Equal(t, service.FieldErrors{"toEmail": "can't be blank"}, state.Errors)
}

func TestSubmitValid(t *testing.T) {
	b, api := setup(t)

	_, html := b.do(http.MethodPost, "/", validForm())

	assert.Contains(t, html, "<code>abc123</code>")
	assert.NotContains(t, html, "help-block")
	assert.Contains(t, html, `value="to@example.com"`)

	assert.Equal(t, store.State{MessageID: "abc123", ShowSuccess: true}, b.state())
	require.Len(t, api.received, 1)
	assert.Equal(t, "Test body", api.received[0].Body)
}

func TestResubmitAfterFailure(t *testing.T) {
	b, _ := setup(t)

	form := validForm()
	form.Set("toEmail", "")
	b.do(http.MethodPost, "/", form)

	_, html := b.do(http.MethodPost, "/field", url.Values{"name": {"toEmail"}, "value": {"to@example.com"}})
	assert.Contains(t, html, `value="to@example.com"`)

	// submitting with no values posts the session's form as it stands
	_, html = b.do(http.MethodPost, "/", url.Values{})
	assert.Contains(t, html, "<code>abc123</code>")
	assert.Nil(t, b.state().Errors)
}

func TestUpdateField(t *testing.T) {
	b, api := setup(t)

	_, html := b.do(http.MethodPost, "/field", url.Values{"name": {"subject"}, "value": {"Hello"}})
	assert.Contains(t, html, `id="subject" value="Hello"`)

	_, html = b.do(http.MethodPost, "/field", url.Values{"name": {"body"}, "value": {"Line one"}})
	assert.Contains(t, html, `id="subject" value="Hello"`)
	assert.Contains(t, html, `>Line one</textarea>`)

	// editing fields never talks to the API
	assert.Empty(t, api.received)
}

func TestUpdateUnknownField(t *testing.T) {
	b, _ := setup(t)

	status, body := b.do(http.MethodPost, "/field", url.Values{"name": {"cc"}, "value": {"x"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "unknown field", strings.TrimSpace(body))
}

func TestSessionsAreIsolated(t *testing.T) {
	first, _ := setup(t)
	first.do(http.MethodPost, "/field", url.Values{"name": {"subject"}, "value": {"Mine"}})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	second := &browser{t: t, srv: first.srv, client: &http.Client{Jar: jar}}

	_, html := second.do(http.MethodGet, "/", nil)
	assert.NotContains(t, html, "Mine")
}

func TestStateWithoutSession(t *testing.T) {
	sessions := view.NewSessions(nil)
	r := chi.NewRouter()
	view.NewHandler(sessions, "").Routes(r)

	for i := 0; i < 100; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
		assert.JSONEq(t, `{"errors":null,"isSubmittingEmail":false,"showSuccess":false}`, rec.Body.String())
	}

	assert.Equal(t, 0, sessions.Len())
}

func TestHealth(t *testing.T) {
	b, _ := setup(t)

	status, body := b.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)
}
