package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultBaseURL = "http://gomail-api.shanab.me"
	DefaultTimeout = time.Second

	pathSendEmail = "/email/send"
)

type Config struct {
	BaseURL string        `envconfig:"BASE_URL" default:"http://gomail-api.shanab.me"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"1s"`
}

// Client talks to the Gomail send API. Every call is a single attempt.
type Client struct {
	baseClient *http.Client
	baseURL    *url.URL
	timeout    time.Duration
}

func NewClient(baseClient *http.Client, baseURLString string, timeout time.Duration) (*Client, error) {
	if baseClient == nil {
		baseClient = &http.Client{}
	}
	if baseURLString == "" {
		baseURLString = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	baseURL, err := url.Parse(baseURLString)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse base URL")
	}

	return &Client{
		baseClient: baseClient,
		baseURL:    baseURL,
		timeout:    timeout,
	}, nil
}

func NewFromConfig(config Config) (*Client, error) {
	return NewClient(nil, config.BaseURL, config.Timeout)
}

// ResponseError is returned for every non-2xx answer. Errors holds the
// body's "errors" object when the API sent one.
type ResponseError struct {
	StatusCode int
	Errors     map[string]string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}

type timeoutError struct {
	timeout time.Duration
	err     error
}

func (e timeoutError) Error() string {
	return fmt.Sprintf("timeout of %dms exceeded", e.timeout.Milliseconds())
}

func (e timeoutError) Cause() error {
	return e.err
}

func (e timeoutError) Timeout() bool {
	return true
}

func isTimeout(err error) bool {
	if errors.Cause(err) == context.DeadlineExceeded {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Client) postJSON(ctx context.Context, pth string, payload interface{}) (io.ReadCloser, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal body")
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, pth)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.baseClient.Do(req)
	if err != nil {
		cancel()
		if isTimeout(err) {
			return nil, timeoutError{timeout: c.timeout, err: err}
		}
		return nil, errors.Wrap(err, "failed to do request")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer cancel()
		defer resp.Body.Close()

		return nil, decodeResponseError(resp)
	}

	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

func decodeResponseError(resp *http.Response) error {
	respErr := &ResponseError{StatusCode: resp.StatusCode}

	var body struct {
		Errors map[string]string `json:"errors"`
	}

	// a body that is not the expected JSON leaves Errors nil
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && len(body.Errors) > 0 {
		respErr.Errors = body.Errors
	}
	io.Copy(io.Discard, resp.Body)

	return respErr
}

// cancelOnClose releases the request timeout once the body has been consumed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()

	io.Copy(io.Discard, c.ReadCloser)
	return c.ReadCloser.Close()
}
