package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/readmify/readmify/common"
	"github.com/readmify/readmify/logger"
)

// OptionType defines the type of option
type OptionType string

// Available option types
const (
	ValidateURLOption OptionType = "validate_url"
	GenerateURLOption OptionType = "generate_url"
	HTTPClientOption  OptionType = "http_client"
	TimeoutOption     OptionType = "timeout"
)

// RequestIDHeader carries the per-call id that also appears in the logs
const RequestIDHeader = "X-Request-ID"

// Option represents a configuration option for the backend client
type Option struct {
	Type  OptionType
	Value any
}

// WithValidateURL sets the validation endpoint
func WithValidateURL(u string) Option {
	return Option{Type: ValidateURLOption, Value: u}
}

// WithGenerateURL sets the generation endpoint
func WithGenerateURL(u string) Option {
	return Option{Type: GenerateURLOption, Value: u}
}

// WithHTTPClient sets the HTTP client used for both endpoints
func WithHTTPClient(c *http.Client) Option {
	return Option{Type: HTTPClientOption, Value: c}
}

// WithTimeout bounds each call through its context
func WithTimeout(timeout time.Duration) Option {
	return Option{Type: TimeoutOption, Value: timeout}
}

// Client talks to the validation and README generation endpoints
type Client struct {
	httpClient  *http.Client
	validateURL string
	generateURL string
	timeout     time.Duration
}

// NewClient creates a backend client. Without options it uses the built-in
// endpoints and a single-attempt HTTP client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		validateURL: common.DefaultValidateURL,
		generateURL: common.DefaultGenerateURL,
	}

	for _, opt := range opts {
		switch opt.Type {
		case ValidateURLOption:
			if u, ok := opt.Value.(string); ok && u != "" {
				c.validateURL = u
			}
		case GenerateURLOption:
			if u, ok := opt.Value.(string); ok && u != "" {
				c.generateURL = u
			}
		case HTTPClientOption:
			if hc, ok := opt.Value.(*http.Client); ok && hc != nil {
				c.httpClient = hc
			}
		case TimeoutOption:
			if d, ok := opt.Value.(time.Duration); ok {
				c.timeout = d
			}
		}
	}

	if c.httpClient == nil {
		c.httpClient = common.NewHTTPClient(common.DefaultClientConfig())
	}

	for _, raw := range []string{c.validateURL, c.generateURL} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return nil, fmt.Errorf("invalid endpoint %q: %w", raw, err)
		}
	}

	return c, nil
}

type validateResponse struct {
	Valid *bool `json:"valid"`
}

type generateRequest struct {
	RepoURL string `json:"repo_url"`
	APIKey  string `json:"api_key"`
}

type generateResponse struct {
	Readme *string `json:"readme"`
}

// ValidateKey asks the validation service whether the encrypted credential is
// usable. Only a literal {"valid": true} counts as valid.
func (c *Client) ValidateKey(ctx context.Context, ciphertext string) (bool, error) {
	u, err := url.Parse(c.validateURL)
	if err != nil {
		return false, fmt.Errorf("invalid validation endpoint: %w", err)
	}
	q := u.Query()
	q.Set("api_key", ciphertext)
	u.RawQuery = q.Encode()

	resp, err := c.do(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return false, newStatusError(resp, ValidationFailedMessage)
	}

	var body validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("failed to decode validation response: %w", err)
	}

	return body.Valid != nil && *body.Valid, nil
}

// GenerateReadme requests a README for repoURL. The credential goes out in
// plaintext; only the validation call uses the encrypted form.
func (c *Client) GenerateReadme(ctx context.Context, repoURL, apiKey string) (string, error) {
	payload, err := json.Marshal(generateRequest{RepoURL: repoURL, APIKey: apiKey})
	if err != nil {
		return "", fmt.Errorf("failed to encode generation request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.generateURL, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", newStatusError(resp, GenerationFailedMessage)
	}

	var body generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode generation response: %w", err)
	}
	if body.Readme == nil || *body.Readme == "" {
		return "", ErrEmptyReadme
	}

	return *body.Readme, nil
}

func (c *Client) do(ctx context.Context, method, target string, payload []byte) (*http.Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		// The body is read after do returns, so the timer is released with it.
		resp, err := c.send(ctx, method, target, payload)
		if err != nil {
			cancel()
			return nil, err
		}
		resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil
	}
	return c.send(ctx, method, target, payload)
}

func (c *Client) send(ctx context.Context, method, target string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	logger.Debugw("Sending backend request", "request_id", requestID, "method", method, "endpoint", redact(req.URL))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debugw("Backend request failed", "request_id", requestID, "error", err)
		return nil, err
	}

	logger.Debugw("Backend responded", "request_id", requestID, "status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// redact drops the query so ciphertexts never reach the logs
func redact(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	return c.String()
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

// IsStatusError reports whether err came from a non-success HTTP status
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
