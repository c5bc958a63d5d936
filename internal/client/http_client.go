package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// HTTPClient provides the HTTP capability shared by the panel widgets
type HTTPClient struct {
	client    *http.Client
	baseURL   string
	userAgent string
	headers   map[string]string
}

// NewHTTPClient creates a new HTTP client with default settings
func NewHTTPClient(userAgent string, timeoutSec int) *HTTPClient {
	if timeoutSec == 0 {
		timeoutSec = 30 // default timeout
	}
	if userAgent == "" {
		userAgent = "panelkit"
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		userAgent: userAgent,
	}
}

// SetBaseURL sets the base URL prefixed to relative endpoints
func (c *HTTPClient) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// SetHeader adds a header sent with every request, such as the session Cookie
func (c *HTTPClient) SetHeader(key, value string) {
	if c.headers == nil {
		c.headers = make(map[string]string)
	}
	c.headers[key] = value
}

// Resolve returns endpoint unchanged when it is absolute, otherwise prefixed with the base URL
func (c *HTTPClient) Resolve(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return c.baseURL + endpoint
}

// Get makes a GET request
func (c *HTTPClient) Get(ctx context.Context, endpoint string, headers map[string]string) (*HTTPResponse, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil, headers)
}

// Post makes a POST request; a nil payload sends no body
func (c *HTTPClient) Post(ctx context.Context, endpoint string, payload any, headers map[string]string) (*HTTPResponse, error) {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
		}
		body = b
	}
	return c.do(ctx, http.MethodPost, endpoint, body, headers)
}

// PatchJSON makes a PATCH request with JSON payload
func (c *HTTPClient) PatchJSON(ctx context.Context, endpoint string, payload any, headers map[string]string) (*HTTPResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
	}
	return c.do(ctx, http.MethodPatch, endpoint, body, headers)
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body []byte, headers map[string]string) (*HTTPResponse, error) {
	url := c.Resolve(endpoint)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Detail: "invalid request", Err: fmt.Errorf("failed to create request: %w", err)}
	}

	// Set default headers
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	// Add custom headers
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	log.Debug().
		Str("method", method).
		Str("url", url).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("making HTTP request")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().
			Str("method", method).
			Str("url", url).
			Err(err).
			Msg("HTTP request failed")
		return nil, &APIError{Kind: KindTransport, Detail: "Request failed", Err: err}
	}

	return c.handleResponse(resp)
}

// handleResponse processes the HTTP response
func (c *HTTPClient) handleResponse(resp *http.Response) (*HTTPResponse, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			Kind:   KindTransport,
			Status: resp.StatusCode,
			Detail: "Request failed",
			Err:    fmt.Errorf("failed to read response body: %w", err),
		}
	}

	httpResp := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	log.Debug().
		Int("status_code", resp.StatusCode).
		Int("body_length", len(body)).
		Msg("received HTTP response")

	return httpResp, nil
}

// HTTPResponse represents an HTTP response
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess checks if the response indicates success (2xx status code)
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// UnmarshalJSON unmarshals the response body into the provided struct
func (r *HTTPResponse) UnmarshalJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// String returns the response body as a string
func (r *HTTPResponse) String() string {
	return string(r.Body)
}

// Detail extracts the server's "detail" message, falling back to the status text.
func (r *HTTPResponse) Detail() string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(r.Body, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	if text := http.StatusText(r.StatusCode); text != "" {
		return text
	}
	return "Request failed"
}

// Err returns nil for a 2xx response and a server APIError otherwise.
func (r *HTTPResponse) Err() error {
	if r.IsSuccess() {
		return nil
	}
	return &APIError{Kind: KindServer, Status: r.StatusCode, Detail: r.Detail()}
}
