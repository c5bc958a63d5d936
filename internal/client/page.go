package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Record is the untyped item shape used when a caller has no concrete type.
type Record = map[string]any

// Page is one page of a collection endpoint.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`

	// Status is the HTTP status the page was served with.
	Status int `json:"-"`
}

// NextURL returns the next link, or "" when there is none.
func (p *Page[T]) NextURL() string {
	if p == nil || p.Next == nil {
		return ""
	}
	return *p.Next
}

// PreviousURL returns the previous link, or "" when there is none.
func (p *Page[T]) PreviousURL() string {
	if p == nil || p.Previous == nil {
		return ""
	}
	return *p.Previous
}

// DecodePage turns a response into a page, classifying failures into APIErrors.
func DecodePage[T any](resp *HTTPResponse) (*Page[T], error) {
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var raw struct {
		Count    *int            `json:"count"`
		Next     *string         `json:"next"`
		Previous *string         `json:"previous"`
		Results  json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, malformed(resp.StatusCode, fmt.Errorf("decode collection: %w", err))
	}
	if raw.Count == nil || *raw.Count < 0 {
		return nil, malformed(resp.StatusCode, fmt.Errorf("missing or negative count"))
	}
	if len(raw.Results) == 0 || bytes.Equal(raw.Results, []byte("null")) {
		return nil, malformed(resp.StatusCode, fmt.Errorf("missing results"))
	}

	page := &Page[T]{
		Count:    *raw.Count,
		Next:     nonEmpty(raw.Next),
		Previous: nonEmpty(raw.Previous),
		Status:   resp.StatusCode,
	}
	if err := json.Unmarshal(raw.Results, &page.Results); err != nil {
		return nil, malformed(resp.StatusCode, fmt.Errorf("decode results: %w", err))
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	return page, nil
}

func malformed(status int, err error) *APIError {
	return &APIError{Kind: KindMalformed, Status: status, Detail: "Malformed response", Err: err}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// PageFetcher fetches typed pages of a collection endpoint over HTTP.
type PageFetcher[T any] struct {
	http    *HTTPClient
	headers map[string]string
}

// NewPageFetcher creates a fetcher that sends headers with every page request.
func NewPageFetcher[T any](c *HTTPClient, headers map[string]string) *PageFetcher[T] {
	return &PageFetcher[T]{http: c, headers: headers}
}

// FetchPage GETs url and decodes it. Every failure is an *APIError.
func (f *PageFetcher[T]) FetchPage(ctx context.Context, url string) (*Page[T], error) {
	resp, err := f.http.Get(ctx, url, f.headers)
	if err != nil {
		return nil, AsAPIError(err)
	}
	return DecodePage[T](resp)
}
