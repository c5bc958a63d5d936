package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"panelkit/internal/services/data"
)

var errBadBody = errors.New("bad request body")

// parseListRequest parses HTTP query parameters into ListRequest
func parseListRequest(r *http.Request, baseURL string) (data.ListRequest, error) {
	q := r.URL.Query()
	req := data.ListRequest{Ordering: q.Get("o"), URL: absoluteURL(r, baseURL)}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return req, fmt.Errorf("limit must be a positive integer")
		}
		req.Limit = n
	}

	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return req, fmt.Errorf("offset must be a non-negative integer")
		}
		req.Offset = n
	}

	return req, nil
}

// absoluteURL rebuilds the public URL of r so pagination links can be
// followed as-is by clients.
func absoluteURL(r *http.Request, baseURL string) *url.URL {
	u := *r.URL
	if baseURL != "" {
		if b, err := url.Parse(baseURL); err == nil {
			u.Scheme, u.Host = b.Scheme, b.Host
			return &u
		}
	}
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	u.Host = r.Host
	return &u
}

func stringFilter(q url.Values, name string) *string {
	v := q.Get(name)
	if v == "" {
		return nil
	}
	return &v
}

func boolFilter(q url.Values, name string) (*bool, error) {
	if !q.Has(name) || q.Get(name) == "" {
		return nil, nil
	}
	switch strings.ToLower(q.Get(name)) {
	case "true", "1":
		b := true
		return &b, nil
	case "false", "0":
		b := false
		return &b, nil
	}
	return nil, fmt.Errorf("%s must be true or false", name)
}

func dateFilter(q url.Values, name string) (*time.Time, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, fmt.Errorf("%s must be a date (YYYY-MM-DD) or RFC3339 timestamp", name)
	}
	return &t, nil
}

// decodeSingleField reads a PATCH body carrying exactly one field, either
// as JSON or as a form.
func decodeSingleField(r *http.Request) (string, any, error) {
	fields := map[string]any{}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			return "", nil, fmt.Errorf("%w: %v", errBadBody, err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return "", nil, fmt.Errorf("%w: %v", errBadBody, err)
		}
		for k := range r.PostForm {
			fields[k] = r.PostForm.Get(k)
		}
	}

	if len(fields) != 1 {
		return "", nil, fmt.Errorf("%w: expected exactly one field, got %d", errBadBody, len(fields))
	}
	for k, v := range fields {
		return k, v, nil
	}
	return "", nil, errBadBody
}
