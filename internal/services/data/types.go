package data

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"panelkit/internal/store/repositories"
)

var (
	ErrInvalidOrdering  = errors.New("invalid ordering")
	ErrNotFound         = errors.New("not found")
	ErrFieldNotEditable = errors.New("field not editable")
	ErrInvalidValue     = errors.New("invalid value")
)

// ListRequest represents a paginated list request
type ListRequest struct {
	Limit    int
	Offset   int
	Ordering string

	// URL is the absolute request URL; next/previous links are derived from it.
	URL *url.URL
}

// Validate validates and normalizes list request parameters
func (req *ListRequest) Validate(pageSize, maxPageSize int) {
	if pageSize <= 0 {
		pageSize = 10
	}
	if req.Limit <= 0 {
		req.Limit = pageSize
	}
	if maxPageSize > 0 && req.Limit > maxPageSize {
		req.Limit = maxPageSize
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
}

// ListResponse is the collection envelope the panel tables consume.
type ListResponse[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ParseOrdering turns an "o" value such as "-date_start,subject" into sort
// keys. Every field must be in allowed.
func ParseOrdering(raw string, allowed []string) ([]repositories.Order, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []repositories.Order
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		o := repositories.Order{Field: part}
		if strings.HasPrefix(part, "-") {
			o = repositories.Order{Field: part[1:], Desc: true}
		}
		if !slices.Contains(allowed, o.Field) {
			return nil, fmt.Errorf("%w: %q is not an ordering field", ErrInvalidOrdering, o.Field)
		}
		out = append(out, o)
	}
	return out, nil
}

// Links builds the next and previous page URLs for a window over count
// records, replacing only limit and offset in the request URL.
func Links(u *url.URL, limit, offset, count int) (next, previous *string) {
	if u == nil {
		return nil, nil
	}
	if offset+limit < count {
		s := withPaging(u, limit, offset+limit, true)
		next = &s
	}
	if offset > 0 {
		prev := offset - limit
		s := withPaging(u, limit, max(prev, 0), prev > 0)
		previous = &s
	}
	return next, previous
}

func withPaging(u *url.URL, limit, offset int, keepOffset bool) string {
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	if keepOffset {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}
	c := *u
	c.RawQuery = q.Encode()
	return c.String()
}

// ServiceError represents a data service error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return "data service " + e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
