package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed request.
type ErrorKind string

const (
	// KindTransport means no usable response was received.
	KindTransport ErrorKind = "transport"
	// KindServer means the server answered with a non-2xx status.
	KindServer ErrorKind = "server"
	// KindMalformed means a 2xx response did not have the expected shape.
	KindMalformed ErrorKind = "malformed"
)

// APIError is the single error representation surfaced to widgets.
type APIError struct {
	Kind   ErrorKind `json:"kind"`
	Status int       `json:"status,omitempty"`
	Detail string    `json:"detail"`
	Err    error     `json:"-"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s error", e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// AsAPIError normalizes any error into an APIError; errors that are not
// already APIErrors are treated as transport failures.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Kind: KindTransport, Detail: "Request failed", Err: err}
}
