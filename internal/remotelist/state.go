package remotelist

import (
	"slices"

	"panelkit/internal/client"
)

// OrderingParam is the query parameter the backend sorts by.
const OrderingParam = "o"

// State is a snapshot of a controller's list state.
type State[T any] struct {
	URL         string
	Items       []T
	CurrentPage int
	TotalPages  int
	TotalCount  int
	Ordering    string
	Loading     bool
	LastError   *client.APIError

	// Next and Previous are the links of the last successful response.
	Next     string
	Previous string
	// Status is the HTTP status of the last response, 0 before any.
	Status int
}

// HasNext reports whether NextPage would issue a request.
func (s State[T]) HasNext() bool { return s.Next != "" }

// HasPrevious reports whether PreviousPage would issue a request.
func (s State[T]) HasPrevious() bool { return s.Previous != "" }

func (s State[T]) clone() State[T] {
	s.Items = slices.Clone(s.Items)
	return s
}
