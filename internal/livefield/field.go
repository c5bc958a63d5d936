// Package livefield saves a single form field to the backend as soon as it changes.
package livefield

import (
	"context"
	"errors"
	"sync/atomic"

	"panelkit/internal/client"

	"github.com/rs/zerolog/log"
)

// ProfileEndpoint is the current user's profile resource.
const ProfileEndpoint = "/api/account/me/profile/"

// ErrBusy is returned by Set while a previous Set on the same field is in flight.
var ErrBusy = errors.New("field update already in progress")

// Field PATCHes one named field of a resource.
type Field struct {
	http     *client.HTTPClient
	endpoint string
	name     string
	csrf     client.TokenSource
	header   string
	busy     atomic.Bool
}

// Option configures a Field.
type Option func(*Field)

// WithCSRFHeader overrides the header the token is sent in.
func WithCSRFHeader(header string) Option {
	return func(f *Field) { f.header = header }
}

func New(c *client.HTTPClient, endpoint, name string, csrf client.TokenSource, opts ...Option) *Field {
	f := &Field{
		http:     c,
		endpoint: endpoint,
		name:     name,
		csrf:     csrf,
		header:   client.DefaultCSRFHeader,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NavToggle is the sidebar "expanded" preference stored on the profile.
func NavToggle(c *client.HTTPClient, csrf client.TokenSource, opts ...Option) *Field {
	return New(c, ProfileEndpoint, "nav_expanded", csrf, opts...)
}

func (f *Field) Name() string     { return f.name }
func (f *Field) Endpoint() string { return f.endpoint }

// Busy reports whether an update is in flight; widgets render it as disabled.
func (f *Field) Busy() bool { return f.busy.Load() }

// Set sends {name: value}. Server rejections come back as *client.APIError
// carrying the response's detail message.
func (f *Field) Set(ctx context.Context, value any) error {
	if !f.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer f.busy.Store(false)

	resp, err := f.http.PatchJSON(ctx, f.endpoint, map[string]any{f.name: value}, client.CSRFHeaders(f.header, f.csrf))
	if err != nil {
		return client.AsAPIError(err)
	}
	if err := resp.Err(); err != nil {
		log.Warn().
			Str("endpoint", f.endpoint).
			Str("field", f.name).
			Int("status", resp.StatusCode).
			Msg("field update rejected")
		return err
	}
	return nil
}
