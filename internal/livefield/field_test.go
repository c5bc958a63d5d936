package livefield

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"panelkit/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_SendsSingleFieldWithToken(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, ProfileEndpoint, r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-CSRFToken"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := client.NewHTTPClient("test", 5)
	c.SetBaseURL(srv.URL)

	f := NavToggle(c, client.StaticToken("secret"))
	require.NoError(t, f.Set(context.Background(), false))
	assert.Equal(t, map[string]any{"nav_expanded": false}, body)
	assert.False(t, f.Busy())
}

func TestSet_ServerDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid status."})
	}))
	defer srv.Close()

	c := client.NewHTTPClient("test", 5)
	f := New(c, srv.URL+"/api/panel/events/1/", "status", nil)

	err := f.Set(context.Background(), "bogus")
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, client.KindServer, apiErr.Kind)
	assert.Equal(t, "Invalid status.", apiErr.Detail)
	assert.False(t, f.Busy(), "the field is enabled again after an error")
}

func TestSet_BusyWhileInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := client.NewHTTPClient("test", 5)
	f := New(c, srv.URL, "is_public", nil, WithCSRFHeader("X-Other"))

	done := make(chan error, 1)
	go func() { done <- f.Set(context.Background(), true) }()

	<-entered
	assert.True(t, f.Busy())
	assert.ErrorIs(t, f.Set(context.Background(), false), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, f.Busy())
}
