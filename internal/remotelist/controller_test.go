package remotelist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"panelkit/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	ID int `json:"id"`
}

// fakeFetcher serves canned pages by URL and records every request.
type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
	pages map[string]*client.Page[rec]
	errs  map[string]error
	gate  chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: make(map[string]*client.Page[rec]),
		errs:  make(map[string]error),
	}
}

func (f *fakeFetcher) FetchPage(ctx context.Context, url string) (*client.Page[rec], error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	gate := f.gate
	page, err := f.pages[url], f.errs[url]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if page == nil {
		return &client.Page[rec]{Results: []rec{}, Status: http.StatusOK}, nil
	}
	return page, nil
}

func (f *fakeFetcher) hold() {
	f.mu.Lock()
	f.gate = make(chan struct{})
	f.mu.Unlock()
}

func (f *fakeFetcher) release() {
	f.mu.Lock()
	close(f.gate)
	f.gate = nil
	f.mu.Unlock()
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) lastCall() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

func link(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func pageOf(count int, next, prev string, ids ...int) *client.Page[rec] {
	results := make([]rec, len(ids))
	for i, id := range ids {
		results[i] = rec{ID: id}
	}
	return &client.Page[rec]{Count: count, Next: link(next), Previous: link(prev), Results: results, Status: http.StatusOK}
}

func strPtr(s string) *string { return &s }

const base = "http://panel.local/api/panel/events/"

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{9, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{20, 10, 2},
		{25, 10, 3},
		{100, 10, 10},
		{101, 10, 11},
		{25, 0, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.count, tt.size), "count=%d size=%d", tt.count, tt.size)
	}
}

func TestSetURL_ReplacesItems(t *testing.T) {
	f := newFakeFetcher()
	f.pages[base] = pageOf(25, base+"?limit=10&offset=10", "", 1, 2, 3)
	f.pages[base+"?limit=10&offset=20"] = pageOf(25, "", base+"?limit=10&offset=10", 21, 22)

	c := New[rec](f, base)
	c.Refresh()
	c.Wait()

	st := c.Snapshot()
	assert.Equal(t, []rec{{1}, {2}, {3}}, st.Items)
	assert.Equal(t, 25, st.TotalCount)
	assert.Equal(t, 3, st.TotalPages)
	assert.Equal(t, 1, st.CurrentPage)
	assert.False(t, st.Loading)

	c.SetURL(base + "?limit=10&offset=20")
	c.Wait()

	st = c.Snapshot()
	assert.Equal(t, []rec{{21}, {22}}, st.Items, "items are replaced, never merged")
	assert.Equal(t, base+"?limit=10&offset=20", st.URL)
	assert.Equal(t, 3, st.CurrentPage)
	assert.False(t, st.HasNext())
	assert.True(t, st.HasPrevious())
}

func TestOperationsDroppedWhileLoading(t *testing.T) {
	f := newFakeFetcher()
	f.pages[base+"?status=pending"] = pageOf(30, base+"?offset=10&status=pending", base+"?status=pending", 1, 2)

	c := New[rec](f, base+"?status=pending")
	c.Refresh()
	c.Wait()
	before := c.Snapshot()
	require.Equal(t, 1, f.callCount())

	f.hold()
	c.SetURL(base + "?status=done")
	require.True(t, c.Snapshot().Loading)
	require.Equal(t, 2, f.callCount())

	c.SetURL(base + "?status=other")
	c.NextPage()
	c.PreviousPage()
	c.SetFilter("status", strPtr("active"))
	c.SetOrdering("name")
	c.Refresh()

	assert.Equal(t, 2, f.callCount(), "no request may be issued while loading")
	st := c.Snapshot()
	assert.Equal(t, before.URL, st.URL)
	assert.Equal(t, before.Items, st.Items)
	assert.Equal(t, before.CurrentPage, st.CurrentPage)

	f.release()
	c.Wait()
	assert.Equal(t, base+"?status=done", c.Snapshot().URL)
	assert.False(t, c.Snapshot().Loading)
}

func TestSetOrdering(t *testing.T) {
	f := newFakeFetcher()
	c := New[rec](f, base+"?limit=10")

	c.SetOrdering("name")
	c.Wait()
	st := c.Snapshot()
	assert.Equal(t, base+"?limit=10&o=name", st.URL)
	assert.Equal(t, 1, strings.Count(st.URL, "o="))
	assert.Equal(t, "name", st.Ordering)

	c.SetOrdering("name")
	c.Wait()
	st = c.Snapshot()
	assert.Equal(t, base+"?limit=10&o=-name", st.URL)
	assert.Equal(t, "-name", st.Ordering)

	c.SetOrdering("name")
	c.Wait()
	assert.Equal(t, base+"?limit=10&o=name", c.Snapshot().URL, "a descending field switches back to ascending")

	c.SetOrdering("date_start")
	c.Wait()
	assert.Equal(t, base+"?limit=10&o=date_start", c.Snapshot().URL)

	assert.Equal(t, 4, f.callCount(), "each call issues exactly one fetch")
}

func TestSetOrdering_NoQuery(t *testing.T) {
	f := newFakeFetcher()
	c := New[rec](f, base)

	c.SetOrdering("subject")
	c.Wait()
	assert.Equal(t, base+"?o=subject", c.Snapshot().URL)
}

func TestSetFilter_ReplacesOnlyThatParameter(t *testing.T) {
	f := newFakeFetcher()
	start := base + "?q=pending&status=pending&type=call&date_since=2024-01-01T00%3A00%3A00Z"
	c := New[rec](f, start)

	c.SetFilter("status", strPtr("active"))
	c.Wait()

	assert.Equal(t, base+"?q=pending&status=active&type=call&date_since=2024-01-01T00%3A00%3A00Z", c.Snapshot().URL)
	assert.Equal(t, c.Snapshot().URL, f.lastCall())
}

func TestSetFilter_AppendsWhenAbsent(t *testing.T) {
	f := newFakeFetcher()
	c := New[rec](f, base+"?limit=10")

	c.SetFilter("is_public", strPtr("true"))
	c.Wait()
	assert.Equal(t, base+"?limit=10&is_public=true", c.Snapshot().URL)
}

func TestSetFilter_NilValueIsNoop(t *testing.T) {
	f := newFakeFetcher()
	c := New[rec](f, base+"?status=pending")

	c.SetFilter("status", nil)
	c.SetFilter("type", nil)
	c.Wait()

	assert.Equal(t, 0, f.callCount())
	assert.Equal(t, base+"?status=pending", c.Snapshot().URL)
}

func TestNextPage_WithoutNextIsNoop(t *testing.T) {
	f := newFakeFetcher()
	f.pages[base] = pageOf(3, "", "", 1, 2, 3)
	c := New[rec](f, base)
	c.Refresh()
	c.Wait()
	before := c.Snapshot()

	c.NextPage()
	c.PreviousPage()
	c.Wait()

	assert.Equal(t, 1, f.callCount())
	assert.Equal(t, before, c.Snapshot())
}

func TestNextAndPreviousPage(t *testing.T) {
	p2 := base + "?limit=10&offset=10"
	f := newFakeFetcher()
	f.pages[base] = pageOf(25, p2, "", 1)
	f.pages[p2] = pageOf(25, base+"?limit=10&offset=20", base+"?limit=10", 11)
	f.pages[base+"?limit=10"] = pageOf(25, p2, "", 1)

	c := New[rec](f, base)
	c.Refresh()
	c.Wait()

	c.NextPage()
	c.Wait()
	st := c.Snapshot()
	assert.Equal(t, 2, st.CurrentPage)
	assert.Equal(t, p2, st.URL)
	assert.Equal(t, p2, f.lastCall(), "the server-provided link is followed verbatim")

	c.PreviousPage()
	c.Wait()
	st = c.Snapshot()
	assert.Equal(t, 1, st.CurrentPage)
	assert.Equal(t, base+"?limit=10", st.URL)
}

func TestServerErrorKeepsItems(t *testing.T) {
	f := newFakeFetcher()
	f.pages[base] = pageOf(2, "", "", 1, 2)
	f.errs[base+"?o=name"] = &client.APIError{Kind: client.KindServer, Status: http.StatusInternalServerError, Detail: "Internal error"}

	c := New[rec](f, base)
	c.Refresh()
	c.Wait()

	c.SetOrdering("name")
	c.Wait()

	st := c.Snapshot()
	require.NotNil(t, st.LastError)
	assert.Equal(t, "Internal error", st.LastError.Detail)
	assert.Equal(t, http.StatusInternalServerError, st.LastError.Status)
	assert.Equal(t, []rec{{1}, {2}}, st.Items)
	assert.Equal(t, base, st.URL)
	assert.False(t, st.Loading)

	// the controller stays usable
	c.SetFilter("type", strPtr("call"))
	c.Wait()
	st = c.Snapshot()
	assert.Nil(t, st.LastError)
	assert.Equal(t, base+"?type=call", st.URL)
}

func TestNonAPIErrorIsTransport(t *testing.T) {
	f := newFakeFetcher()
	f.errs[base] = context.DeadlineExceeded

	c := New[rec](f, base)
	c.Refresh()
	c.Wait()

	st := c.Snapshot()
	require.NotNil(t, st.LastError)
	assert.Equal(t, client.KindTransport, st.LastError.Kind)
}

func TestSubscribe(t *testing.T) {
	f := newFakeFetcher()
	f.pages[base] = pageOf(1, "", "", 7)
	c := New[rec](f, base)

	updates, stop := c.Subscribe()
	defer stop()

	f.hold()
	c.Refresh()

	first := <-updates
	assert.True(t, first.Loading)

	f.release()
	select {
	case st := <-updates:
		assert.False(t, st.Loading)
		assert.Equal(t, []rec{{7}}, st.Items)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot after fetch completed")
	}
}

func TestClose(t *testing.T) {
	f := newFakeFetcher()
	c := New[rec](f, base)
	updates, _ := c.Subscribe()

	c.Close()
	c.Refresh()
	c.SetOrdering("name")

	assert.Equal(t, 0, f.callCount())
	_, open := <-updates
	assert.False(t, open)
}

func TestController_AgainstHTTPServer(t *testing.T) {
	var fail bool
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Internal error"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count":    2,
			"next":     nil,
			"previous": nil,
			"results":  []map[string]any{{"id": 1}, {"id": 2}},
		})
	}))
	defer srv.Close()

	c := New[rec](client.NewPageFetcher[rec](client.NewHTTPClient("test", 5), nil), srv.URL+"/api/?limit=10")
	c.Refresh()
	c.Wait()
	require.Nil(t, c.Snapshot().LastError)

	mu.Lock()
	fail = true
	mu.Unlock()

	c.SetFilter("status", strPtr("active"))
	c.Wait()

	st := c.Snapshot()
	require.NotNil(t, st.LastError)
	assert.Equal(t, "Internal error", st.LastError.Detail)
	assert.Equal(t, []rec{{1}, {2}}, st.Items)
}
