// Package remotelist pages, filters and sorts a remote paginated collection
// one page at a time.
//
// A Controller admits at most one request at a time. Operations issued while
// a request is in flight are dropped, not queued. State changes are published
// to subscribers as snapshots; rendering is left to the caller.
package remotelist

import (
	"context"
	"sync"

	"panelkit/internal/client"

	"github.com/rs/zerolog/log"
)

// Fetcher retrieves one page of a collection endpoint. Errors should be
// *client.APIError; anything else is treated as a transport failure.
type Fetcher[T any] interface {
	FetchPage(ctx context.Context, url string) (*client.Page[T], error)
}

type options struct {
	pageSize int
	name     string
}

// Option configures a Controller.
type Option func(*options)

// WithPageSize sets the page size used to derive the page count.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithName labels the controller in log lines.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// Controller holds the state of one remote list view.
type Controller[T any] struct {
	fetcher Fetcher[T]
	opts    options

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State[T]
	inflight chan struct{}
	subs     map[int]chan State[T]
	nextSub  int
	closed   bool
}

// New binds a controller to the collection at initialURL. Nothing is fetched
// until Refresh or another operation is called.
func New[T any](fetcher Fetcher[T], initialURL string, opts ...Option) *Controller[T] {
	o := options{pageSize: DefaultPageSize, name: "list"}
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(context.Background())
	ordering, _ := QueryParam(initialURL, OrderingParam)
	return &Controller[T]{
		fetcher: fetcher,
		opts:    o,
		ctx:     ctx,
		cancel:  cancel,
		state: State[T]{
			URL:         initialURL,
			CurrentPage: 1,
			TotalPages:  1,
			Ordering:    ordering,
		},
		subs: make(map[int]chan State[T]),
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe returns a channel receiving a snapshot after every state change
// and a function to stop receiving. Only the latest undelivered snapshot is
// kept, so a slow reader never blocks the controller.
func (c *Controller[T]) Subscribe() (<-chan State[T], func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan State[T], 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// Wait blocks until the request in flight, if any, has been applied.
func (c *Controller[T]) Wait() {
	c.mu.Lock()
	ch := c.inflight
	c.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

// Close tears the view down. Later operations are dropped and subscriber
// channels are closed.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

// SetURL fetches url and, on success, makes it the current page.
func (c *Controller[T]) SetURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.admitLocked("set_url") {
		return
	}
	c.fetchLocked(url, 0)
}

// Refresh re-fetches the current URL.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.admitLocked("refresh") {
		return
	}
	c.fetchLocked(c.state.URL, 0)
}

// NextPage follows the server-provided next link.
func (c *Controller[T]) NextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.admitLocked("next_page") || c.state.Next == "" {
		return
	}
	c.fetchLocked(c.state.Next, 1)
}

// PreviousPage follows the server-provided previous link.
func (c *Controller[T]) PreviousPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.admitLocked("previous_page") || c.state.Previous == "" {
		return
	}
	c.fetchLocked(c.state.Previous, -1)
}

// SetFilter sets query parameter name to *value and fetches. A nil value is a
// no-op: filters cannot be cleared through this call.
func (c *Controller[T]) SetFilter(name string, value *string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.admitLocked("set_filter") {
		return
	}
	if value == nil {
		log.Debug().Str("list", c.opts.name).Str("filter", name).Msg("filter without value ignored")
		return
	}
	c.fetchLocked(WithQueryParam(c.state.URL, name, *value), 0)
}

// SetOrdering sorts by field, ascending. Asking again for the field that is
// already the ordering flips it to descending.
func (c *Controller[T]) SetOrdering(field string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.admitLocked("set_ordering") {
		return
	}
	ordering := field
	if current, ok := QueryParam(c.state.URL, OrderingParam); ok && current == field {
		ordering = "-" + field
	}
	c.fetchLocked(WithQueryParam(c.state.URL, OrderingParam, ordering), 0)
}

func (c *Controller[T]) admitLocked(op string) bool {
	if c.closed {
		log.Debug().Str("list", c.opts.name).Str("op", op).Msg("list closed, operation dropped")
		return false
	}
	if c.state.Loading {
		log.Debug().Str("list", c.opts.name).Str("op", op).Msg("list busy, operation dropped")
		return false
	}
	return true
}

// fetchLocked marks the list as loading and fetches target in the
// background. step is the page delta applied on success; 0 derives the page
// from the URL.
func (c *Controller[T]) fetchLocked(target string, step int) {
	c.state.Loading = true
	done := make(chan struct{})
	c.inflight = done
	c.publishLocked()

	go func() {
		defer close(done)
		page, err := c.fetcher.FetchPage(c.ctx, target)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.state.Loading = false
		if c.closed {
			return
		}
		if err != nil {
			c.failLocked(target, err)
		} else {
			c.applyLocked(target, step, page)
		}
		c.publishLocked()
	}()
}

func (c *Controller[T]) applyLocked(target string, step int, page *client.Page[T]) {
	st := &c.state
	st.URL = target
	st.Items = page.Results
	st.TotalCount = page.Count
	st.TotalPages = TotalPages(page.Count, c.opts.pageSize)
	st.Next = page.NextURL()
	st.Previous = page.PreviousURL()
	st.Status = page.Status
	st.LastError = nil
	st.Ordering, _ = QueryParam(target, OrderingParam)

	if step != 0 {
		st.CurrentPage += step
	} else {
		st.CurrentPage = pageFromURL(target, c.opts.pageSize)
	}
	st.CurrentPage = clampPage(st.CurrentPage, st.TotalPages)
}

func (c *Controller[T]) failLocked(target string, err error) {
	apiErr := client.AsAPIError(err)
	c.state.LastError = apiErr
	c.state.Status = apiErr.Status
	log.Warn().
		Str("list", c.opts.name).
		Str("url", target).
		Str("kind", string(apiErr.Kind)).
		Int("status", apiErr.Status).
		Err(err).
		Msg("list fetch failed")
}

func (c *Controller[T]) publishLocked() {
	snap := c.state.clone()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot, keep the latest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
