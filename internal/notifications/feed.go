package notifications

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"panelkit/internal/domain/notification"
)

// ErrBusy is returned when the feed is already loading.
var ErrBusy = errors.New("notification feed is loading")

// FeedState is a snapshot of the widget.
type FeedState struct {
	Items   []notification.Notification
	Count   int
	Unread  int
	HasMore bool
	Loading bool
}

// Feed accumulates notification pages. Unlike a remote list, LoadMore
// appends the next page to what is already shown.
type Feed struct {
	svc *Service

	mu      sync.Mutex
	loading bool
	items   []notification.Notification
	count   int
	next    string
}

func NewFeed(svc *Service) *Feed {
	return &Feed{svc: svc}
}

// Load replaces the feed with the first page.
func (f *Feed) Load(ctx context.Context) error {
	if !f.begin() {
		return ErrBusy
	}
	page, err := f.svc.List(ctx, "")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		return err
	}
	f.items = page.Results
	f.count = page.Count
	f.next = page.NextURL()
	return nil
}

// LoadMore appends the next page. Without a next link it does nothing.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return ErrBusy
	}
	next := f.next
	if next == "" {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	f.mu.Unlock()

	page, err := f.svc.List(ctx, next)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		return err
	}
	f.items = append(f.items, page.Results...)
	f.count = page.Count
	f.next = page.NextURL()
	return nil
}

// MarkRead marks one notification read on the server and in the feed.
func (f *Feed) MarkRead(ctx context.Context, id int64) error {
	if err := f.svc.SetRead(ctx, id); err != nil {
		return err
	}
	now := time.Now()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].MarkRead(now)
		}
	}
	return nil
}

// MarkAllRead marks everything read on the server and in the feed.
func (f *Feed) MarkAllRead(ctx context.Context) error {
	if !f.begin() {
		return ErrBusy
	}
	err := f.svc.SetAllRead(ctx)

	now := time.Now()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		return err
	}
	for i := range f.items {
		f.items[i].MarkRead(now)
	}
	return nil
}

func (f *Feed) Snapshot() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := FeedState{
		Items:   slices.Clone(f.items),
		Count:   f.count,
		HasMore: f.next != "",
		Loading: f.loading,
	}
	for _, n := range f.items {
		if !n.IsRead {
			st.Unread++
		}
	}
	return st
}

func (f *Feed) begin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loading {
		return false
	}
	f.loading = true
	return true
}
