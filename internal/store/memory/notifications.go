package memory

import (
	"cmp"
	"context"
	"sync"
	"time"

	"panelkit/internal/domain/notification"
	"panelkit/internal/store/repositories"
)

var notificationOrder = map[string]func(a, b *notification.Notification) int{
	"id":            func(a, b *notification.Notification) int { return cmp.Compare(a.ID, b.ID) },
	"level":         func(a, b *notification.Notification) int { return stringCmp(string(a.Level), string(b.Level)) },
	"date_creation": func(a, b *notification.Notification) int { return a.DateCreation.Compare(b.DateCreation) },
	"date_read":     func(a, b *notification.Notification) int { return compareOptTime(a.DateRead, b.DateRead) },
}

var notificationDefaultOrder = []repositories.Order{{Field: "date_creation", Desc: true}, {Field: "id", Desc: true}}

// Notifications is an in-memory NotificationRepository.
type Notifications struct {
	mu     sync.RWMutex
	items  map[int64]notification.Notification
	nextID int64
}

func NewNotifications(seed ...notification.Notification) *Notifications {
	s := &Notifications{items: make(map[int64]notification.Notification)}
	for i := range seed {
		n := seed[i]
		_ = s.Save(context.Background(), &n)
	}
	return s
}

func (s *Notifications) List(ctx context.Context, f repositories.NotificationFilter, q repositories.PageQuery) ([]*notification.Notification, int, error) {
	s.mu.RLock()
	var matched []*notification.Notification
	for _, n := range s.items {
		if f.Recipient != nil && n.Recipient != *f.Recipient {
			continue
		}
		if f.IsRead != nil && n.IsRead != *f.IsRead {
			continue
		}
		if f.Level != nil && n.Level != *f.Level {
			continue
		}
		n := n
		matched = append(matched, &n)
	}
	s.mu.RUnlock()

	tie := func(a, b *notification.Notification) int { return cmp.Compare(a.ID, b.ID) }
	if err := sortBy(matched, q.OrderBy, notificationOrder, notificationDefaultOrder, tie); err != nil {
		return nil, 0, err
	}
	return window(matched, q), len(matched), nil
}

func (s *Notifications) FindByID(ctx context.Context, id int64) (*notification.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &n, nil
}

func (s *Notifications) Save(ctx context.Context, n *notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == 0 {
		s.nextID++
		n.ID = s.nextID
		if n.DateCreation.IsZero() {
			n.DateCreation = time.Now().UTC()
		}
	} else if _, ok := s.items[n.ID]; !ok {
		if n.ID <= s.nextID {
			return repositories.ErrNotFound
		}
		s.nextID = n.ID
	}
	n.IsRead = n.DateRead != nil
	s.items[n.ID] = *n
	return nil
}

func (s *Notifications) MarkAllRead(ctx context.Context, recipient *string, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for id, n := range s.items {
		if recipient != nil && n.Recipient != *recipient {
			continue
		}
		if n.MarkRead(at) {
			s.items[id] = n
			count++
		}
	}
	return count, nil
}

func compareOptTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}
