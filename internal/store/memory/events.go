package memory

import (
	"context"
	"sync"
	"time"

	"panelkit/internal/domain/event"
	"panelkit/internal/store/repositories"

	"github.com/google/uuid"
)

var eventOrder = map[string]func(a, b *event.Event) int{
	"subject":       func(a, b *event.Event) int { return stringCmp(a.Subject, b.Subject) },
	"type":          func(a, b *event.Event) int { return stringCmp(string(a.Type), string(b.Type)) },
	"user":          func(a, b *event.Event) int { return stringCmp(a.User, b.User) },
	"is_public":     func(a, b *event.Event) int { return boolCmp(a.IsPublic, b.IsPublic) },
	"date_start":    func(a, b *event.Event) int { return compareOptTime(a.DateStart, b.DateStart) },
	"date_finish":   func(a, b *event.Event) int { return compareOptTime(a.DateFinish, b.DateFinish) },
	"date_creation": func(a, b *event.Event) int { return a.DateCreation.Compare(b.DateCreation) },
}

var eventDefaultOrder = []repositories.Order{{Field: "date_creation", Desc: true}}

// Events is an in-memory EventRepository.
type Events struct {
	mu    sync.RWMutex
	items map[uuid.UUID]event.Event
}

func NewEvents(seed ...event.Event) *Events {
	s := &Events{items: make(map[uuid.UUID]event.Event)}
	for i := range seed {
		e := seed[i]
		_ = s.Save(context.Background(), &e)
	}
	return s
}

func (s *Events) List(ctx context.Context, f repositories.EventFilter, q repositories.PageQuery) ([]*event.Event, int, error) {
	s.mu.RLock()
	var matched []*event.Event
	for _, e := range s.items {
		if !matchEvent(&e, f) {
			continue
		}
		e := e
		matched = append(matched, &e)
	}
	s.mu.RUnlock()

	tie := func(a, b *event.Event) int { return stringCmp(a.ID.String(), b.ID.String()) }
	if err := sortBy(matched, q.OrderBy, eventOrder, eventDefaultOrder, tie); err != nil {
		return nil, 0, err
	}
	return window(matched, q), len(matched), nil
}

func matchEvent(e *event.Event, f repositories.EventFilter) bool {
	if f.Type != nil && e.Type != *f.Type {
		return false
	}
	if f.IsPublic != nil && e.IsPublic != *f.IsPublic {
		return false
	}
	if f.User != nil && e.User != *f.User {
		return false
	}
	if f.Since != nil && !onOrAfter(e, *f.Since) {
		return false
	}
	if f.Until != nil && !onOrBefore(e, *f.Until) {
		return false
	}
	return true
}

func onOrAfter(e *event.Event, t time.Time) bool {
	return !e.DateCreation.Before(t) || (e.DateStart != nil && !e.DateStart.Before(t))
}

func onOrBefore(e *event.Event, t time.Time) bool {
	return !e.DateCreation.After(t) || (e.DateStart != nil && !e.DateStart.After(t))
}

func (s *Events) FindByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &e, nil
}

func (s *Events) Save(ctx context.Context, e *event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.DateCreation.IsZero() {
		e.DateCreation = time.Now().UTC()
	}
	e.TypeColor = e.Type.Color()
	s.items[e.ID] = *e
	return nil
}
