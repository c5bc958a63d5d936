package data

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"panelkit/internal/domain/event"
	"panelkit/internal/domain/notification"
	"panelkit/internal/store/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificationOrdering and EventOrdering are the fields accepted in "o".
var (
	NotificationOrdering = []string{"id", "level", "date_creation", "date_read"}
	EventOrdering        = []string{"subject", "type", "user", "is_public", "date_start", "date_finish", "date_creation"}
)

// Service handles collection reads and single-field updates for the panel
type Service struct {
	notificationRepo repositories.NotificationRepository
	eventRepo        repositories.EventRepository
	pageSize         int
	maxPageSize      int
	now              func() time.Time
}

// NewService creates a new data service
func NewService(notificationRepo repositories.NotificationRepository, eventRepo repositories.EventRepository, pageSize, maxPageSize int) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		eventRepo:        eventRepo,
		pageSize:         pageSize,
		maxPageSize:      maxPageSize,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// ListNotifications returns one page of notifications matching f
func (s *Service) ListNotifications(ctx context.Context, f repositories.NotificationFilter, req ListRequest) (*ListResponse[*notification.Notification], error) {
	req.Validate(s.pageSize, s.maxPageSize)
	order, err := ParseOrdering(req.Ordering, NotificationOrdering)
	if err != nil {
		return nil, &ServiceError{Op: "list_notifications", Err: err}
	}

	items, total, err := s.notificationRepo.List(ctx, f, repositories.PageQuery{Limit: req.Limit, Offset: req.Offset, OrderBy: order})
	if err != nil {
		return nil, &ServiceError{Op: "list_notifications", Err: err}
	}
	return page(items, total, req), nil
}

// UpdateNotification applies a single-field change to a notification
func (s *Service) UpdateNotification(ctx context.Context, id int64, field string, value any) (*notification.Notification, error) {
	if !slices.Contains(notification.EditableFields, field) {
		return nil, &ServiceError{Op: "update_notification", Err: fmt.Errorf("%w: %s", ErrFieldNotEditable, field)}
	}
	n, err := s.findNotification(ctx, id)
	if err != nil {
		return nil, &ServiceError{Op: "update_notification", Err: err}
	}
	if err := n.ApplyField(field, value, s.now()); err != nil {
		return nil, &ServiceError{Op: "update_notification", Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
	}
	if err := s.notificationRepo.Save(ctx, n); err != nil {
		return nil, &ServiceError{Op: "update_notification", Err: err}
	}
	log.Info().Int64("notification_id", id).Str("field", field).Msg("notification updated")
	return n, nil
}

// SetNotificationRead marks one notification as read
func (s *Service) SetNotificationRead(ctx context.Context, id int64) (*notification.Notification, error) {
	n, err := s.findNotification(ctx, id)
	if err != nil {
		return nil, &ServiceError{Op: "set_read", Err: err}
	}
	if n.MarkRead(s.now()) {
		if err := s.notificationRepo.Save(ctx, n); err != nil {
			return nil, &ServiceError{Op: "set_read", Err: err}
		}
	}
	return n, nil
}

// SetAllNotificationsRead marks every unread notification (of recipient,
// when given) as read and returns how many changed
func (s *Service) SetAllNotificationsRead(ctx context.Context, recipient *string) (int64, error) {
	count, err := s.notificationRepo.MarkAllRead(ctx, recipient, s.now())
	if err != nil {
		return 0, &ServiceError{Op: "set_all_read", Err: err}
	}
	log.Info().Int64("count", count).Msg("notifications marked read")
	return count, nil
}

// ListEvents returns one page of calendar events matching f
func (s *Service) ListEvents(ctx context.Context, f repositories.EventFilter, req ListRequest) (*ListResponse[*event.Event], error) {
	req.Validate(s.pageSize, s.maxPageSize)
	order, err := ParseOrdering(req.Ordering, EventOrdering)
	if err != nil {
		return nil, &ServiceError{Op: "list_events", Err: err}
	}

	items, total, err := s.eventRepo.List(ctx, f, repositories.PageQuery{Limit: req.Limit, Offset: req.Offset, OrderBy: order})
	if err != nil {
		return nil, &ServiceError{Op: "list_events", Err: err}
	}
	return page(items, total, req), nil
}

// UpdateEvent applies a single-field change to an event
func (s *Service) UpdateEvent(ctx context.Context, id uuid.UUID, field string, value any) (*event.Event, error) {
	if !slices.Contains(event.EditableFields, field) {
		return nil, &ServiceError{Op: "update_event", Err: fmt.Errorf("%w: %s", ErrFieldNotEditable, field)}
	}
	e, err := s.eventRepo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, &ServiceError{Op: "update_event", Err: ErrNotFound}
	}
	if err != nil {
		return nil, &ServiceError{Op: "update_event", Err: err}
	}
	if err := e.ApplyField(field, value); err != nil {
		return nil, &ServiceError{Op: "update_event", Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
	}
	if err := s.eventRepo.Save(ctx, e); err != nil {
		return nil, &ServiceError{Op: "update_event", Err: err}
	}
	log.Info().Str("event_id", id.String()).Str("field", field).Msg("event updated")
	return e, nil
}

func (s *Service) findNotification(ctx context.Context, id int64) (*notification.Notification, error) {
	n, err := s.notificationRepo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return n, err
}

func page[T any](items []T, total int, req ListRequest) *ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	next, prev := Links(req.URL, req.Limit, req.Offset, total)
	return &ListResponse[T]{Count: total, Next: next, Previous: prev, Results: items}
}
