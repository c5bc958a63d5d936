package repositories

import (
	"context"
	"errors"
	"time"

	"panelkit/internal/domain/event"
	"panelkit/internal/domain/notification"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Order is one sort key, already validated against the resource's fields.
type Order struct {
	Field string
	Desc  bool
}

// PageQuery selects one window of a sorted result set.
type PageQuery struct {
	Limit   int
	Offset  int
	OrderBy []Order
}

// NotificationFilter narrows a notification listing; nil fields do not filter.
type NotificationFilter struct {
	Recipient *string
	IsRead    *bool
	Level     *notification.Level
}

// EventFilter narrows an event listing; nil fields do not filter.
// Since and Until match either the creation or the start date.
type EventFilter struct {
	Type     *event.Type
	IsPublic *bool
	User     *string
	Since    *time.Time
	Until    *time.Time
}

// NotificationRepository defines the contract for notification data access
type NotificationRepository interface {
	List(ctx context.Context, f NotificationFilter, q PageQuery) ([]*notification.Notification, int, error)
	FindByID(ctx context.Context, id int64) (*notification.Notification, error)
	Save(ctx context.Context, n *notification.Notification) error
	MarkAllRead(ctx context.Context, recipient *string, at time.Time) (int64, error)
}

// EventRepository defines the contract for calendar event data access
type EventRepository interface {
	List(ctx context.Context, f EventFilter, q PageQuery) ([]*event.Event, int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*event.Event, error)
	Save(ctx context.Context, e *event.Event) error
}
