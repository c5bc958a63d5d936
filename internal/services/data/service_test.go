package data

import (
	"context"
	"net/url"
	"testing"
	"time"

	"panelkit/internal/domain/event"
	"panelkit/internal/domain/notification"
	"panelkit/internal/store/memory"
	"panelkit/internal/store/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotifications(n int) *memory.Notifications {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	var seed []notification.Notification
	for i := 0; i < n; i++ {
		seed = append(seed, notification.Notification{
			Recipient:    "ana",
			Level:        notification.LevelInfo,
			Content:      "hello",
			DateCreation: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return memory.NewNotifications(seed...)
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestParseOrdering(t *testing.T) {
	order, err := ParseOrdering("-date_start, subject", EventOrdering)
	require.NoError(t, err)
	assert.Equal(t, []repositories.Order{{Field: "date_start", Desc: true}, {Field: "subject"}}, order)

	order, err = ParseOrdering("", EventOrdering)
	require.NoError(t, err)
	assert.Nil(t, order)

	_, err = ParseOrdering("password", EventOrdering)
	assert.ErrorIs(t, err, ErrInvalidOrdering)
}

func TestLinks(t *testing.T) {
	u := mustURL(t, "http://panel.local/api/panel/events/?type=call&offset=10&limit=10")

	next, prev := Links(u, 10, 10, 35)
	require.NotNil(t, next)
	require.NotNil(t, prev)
	assert.Equal(t, "http://panel.local/api/panel/events/?limit=10&offset=20&type=call", *next)
	assert.Equal(t, "http://panel.local/api/panel/events/?limit=10&type=call", *prev)

	next, prev = Links(u, 10, 30, 35)
	assert.Nil(t, next)
	require.NotNil(t, prev)
	assert.Equal(t, "http://panel.local/api/panel/events/?limit=10&offset=20&type=call", *prev)

	next, prev = Links(u, 10, 0, 5)
	assert.Nil(t, next)
	assert.Nil(t, prev)
}

func TestListRequest_Validate(t *testing.T) {
	req := ListRequest{}
	req.Validate(10, 100)
	assert.Equal(t, 10, req.Limit)

	req = ListRequest{Limit: 500, Offset: -3}
	req.Validate(10, 100)
	assert.Equal(t, 100, req.Limit)
	assert.Equal(t, 0, req.Offset)
}

func TestListNotifications_PagesAndOrders(t *testing.T) {
	svc := NewService(seedNotifications(25), memory.NewEvents(), 10, 100)
	u := mustURL(t, "http://panel.local/api/panel/notifications/")

	resp, err := svc.ListNotifications(context.Background(), repositories.NotificationFilter{}, ListRequest{URL: u, Ordering: "id"})
	require.NoError(t, err)
	assert.Equal(t, 25, resp.Count)
	require.Len(t, resp.Results, 10)
	assert.Equal(t, int64(1), resp.Results[0].ID)
	require.NotNil(t, resp.Next)
	assert.Equal(t, "http://panel.local/api/panel/notifications/?limit=10&offset=10", *resp.Next)
	assert.Nil(t, resp.Previous)

	resp, err = svc.ListNotifications(context.Background(), repositories.NotificationFilter{}, ListRequest{URL: u, Offset: 20})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 5)
	assert.Nil(t, resp.Next)
	assert.Equal(t, int64(5), resp.Results[0].ID, "default ordering is newest first")
}

func TestListNotifications_EmptyResultsAreNotNull(t *testing.T) {
	svc := NewService(memory.NewNotifications(), memory.NewEvents(), 10, 100)

	resp, err := svc.ListNotifications(context.Background(), repositories.NotificationFilter{}, ListRequest{})
	require.NoError(t, err)
	assert.NotNil(t, resp.Results)
	assert.Equal(t, 0, resp.Count)
}

func TestListEvents_RejectsUnknownOrdering(t *testing.T) {
	svc := NewService(memory.NewNotifications(), memory.NewEvents(), 10, 100)

	_, err := svc.ListEvents(context.Background(), repositories.EventFilter{}, ListRequest{Ordering: "-content"})
	assert.ErrorIs(t, err, ErrInvalidOrdering)

	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "list_events", se.Op)
}

func TestUpdateNotification(t *testing.T) {
	svc := NewService(seedNotifications(1), memory.NewEvents(), 10, 100)
	ctx := context.Background()

	n, err := svc.UpdateNotification(ctx, 1, "is_read", true)
	require.NoError(t, err)
	assert.True(t, n.IsRead)
	assert.NotNil(t, n.DateRead)

	_, err = svc.UpdateNotification(ctx, 1, "content", "x")
	assert.ErrorIs(t, err, ErrFieldNotEditable)

	_, err = svc.UpdateNotification(ctx, 1, "is_read", "maybe")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = svc.UpdateNotification(ctx, 99, "is_read", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetAllNotificationsRead(t *testing.T) {
	svc := NewService(seedNotifications(3), memory.NewEvents(), 10, 100)
	ctx := context.Background()

	_, err := svc.SetNotificationRead(ctx, 2)
	require.NoError(t, err)

	count, err := svc.SetAllNotificationsRead(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	unread := false
	resp, err := svc.ListNotifications(ctx, repositories.NotificationFilter{IsRead: &unread}, ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)
}

func TestUpdateEvent(t *testing.T) {
	e, err := event.NewEvent("ana", "Standup", "", event.TypeTask, nil, nil)
	require.NoError(t, err)
	events := memory.NewEvents(*e)
	svc := NewService(memory.NewNotifications(), events, 10, 100)

	updated, err := svc.UpdateEvent(context.Background(), e.ID, "is_public", "true")
	require.NoError(t, err)
	assert.True(t, updated.IsPublic)

	stored, err := events.FindByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPublic)

	_, err = svc.UpdateEvent(context.Background(), e.ID, "type", "call")
	assert.ErrorIs(t, err, ErrFieldNotEditable)
}
