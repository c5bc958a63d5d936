package memory

import (
	"fmt"
	"time"

	"panelkit/internal/domain/event"
	"panelkit/internal/domain/notification"
)

// Demo returns stores filled with sample rows for running the API without a
// database.
func Demo(now time.Time) (*Notifications, *Events) {
	levels := []notification.Level{notification.LevelInfo, notification.LevelSuccess, notification.LevelWarning, notification.LevelError}
	var notes []notification.Notification
	for i := 0; i < 24; i++ {
		n := notification.Notification{
			Recipient:    "admin",
			Level:        levels[i%len(levels)],
			Content:      fmt.Sprintf("Sample notification %d", i+1),
			DateCreation: now.Add(-time.Duration(i) * time.Hour),
		}
		if i%3 == 0 {
			read := n.DateCreation.Add(10 * time.Minute)
			n.DateRead = &read
		}
		notes = append(notes, n)
	}

	types := []event.Type{event.TypeTask, event.TypeAppointment, event.TypeCall, event.TypeJobStart, event.TypePrivate}
	var events []event.Event
	for i := 0; i < 35; i++ {
		start := now.AddDate(0, 0, i-10)
		events = append(events, event.Event{
			User:         []string{"admin", "ana", "ben"}[i%3],
			Subject:      fmt.Sprintf("Event %02d", i+1),
			Type:         types[i%len(types)],
			IsPublic:     i%2 == 0,
			DateStart:    &start,
			DateCreation: now.Add(-time.Duration(i) * time.Minute),
		})
	}
	return NewNotifications(notes...), NewEvents(events...)
}
