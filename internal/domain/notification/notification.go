package notification

import (
	"fmt"
	"strings"
	"time"
)

// Notification is a message addressed to one panel user.
type Notification struct {
	ID           int64      `json:"id"`
	Recipient    string     `json:"recipient"`
	Level        Level      `json:"level"`
	Content      string     `json:"content"`
	Destination  string     `json:"destination,omitempty"`
	DateCreation time.Time  `json:"date_creation"`
	DateRead     *time.Time `json:"date_read"`
	IsRead       bool       `json:"is_read"`
}

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

func (l Level) Valid() bool {
	switch l {
	case LevelInfo, LevelSuccess, LevelWarning, LevelError:
		return true
	}
	return false
}

// MarkRead records the read date. It reports false when already read.
func (n *Notification) MarkRead(now time.Time) bool {
	if n.IsRead {
		return false
	}
	n.DateRead = &now
	n.IsRead = true
	return true
}

// MarkUnread clears the read date. It reports false when already unread.
func (n *Notification) MarkUnread() bool {
	if !n.IsRead {
		return false
	}
	n.DateRead = nil
	n.IsRead = false
	return true
}

// EditableFields are the fields a single-field PATCH may change.
var EditableFields = []string{"is_read"}

// ApplyField sets one editable field from a decoded JSON or form value.
func (n *Notification) ApplyField(name string, value any, now time.Time) error {
	if name != "is_read" {
		return fmt.Errorf("field %q is not editable", name)
	}
	var read bool
	switch v := value.(type) {
	case bool:
		read = v
	case string:
		switch strings.ToLower(v) {
		case "true", "1", "on":
			read = true
		case "false", "0", "off":
			read = false
		default:
			return fmt.Errorf("is_read must be a boolean")
		}
	default:
		return fmt.Errorf("is_read must be a boolean")
	}
	if read {
		n.MarkRead(now)
	} else {
		n.MarkUnread()
	}
	return nil
}
