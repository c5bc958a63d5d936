package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is a calendar entry shown in the panel's agenda.
type Event struct {
	ID           uuid.UUID  `json:"id"`
	User         string     `json:"user,omitempty"`
	Subject      string     `json:"subject"`
	Content      string     `json:"content"`
	Type         Type       `json:"type"`
	TypeColor    string     `json:"type_color"`
	IsPublic     bool       `json:"is_public"`
	DateStart    *time.Time `json:"date_start"`
	DateFinish   *time.Time `json:"date_finish"`
	DateCreation time.Time  `json:"date_creation"`
}

// Type represents the kind of calendar entry
type Type string

const (
	TypeTask        Type = "task"
	TypeAppointment Type = "appointment"
	TypeCall        Type = "call"
	TypeJobStart    Type = "job-start"
	TypePrivate     Type = "private"
)

var typeColors = map[Type]string{
	TypeTask:        "#1ab394",
	TypeAppointment: "#1c84c6",
	TypeCall:        "#23c6c8",
	TypeJobStart:    "#f8ac59",
	TypePrivate:     "#ed5565",
}

// Color returns the agenda color of an event type.
func (t Type) Color() string {
	return typeColors[t]
}

func (t Type) Valid() bool {
	_, ok := typeColors[t]
	return ok
}

// NewEvent creates a new event with validation
func NewEvent(user, subject, content string, eventType Type, start, finish *time.Time) (*Event, error) {
	e := &Event{
		ID:           uuid.New(),
		User:         user,
		Subject:      strings.TrimSpace(subject),
		Content:      content,
		Type:         eventType,
		TypeColor:    eventType.Color(),
		DateStart:    start,
		DateFinish:   finish,
		DateCreation: time.Now().UTC(),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Start is where the event sits on the calendar: its start date, or its
// creation date when it has none.
func (e *Event) Start() time.Time {
	if e.DateStart != nil {
		return *e.DateStart
	}
	return e.DateCreation
}

// Validate checks the invariants of an event
func (e *Event) Validate() error {
	if e.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if !e.Type.Valid() {
		return fmt.Errorf("invalid event type: %s", e.Type)
	}
	if e.DateStart != nil && e.DateFinish != nil && e.DateFinish.Before(*e.DateStart) {
		return fmt.Errorf("finish date must not be before start date")
	}
	return nil
}

// EditableFields are the fields a single-field PATCH may change.
var EditableFields = []string{"subject", "content", "is_public"}

// ApplyField sets one editable field from a decoded JSON or form value.
func (e *Event) ApplyField(name string, value any) error {
	switch name {
	case "subject":
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return fmt.Errorf("subject must be a non-empty string")
		}
		e.Subject = strings.TrimSpace(s)
	case "content":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("content must be a string")
		}
		e.Content = s
	case "is_public":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("is_public: %w", err)
		}
		e.IsPublic = b
	default:
		return fmt.Errorf("field %q is not editable", name)
	}
	return nil
}

func parseBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(v) {
		case "true", "1", "on":
			return true, nil
		case "false", "0", "off", "":
			return false, nil
		}
	}
	return false, fmt.Errorf("must be a boolean")
}
