package postgres

import (
	"context"
	"database/sql"
	"errors"

	"panelkit/internal/domain/event"
	"panelkit/internal/store/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventCols = `id, username, subject, content, type, is_public, date_start, date_finish, date_creation`

var eventOrderColumns = map[string]string{
	"subject":       "subject",
	"type":          "type",
	"user":          "username",
	"is_public":     "is_public",
	"date_start":    "date_start",
	"date_finish":   "date_finish",
	"date_creation": "date_creation",
}

// eventRepository implements EventRepository with pure data access
type eventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *pgxpool.Pool) repositories.EventRepository {
	return &eventRepository{db: db}
}

// List returns one page of events and the total number matching f
func (r *eventRepository) List(ctx context.Context, f repositories.EventFilter, q repositories.PageQuery) ([]*event.Event, int, error) {
	w := eventWhere(f)
	order, err := orderClause(eventOrderColumns, q.OrderBy, "date_creation DESC, id ASC")
	if err != nil {
		return nil, 0, err
	}
	listSQL, args, countSQL := pageSQL(eventCols, "panel_events", w, order, q)

	var total int
	if err := r.db.QueryRow(ctx, countSQL, w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []*event.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func eventWhere(f repositories.EventFilter) *where {
	w := &where{}
	if f.Type != nil {
		w.add("type = ?", string(*f.Type))
	}
	if f.IsPublic != nil {
		w.add("is_public = ?", *f.IsPublic)
	}
	if f.User != nil {
		w.add("username = ?", *f.User)
	}
	if f.Since != nil {
		w.add("(date_creation >= ? OR date_start >= ?)", *f.Since, *f.Since)
	}
	if f.Until != nil {
		w.add("(date_creation <= ? OR date_start <= ?)", *f.Until, *f.Until)
	}
	return w
}

// FindByID finds an event by ID
func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	row := r.db.QueryRow(ctx, `SELECT `+eventCols+` FROM panel_events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	return e, err
}

// Save saves an event (insert or update)
func (r *eventRepository) Save(ctx context.Context, e *event.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO panel_events (id, username, subject, content, type, is_public, date_start, date_finish, date_creation)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
		    username = EXCLUDED.username,
		    subject = EXCLUDED.subject,
		    content = EXCLUDED.content,
		    type = EXCLUDED.type,
		    is_public = EXCLUDED.is_public,
		    date_start = EXCLUDED.date_start,
		    date_finish = EXCLUDED.date_finish`,
		e.ID, e.User, e.Subject, e.Content, string(e.Type), e.IsPublic,
		e.DateStart, e.DateFinish, e.DateCreation)
	return err
}

// scanEvent scans a single row into an event
func scanEvent(row pgx.Row) (*event.Event, error) {
	var e event.Event
	var user sql.NullString
	var eventType string
	var start, finish sql.NullTime

	err := row.Scan(&e.ID, &user, &e.Subject, &e.Content, &eventType, &e.IsPublic, &start, &finish, &e.DateCreation)
	if err != nil {
		return nil, err
	}

	e.Type = event.Type(eventType)
	e.TypeColor = e.Type.Color()
	if user.Valid {
		e.User = user.String
	}
	if start.Valid {
		e.DateStart = &start.Time
	}
	if finish.Valid {
		e.DateFinish = &finish.Time
	}
	return &e, nil
}
