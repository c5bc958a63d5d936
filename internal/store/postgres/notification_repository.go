package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"panelkit/internal/domain/notification"
	"panelkit/internal/store/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notificationCols = `id, recipient, level, content, destination, date_creation, date_read`

var notificationOrderColumns = map[string]string{
	"id":            "id",
	"level":         "level",
	"date_creation": "date_creation",
	"date_read":     "date_read",
}

// notificationRepository implements NotificationRepository with pure data access
type notificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pgxpool.Pool) repositories.NotificationRepository {
	return &notificationRepository{db: db}
}

// List returns one page of notifications and the total number matching f
func (r *notificationRepository) List(ctx context.Context, f repositories.NotificationFilter, q repositories.PageQuery) ([]*notification.Notification, int, error) {
	w := notificationWhere(f)
	order, err := orderClause(notificationOrderColumns, q.OrderBy, "date_creation DESC, id DESC")
	if err != nil {
		return nil, 0, err
	}
	listSQL, args, countSQL := pageSQL(notificationCols, "panel_notifications", w, order, q)

	var total int
	if err := r.db.QueryRow(ctx, countSQL, w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}

func notificationWhere(f repositories.NotificationFilter) *where {
	w := &where{}
	if f.Recipient != nil {
		w.add("recipient = ?", *f.Recipient)
	}
	if f.IsRead != nil {
		if *f.IsRead {
			w.add("date_read IS NOT NULL")
		} else {
			w.add("date_read IS NULL")
		}
	}
	if f.Level != nil {
		w.add("level = ?", string(*f.Level))
	}
	return w
}

// FindByID finds a notification by ID
func (r *notificationRepository) FindByID(ctx context.Context, id int64) (*notification.Notification, error) {
	row := r.db.QueryRow(ctx, `SELECT `+notificationCols+` FROM panel_notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	return n, err
}

// Save inserts a new notification or updates the read state of an existing one
func (r *notificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	if n.ID == 0 {
		if n.DateCreation.IsZero() {
			n.DateCreation = time.Now().UTC()
		}
		return r.db.QueryRow(ctx, `
			INSERT INTO panel_notifications (recipient, level, content, destination, date_creation, date_read)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			n.Recipient, string(n.Level), n.Content, n.Destination, n.DateCreation, n.DateRead).Scan(&n.ID)
	}

	tag, err := r.db.Exec(ctx, `UPDATE panel_notifications SET date_read = $1 WHERE id = $2`, n.DateRead, n.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// MarkAllRead sets the read date of every unread notification, optionally for one recipient
func (r *notificationRepository) MarkAllRead(ctx context.Context, recipient *string, at time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE panel_notifications
		SET date_read = $1
		WHERE date_read IS NULL
		  AND ($2::text IS NULL OR recipient = $2)`, at, recipient)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// scanNotification scans a single row into a notification
func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var n notification.Notification
	var level string
	var dateRead sql.NullTime

	err := row.Scan(&n.ID, &n.Recipient, &level, &n.Content, &n.Destination, &n.DateCreation, &dateRead)
	if err != nil {
		return nil, err
	}
	n.Level = notification.Level(level)
	if dateRead.Valid {
		n.DateRead = &dateRead.Time
		n.IsRead = true
	}
	return &n, nil
}
