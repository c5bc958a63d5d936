package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// MustOpen connects a pool to dsn and pings it, exiting the process on failure.
func MustOpen(ctx context.Context, dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect fail")
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping fail")
	}
	return pool
}

const schema = `
CREATE TABLE IF NOT EXISTS panel_notifications (
	id            BIGSERIAL PRIMARY KEY,
	recipient     TEXT NOT NULL,
	level         TEXT NOT NULL DEFAULT 'info',
	content       VARCHAR(250) NOT NULL,
	destination   TEXT NOT NULL DEFAULT '',
	date_creation TIMESTAMPTZ NOT NULL DEFAULT now(),
	date_read     TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS panel_notifications_recipient_idx ON panel_notifications (recipient, date_creation DESC);

CREATE TABLE IF NOT EXISTS panel_events (
	id            UUID PRIMARY KEY,
	username      TEXT,
	subject       TEXT NOT NULL,
	content       TEXT NOT NULL DEFAULT '',
	type          TEXT NOT NULL,
	is_public     BOOLEAN NOT NULL DEFAULT false,
	date_start    TIMESTAMPTZ,
	date_finish   TIMESTAMPTZ,
	date_creation TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS panel_events_dates_idx ON panel_events (date_creation, date_start);
`

// Migrate creates the panel tables when they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
