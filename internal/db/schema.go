package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Each statement is IF NOT EXISTS so Init is idempotent and safe to call
// from every process at startup, including concurrently.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS meetings (
		id           SERIAL PRIMARY KEY,
		title        TEXT NOT NULL,
		date         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		duration     INT NOT NULL DEFAULT 0 CHECK (duration >= 0),
		tags         TEXT[] NOT NULL DEFAULT '{}',
		user_id      INT NOT NULL,
		transcript   TEXT NOT NULL DEFAULT '',
		summary      TEXT NOT NULL DEFAULT '',
		audio_url    TEXT NOT NULL DEFAULT '',
		participants JSONB NOT NULL DEFAULT '[]',
		notes        TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_meetings_title ON meetings (title)`,
	`CREATE INDEX IF NOT EXISTS idx_meetings_date ON meetings (date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_meetings_tags ON meetings USING GIN (tags)`,
	`CREATE TABLE IF NOT EXISTS action_items (
		id         UUID PRIMARY KEY,
		meeting_id INT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		position   INT NOT NULL,
		text       TEXT NOT NULL,
		completed  BOOLEAN NOT NULL DEFAULT FALSE,
		assignee   TEXT NOT NULL DEFAULT '',
		due_date   TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_action_items_meeting ON action_items (meeting_id, position)`,
	`CREATE TABLE IF NOT EXISTS email_templates (
		id         SERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		type       TEXT NOT NULL,
		subject    TEXT NOT NULL,
		body       TEXT NOT NULL,
		variables  TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_email_templates_name ON email_templates (name)`,
	`CREATE INDEX IF NOT EXISTS idx_email_templates_type ON email_templates (type)`,
	`CREATE TABLE IF NOT EXISTS preferences (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// InitSchema establishes the store schema if absent.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
