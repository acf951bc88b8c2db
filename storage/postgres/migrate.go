package postgres

import (
	"context"
	"fmt"
	"log"
)

// migrations are applied in order on every startup; each statement is
// idempotent so re-running after a partial failure is safe.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id              UUID PRIMARY KEY,
		title           TEXT NOT NULL,
		due_time        TIMESTAMPTZ NOT NULL,
		priority        TEXT NOT NULL CHECK (priority IN ('Low', 'Medium', 'High')),
		completed       BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at    TIMESTAMPTZ,
		single_reminder BOOLEAN NOT NULL DEFAULT FALSE,
		hours_before    INTEGER,
		phone_number    TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reminders (
		id            UUID PRIMARY KEY,
		task_id       UUID NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		reminder_time TIMESTAMPTZ NOT NULL,
		attempts      INTEGER NOT NULL DEFAULT 0,
		abandoned     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reminders_task_id ON reminders(task_id)`,
	`CREATE TABLE IF NOT EXISTS dispatch_records (
		reminder_id         UUID PRIMARY KEY REFERENCES reminders(id) ON DELETE CASCADE,
		processed_at        TIMESTAMPTZ NOT NULL,
		provider_message_id TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS app_status (
		name  TEXT PRIMARY KEY,
		value TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate ensures the schema exists.
func (s *Store) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	log.Println("[migrate] schema up to date")
	return nil
}
