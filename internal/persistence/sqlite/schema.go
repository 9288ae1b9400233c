package sqlite

import (
	"context"
	"fmt"
)

// The reservation slot invariant lives in the schema: the unique index on
// (date, time) makes the conflict check and the insert a single atomic unit
// regardless of how many writers race for the slot.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		active     INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_employees_email ON employees (email)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id             TEXT PRIMARY KEY,
		date           TEXT NOT NULL,
		time           TEXT NOT NULL,
		employee_name  TEXT NOT NULL,
		employee_email TEXT NOT NULL,
		created_at     TEXT NOT NULL,
		updated_at     TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_slot ON reservations (date, time)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id             TEXT PRIMARY KEY,
		title          TEXT NOT NULL,
		description    TEXT,
		classification TEXT NOT NULL,
		due_date       TEXT NOT NULL,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks (due_date)`,
}

// Migrate creates the schema when it does not exist yet. Statements are
// idempotent, so running Migrate on every startup is safe.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := cp.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
