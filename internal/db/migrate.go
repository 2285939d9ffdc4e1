package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies every schema statement. Statements are idempotent, so it
// runs on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Rows are listed in rowid order, which is insertion order, so list
// responses keep the order the client's stores expect.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL DEFAULT '',
		email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		name        TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		owner       TEXT NOT NULL DEFAULT '',
		team        TEXT NOT NULL DEFAULT '[]',
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS backlog_items (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		priority     INTEGER,
		status       TEXT NOT NULL DEFAULT '',
		story_points INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_backlog_items_project ON backlog_items(project_id)`,

	`CREATE TABLE IF NOT EXISTS sprints (
		id                  TEXT PRIMARY KEY,
		project_id          TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name                TEXT NOT NULL,
		start_date          TEXT NOT NULL DEFAULT '',
		end_date            TEXT NOT NULL DEFAULT '',
		status              TEXT NOT NULL DEFAULT '',
		milestone           TEXT NOT NULL DEFAULT '',
		due_date            TEXT NOT NULL DEFAULT '',
		capacity            INTEGER NOT NULL DEFAULT 0,
		story_points        INTEGER NOT NULL DEFAULT 0,
		story_points_closed INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sprints_project ON sprints(project_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		sprint_id    TEXT NOT NULL DEFAULT '',
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT '',
		assignee     TEXT NOT NULL DEFAULT '',
		story_points INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee)`,
}
