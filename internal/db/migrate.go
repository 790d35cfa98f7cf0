package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run
// on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// ActiveSessionIndex enforces at most one active session per owner.
const ActiveSessionIndex = "idx_sessions_one_active_per_owner"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL,
		project_id  TEXT NOT NULL,
		started_at  TEXT NOT NULL,
		ended_at    TEXT,
		active      INTEGER NOT NULL DEFAULT 1 CHECK(active IN (0,1)),
		paused      INTEGER NOT NULL DEFAULT 0 CHECK(paused IN (0,1)),
		paused_at   TEXT,
		note        TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		CHECK ((active = 1) = (ended_at IS NULL)),
		CHECK (paused = 0 OR (active = 1 AND paused_at IS NOT NULL))
	)`,

	// Partial unique index: the single-active-session rule is enforced at
	// write time, so two racing starts cannot both insert.
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + ActiveSessionIndex + ` ON sessions(owner_id) WHERE active = 1`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_owner_project ON sessions(owner_id, project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_owner_started ON sessions(owner_id, started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_owner_ended ON sessions(owner_id, ended_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project_id)`,
}
