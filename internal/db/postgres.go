package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenPostgres connects a pgx pool to dsn, verifies connectivity and applies
// the Postgres schema.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if err := MigratePostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running postgres migrations: %w", err)
	}
	return pool, nil
}

// MigratePostgres applies the Postgres schema. Statements are idempotent.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range postgresMigrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres migration %d: %w", i, err)
		}
	}
	return nil
}

var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL,
		project_id  TEXT NOT NULL,
		started_at  TIMESTAMPTZ NOT NULL,
		ended_at    TIMESTAMPTZ,
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		paused      BOOLEAN NOT NULL DEFAULT FALSE,
		paused_at   TIMESTAMPTZ,
		note        TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL,
		CHECK (active = (ended_at IS NULL)),
		CHECK (NOT paused OR (active AND paused_at IS NOT NULL))
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS ` + ActiveSessionIndex + ` ON sessions(owner_id) WHERE active`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_owner_project ON sessions(owner_id, project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_owner_started ON sessions(owner_id, started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_owner_ended ON sessions(owner_id, ended_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project_id)`,
}
