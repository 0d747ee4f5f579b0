package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for the job archive.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id         TEXT PRIMARY KEY,
		algorithm  TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT 'NOT_SOLVING',
		score      TEXT NOT NULL DEFAULT '',
		problem    TEXT NOT NULL DEFAULT '',
		solution   TEXT NOT NULL DEFAULT '',
		error      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
