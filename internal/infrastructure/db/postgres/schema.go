package postgres

import (
	"context"
	"fmt"
)

const createUsers = `
	CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		first_name TEXT NOT NULL CHECK (first_name <> ''),
		last_name  TEXT NOT NULL CHECK (last_name <> ''),
		email      TEXT NOT NULL,
		mobile     TEXT NOT NULL CHECK (mobile ~ '^[0-9]{10}$'),
		gender     TEXT NOT NULL,
		status     TEXT NOT NULL CHECK (status IN ('active', 'inactive')),
		location   TEXT NOT NULL CHECK (location <> ''),
		profile    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT users_email_key UNIQUE (email)
	);
	CREATE INDEX IF NOT EXISTS users_created_at_id_idx ON users (created_at DESC, id ASC);
`

// EnsureSchema creates the users table and its indexes when missing.
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, createUsers); err != nil {
		return fmt.Errorf("ensure users schema: %w", err)
	}
	return nil
}
