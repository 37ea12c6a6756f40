// Package migrations creates the Postgres schema shared by the catalog and
// auth services. Statements are idempotent and applied in order on startup.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS classifications (
		id          BIGSERIAL PRIMARY KEY,
		code        TEXT NOT NULL UNIQUE,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		note1       TEXT,
		note2       TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS classifications_code_prefix_idx
		ON classifications (code text_pattern_ops)`,
	`CREATE TABLE IF NOT EXISTS aux_tables (
		id          BIGSERIAL PRIMARY KEY,
		table_no    TEXT NOT NULL UNIQUE,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS aux_table_entries (
		id          BIGSERIAL PRIMARY KEY,
		table_no    TEXT NOT NULL REFERENCES aux_tables (table_no) ON DELETE CASCADE,
		g1          TEXT NOT NULL DEFAULT '',
		g2          TEXT NOT NULL DEFAULT '',
		g3          TEXT NOT NULL DEFAULT '',
		g4          TEXT NOT NULL DEFAULT '',
		g5          TEXT NOT NULL DEFAULT '',
		g6          TEXT NOT NULL DEFAULT '',
		g7          TEXT NOT NULL DEFAULT '',
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		UNIQUE (table_no, g1, g2, g3, g4, g5, g6, g7)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Apply executes every schema statement in order.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
