package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies every schema statement. Statements are idempotent, so it
// is safe to run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS narrative_cache (
		context_key   TEXT PRIMARY KEY,
		headline      TEXT NOT NULL DEFAULT '',
		markdown      TEXT NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		generated_at  TEXT NOT NULL,
		last_used_at  TEXT NOT NULL,
		hits          INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_narrative_cache_last_used ON narrative_cache(last_used_at)`,
}
