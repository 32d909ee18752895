package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	reviewTable = "review_records"

	colID          = "id"
	colKey         = "problem_key"
	colTier        = "tier"
	colCreatedAt   = "created_at"
	colLastShownAt = "last_shown_at"
	colTimesShown  = "times_shown"
	colTimesWrong  = "times_wrong"
)

var reviewColumns = []string{
	colID, colKey, colTier, colCreatedAt, colLastShownAt, colTimesShown, colTimesWrong,
}

// Timestamps are stored as Unix nanoseconds. A NULL last_shown_at sorts
// first under ASC, which is the review priority order.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS review_records (
		id            TEXT PRIMARY KEY,
		problem_key   TEXT NOT NULL UNIQUE,
		tier          INTEGER NOT NULL,
		created_at    INTEGER NOT NULL,
		last_shown_at INTEGER,
		times_shown   INTEGER NOT NULL DEFAULT 0 CHECK (times_shown >= 0),
		times_wrong   INTEGER NOT NULL DEFAULT 0 CHECK (times_wrong >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS review_records_tier ON review_records (tier)`,
	`CREATE INDEX IF NOT EXISTS review_records_priority ON review_records (tier, times_wrong DESC, last_shown_at)`,
}

// migrate creates the tables the store needs. Statements are idempotent.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
