// package repositories provides persistence layer implementations for locally stored model types.
//
// Each repository implements models.Repository[T] for a specific entity type,
// handling CRUD operations, soft deletes, and sequence generation.
package repositories

import (
	"database/sql"
	"fmt"
)

// NextSequence atomically bumps and returns the counter in <table>_sequence.
//
// Sequence numbers give stored entities a stable human-readable order
// (session #3). They never appear in CLI output.
func NextSequence(db *sql.DB, table string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	counter := table + "_sequence"
	if _, err := tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", counter)); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var next int
	if err := tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", counter)).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return next, nil
}
