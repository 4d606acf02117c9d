// Package store persists an audit trail of extraction results to
// SQLite, the way the teacher pipeline persists its word/source
// records, so a batch run can be inspected or resumed later.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS extractions (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	input_hash         TEXT NOT NULL,
	body               TEXT NOT NULL,
	confidence         REAL NOT NULL,
	success            INTEGER NOT NULL,
	inline_quote_count INTEGER NOT NULL,
	labels_json        TEXT NOT NULL,
	created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_extractions_input_hash ON extractions(input_hash);
`

// InitDB creates the extractions table if it does not already exist.
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// DBExecutor lets store functions accept either *sql.DB or *sql.Tx.
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}
