package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLDB is the database interface used by all stores.
// *sql.DB satisfies this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		participant_cef TEXT,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS participant (
		cef TEXT PRIMARY KEY,
		nom TEXT NOT NULL,
		prenom TEXT NOT NULL,
		groupe TEXT NOT NULL,
		training_year TEXT NOT NULL,
		mh_annuelle_affectee REAL NOT NULL DEFAULT 0,
		frais_inscription REAL NOT NULL DEFAULT 0,
		frais_formation REAL NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_participant_year ON participant(training_year);

	CREATE TABLE IF NOT EXISTS absence (
		cef TEXT NOT NULL,
		date TEXT NOT NULL,
		absent INTEGER NOT NULL,
		PRIMARY KEY (cef, date)
	);

	CREATE TABLE IF NOT EXISTS history_entry (
		id TEXT PRIMARY KEY,
		committed_at TEXT NOT NULL,
		training_year TEXT NOT NULL,
		month TEXT NOT NULL,
		week_label TEXT NOT NULL,
		groupe TEXT NOT NULL,
		attendance TEXT NOT NULL,
		week_dates TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_year ON history_entry(training_year);

	CREATE TABLE IF NOT EXISTS financial_record (
		cef TEXT PRIMARY KEY,
		inscription_status TEXT NOT NULL,
		inscription_payment REAL NOT NULL DEFAULT 0,
		monthly_payments TEXT NOT NULL DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS training_year (
		year TEXT PRIMARY KEY
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
