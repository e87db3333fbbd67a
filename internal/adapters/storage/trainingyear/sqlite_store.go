package trainingyear

import (
	"context"

	"suivi/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new training year store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// List returns the known training years, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT year FROM training_year ORDER BY year DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []string
	for rows.Next() {
		var year string
		if err := rows.Scan(&year); err != nil {
			return nil, err
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

// Add records a training year. Adding an existing year is a no-op.
// PRE: year passes calendar.ValidateTrainingYear
func (s *SQLiteStore) Add(ctx context.Context, year string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO training_year (year) VALUES (?) ON CONFLICT(year) DO NOTHING", year)
	return err
}

// Exists reports whether the year is already known.
func (s *SQLiteStore) Exists(ctx context.Context, year string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM training_year WHERE year = ?", year).Scan(&n)
	return n > 0, err
}

// Count returns the number of known training years.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM training_year").Scan(&n)
	return n, err
}
