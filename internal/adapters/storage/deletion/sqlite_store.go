package deletion

import (
	"context"
	"fmt"
	"strings"

	"suivi/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite. The whole cascade runs inside a
// single transaction so no intermediate state is ever observable.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new cascade deletion store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// PurgeTrainingYear removes a training year and every dependent record.
// PRE: year is non-empty
// POST: no collection retains a row referencing the year or its CEFs; on
// error the database is unchanged
func (s *SQLiteStore) PurgeTrainingYear(ctx context.Context, year string) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, "SELECT cef FROM participant WHERE training_year = ?", year)
	if err != nil {
		return nil, err
	}
	var cefs []string
	for rows.Next() {
		var cef string
		if err := rows.Scan(&cef); err != nil {
			rows.Close()
			return nil, err
		}
		cefs = append(cefs, cef)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx, "DELETE FROM participant WHERE training_year = ?", year); err != nil {
		return nil, fmt.Errorf("failed to delete participants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM history_entry WHERE training_year = ?", year); err != nil {
		return nil, fmt.Errorf("failed to delete history entries: %w", err)
	}
	if len(cefs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cefs)), ", ")
		args := make([]any, len(cefs))
		for i, cef := range cefs {
			args[i] = cef
		}
		for _, stmt := range []string{
			"DELETE FROM account WHERE participant_cef IN (" + placeholders + ")",
			"DELETE FROM absence WHERE cef IN (" + placeholders + ")",
			"DELETE FROM financial_record WHERE cef IN (" + placeholders + ")",
		} {
			if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
				return nil, fmt.Errorf("failed to cascade delete: %w", err)
			}
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM training_year WHERE year = ?", year); err != nil {
		return nil, fmt.Errorf("failed to delete training year: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cefs, nil
}
