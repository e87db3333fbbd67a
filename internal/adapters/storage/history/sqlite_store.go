package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"suivi/internal/adapters/storage"
	domain "suivi/internal/domain/history"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
//
// List order reproduces the application's prepend semantics: entries are
// returned newest-created-first (descending rowid), and because an upsert
// never changes the rowid, a re-commit leaves the entry's position untouched.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new history store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Entry by its composite identifier.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, committed_at, training_year, month, week_label, groupe, attendance, week_dates
		 FROM history_entry WHERE id = ?`, id)
	entity, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Entry{}, fmt.Errorf("history entry not found: %w", err)
	}
	return entity, err
}

// UpsertEntries applies one commit in a single transaction. An existing id
// keeps its identity, position, and originally recorded month/week labels:
// only the commit timestamp, attendance map and week dates are replaced.
// PRE: every entry has a non-empty id
// POST: all entries are persisted or the store is unchanged
func (s *SQLiteStore) UpsertEntries(ctx context.Context, entries []domain.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		attendanceJSON, err := json.Marshal(e.Attendance)
		if err != nil {
			return fmt.Errorf("failed to encode attendance for %s: %w", e.ID, err)
		}
		weekDatesJSON, err := json.Marshal(e.WeekDates)
		if err != nil {
			return fmt.Errorf("failed to encode week dates for %s: %w", e.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO history_entry (id, committed_at, training_year, month, week_label, groupe, attendance, week_dates)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   committed_at=excluded.committed_at,
			   attendance=excluded.attendance,
			   week_dates=excluded.week_dates`,
			e.ID, e.Date.Format(dateLayout), e.TrainingYear, e.Month, e.WeekLabel, e.Group,
			string(attendanceJSON), string(weekDatesJSON))
		if err != nil {
			return fmt.Errorf("failed to upsert history entry %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// List returns every entry, newest-created-first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, committed_at, training_year, month, week_label, groupe, attendance, week_dates
		 FROM history_entry ORDER BY rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// ListByYear returns one training year's entries, newest-created-first.
// PRE: trainingYear is non-empty
func (s *SQLiteStore) ListByYear(ctx context.Context, trainingYear string) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, committed_at, training_year, month, week_label, groupe, attendance, week_dates
		 FROM history_entry WHERE training_year = ? ORDER BY rowid DESC`, trainingYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) ([]domain.Entry, error) {
	var out []domain.Entry
	for rows.Next() {
		entity, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

func scanEntry(scan func(...any) error) (domain.Entry, error) {
	var e domain.Entry
	var committedAt, attendanceJSON, weekDatesJSON string
	err := scan(&e.ID, &committedAt, &e.TrainingYear, &e.Month, &e.WeekLabel, &e.Group, &attendanceJSON, &weekDatesJSON)
	if err != nil {
		return domain.Entry{}, err
	}
	e.Date, _ = time.Parse(dateLayout, committedAt)
	if err := json.Unmarshal([]byte(attendanceJSON), &e.Attendance); err != nil {
		return domain.Entry{}, fmt.Errorf("corrupt attendance for %s: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(weekDatesJSON), &e.WeekDates); err != nil {
		return domain.Entry{}, fmt.Errorf("corrupt week dates for %s: %w", e.ID, err)
	}
	return e, nil
}
