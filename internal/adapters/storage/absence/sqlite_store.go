package absence

import (
	"context"

	"suivi/internal/adapters/storage"
	domain "suivi/internal/domain/attendance"
)

// SQLiteStore implements Store using SQLite. Both true and false flags are
// stored explicitly; only a stored 1 counts as an absence.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new absence ledger store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Set records the absence flag for a participant on a date.
// PRE: cef and date pass attendance.ValidateEntry
// POST: the flag is persisted (insert or update)
func (s *SQLiteStore) Set(ctx context.Context, cef, date string, absent bool) error {
	flag := 0
	if absent {
		flag = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO absence (cef, date, absent) VALUES (?, ?, ?)
		 ON CONFLICT(cef, date) DO UPDATE SET absent=excluded.absent`,
		cef, date, flag)
	return err
}

// LoadLedger materializes the full ledger.
// POST: Returns a ledger containing every stored flag, true and false alike
func (s *SQLiteStore) LoadLedger(ctx context.Context) (domain.Ledger, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT cef, date, absent FROM absence")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := make(domain.Ledger)
	for rows.Next() {
		var cef, date string
		var flag int
		if err := rows.Scan(&cef, &date, &flag); err != nil {
			return nil, err
		}
		ledger.Set(cef, date, flag != 0)
	}
	return ledger, rows.Err()
}

// LoadForCEF returns one participant's date flags.
// PRE: cef is non-empty
// POST: Returns a possibly empty map of date -> flag
func (s *SQLiteStore) LoadForCEF(ctx context.Context, cef string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT date, absent FROM absence WHERE cef = ?", cef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make(map[string]bool)
	for rows.Next() {
		var date string
		var flag int
		if err := rows.Scan(&date, &flag); err != nil {
			return nil, err
		}
		days[date] = flag != 0
	}
	return days, rows.Err()
}
