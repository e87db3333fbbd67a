package finance

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"suivi/internal/adapters/storage"
	domain "suivi/internal/domain/finance"
)

// SQLiteStore implements Store using SQLite. Monthly payments are stored as a
// JSON object so a removed month leaves no trace, matching the domain rule
// that absence of a key is the representation of "no payment".
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new financial record store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves a participant's financial record.
// PRE: cef is non-empty
// POST: Returns the stored record, or the default record when none exists
func (s *SQLiteStore) Get(ctx context.Context, cef string) (domain.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT inscription_status, inscription_payment, monthly_payments FROM financial_record WHERE cef = ?", cef)
	record, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return domain.NewRecord(), nil
	}
	return record, err
}

// Save persists a participant's financial record.
// PRE: cef is non-empty
// POST: Record is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, cef string, record domain.Record) error {
	payments, err := json.Marshal(record.MonthlyPayments)
	if err != nil {
		return fmt.Errorf("failed to encode monthly payments for %s: %w", cef, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO financial_record (cef, inscription_status, inscription_payment, monthly_payments)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(cef) DO UPDATE SET
		   inscription_status=excluded.inscription_status,
		   inscription_payment=excluded.inscription_payment,
		   monthly_payments=excluded.monthly_payments`,
		cef, record.InscriptionStatus, record.InscriptionPayment, string(payments))
	return err
}

// LoadAll returns every stored financial record keyed by CEF.
func (s *SQLiteStore) LoadAll(ctx context.Context) (map[string]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT cef, inscription_status, inscription_payment, monthly_payments FROM financial_record")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make(map[string]domain.Record)
	for rows.Next() {
		var cef, status, payments string
		var inscription float64
		if err := rows.Scan(&cef, &status, &inscription, &payments); err != nil {
			return nil, err
		}
		record := domain.Record{InscriptionStatus: status, InscriptionPayment: inscription}
		if err := json.Unmarshal([]byte(payments), &record.MonthlyPayments); err != nil {
			return nil, fmt.Errorf("corrupt monthly payments for %s: %w", cef, err)
		}
		records[cef] = record
	}
	return records, rows.Err()
}

func scanRecord(scan func(...any) error) (domain.Record, error) {
	var record domain.Record
	var payments string
	err := scan(&record.InscriptionStatus, &record.InscriptionPayment, &payments)
	if err != nil {
		return domain.Record{}, err
	}
	if err := json.Unmarshal([]byte(payments), &record.MonthlyPayments); err != nil {
		return domain.Record{}, fmt.Errorf("corrupt monthly payments: %w", err)
	}
	return record, nil
}
