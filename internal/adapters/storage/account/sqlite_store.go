package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"suivi/internal/adapters/storage"
	domain "suivi/internal/domain/account"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

const columns = "id, username, password_hash, role, participant_cef, created_at, failed_logins, locked_until"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM account WHERE id = ?", id)
	return s.scanOne(row)
}

// GetByUsername retrieves an Account by username.
// PRE: username is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM account WHERE username = ?", username)
	return s.scanOne(row)
}

// GetByParticipantCEF retrieves the account linked to a participant.
// PRE: cef is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByParticipantCEF(ctx context.Context, cef string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM account WHERE participant_cef = ?", cef)
	return s.scanOne(row)
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	var cef any
	if entity.ParticipantCEF != "" {
		cef = entity.ParticipantCEF
	}
	lockedUntil := ""
	if !entity.LockedUntil.IsZero() {
		lockedUntil = entity.LockedUntil.Format(dateLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   username=excluded.username,
		   password_hash=excluded.password_hash,
		   role=excluded.role,
		   participant_cef=excluded.participant_cef,
		   failed_logins=excluded.failed_logins,
		   locked_until=excluded.locked_until`,
		entity.ID, entity.Username, entity.PasswordHash, entity.Role, cef,
		entity.CreatedAt.Format(dateLayout), entity.FailedLogins, lockedUntil)
	return err
}

// Delete removes an Account by ID.
// PRE: id is non-empty
// POST: the account row is gone; deleting a missing id is not an error
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM account WHERE id = ?", id)
	return err
}

// List returns every account ordered by creation time, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+columns+" FROM account ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		entity, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

// ListLinkedCEFs returns the set of participant CEFs that already have an
// account.
func (s *SQLiteStore) ListLinkedCEFs(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_cef FROM account WHERE participant_cef IS NOT NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cefs := make(map[string]bool)
	for rows.Next() {
		var cef string
		if err := rows.Scan(&cef); err != nil {
			return nil, err
		}
		cefs[cef] = true
	}
	return cefs, rows.Err()
}

// Count returns the number of stored accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&n)
	return n, err
}

func (s *SQLiteStore) scanOne(row *sql.Row) (domain.Account, error) {
	entity, err := scanAccount(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	return entity, err
}

func scanAccount(scan func(...any) error) (domain.Account, error) {
	var a domain.Account
	var cef, lockedUntil sql.NullString
	var createdAt string
	err := scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &cef, &createdAt, &a.FailedLogins, &lockedUntil)
	if err != nil {
		return domain.Account{}, err
	}
	if cef.Valid {
		a.ParticipantCEF = cef.String
	}
	a.CreatedAt, _ = time.Parse(dateLayout, createdAt)
	if lockedUntil.Valid && lockedUntil.String != "" {
		a.LockedUntil, _ = time.Parse(dateLayout, lockedUntil.String)
	}
	return a, nil
}
