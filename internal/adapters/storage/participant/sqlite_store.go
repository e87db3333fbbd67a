package participant

import (
	"context"
	"database/sql"
	"fmt"

	"suivi/internal/adapters/storage"
	domain "suivi/internal/domain/participant"
)

const columns = "cef, nom, prenom, groupe, training_year, mh_annuelle_affectee, frais_inscription, frais_formation"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new participant store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByCEF retrieves a Participant by its business key.
// PRE: cef is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByCEF(ctx context.Context, cef string) (domain.Participant, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM participant WHERE cef = ?", cef)
	entity, err := scanParticipant(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Participant{}, fmt.Errorf("%w: %s", domain.ErrNotFound, cef)
	}
	return entity, err
}

// ListByYear returns the roster of one training year, ordered by family name.
// PRE: trainingYear is non-empty
// POST: Returns matching participants, possibly none
func (s *SQLiteStore) ListByYear(ctx context.Context, trainingYear string) ([]domain.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+columns+" FROM participant WHERE training_year = ? ORDER BY nom, prenom", trainingYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// List returns every participant across all training years.
// POST: Returns all rows ordered by year descending then family name
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT " + columns + " FROM participant ORDER BY training_year DESC, nom, prenom")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// Save persists a Participant to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Participant) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO participant (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(cef) DO UPDATE SET
		   nom=excluded.nom,
		   prenom=excluded.prenom,
		   groupe=excluded.groupe,
		   training_year=excluded.training_year,
		   mh_annuelle_affectee=excluded.mh_annuelle_affectee,
		   frais_inscription=excluded.frais_inscription,
		   frais_formation=excluded.frais_formation`,
		entity.CEF, entity.Nom, entity.Prenom, entity.Groupe, entity.TrainingYear,
		entity.MHAnnuelleAffectee, entity.FraisInscription, entity.FraisFormation)
	return err
}

// ReplaceForYear swaps one training year's roster for the given set in a
// single transaction. Participants of other years are untouched.
// PRE: every roster entry has TrainingYear == trainingYear
// POST: the year's previous roster is gone, the new one is stored, or the
// database is unchanged on error
func (s *SQLiteStore) ReplaceForYear(ctx context.Context, trainingYear string, roster []domain.Participant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM participant WHERE training_year = ?", trainingYear); err != nil {
		return err
	}
	for _, p := range roster {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO participant ("+columns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			p.CEF, p.Nom, p.Prenom, p.Groupe, p.TrainingYear,
			p.MHAnnuelleAffectee, p.FraisInscription, p.FraisFormation)
		if err != nil {
			return fmt.Errorf("failed to insert participant %s: %w", p.CEF, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of stored participants.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM participant").Scan(&n)
	return n, err
}

func collect(rows *sql.Rows) ([]domain.Participant, error) {
	var out []domain.Participant
	for rows.Next() {
		entity, err := scanParticipant(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

func scanParticipant(scan func(...any) error) (domain.Participant, error) {
	var p domain.Participant
	err := scan(
		&p.CEF,
		&p.Nom,
		&p.Prenom,
		&p.Groupe,
		&p.TrainingYear,
		&p.MHAnnuelleAffectee,
		&p.FraisInscription,
		&p.FraisFormation,
	)
	return p, err
}
