package history

import (
	"context"

	domain "suivi/internal/domain/history"
)

// Store persists committed weekly snapshots.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	// UpsertEntries applies one commit atomically: every entry is inserted or
	// updated in a single transaction, or none is.
	UpsertEntries(ctx context.Context, entries []domain.Entry) error
	List(ctx context.Context) ([]domain.Entry, error)
	ListByYear(ctx context.Context, trainingYear string) ([]domain.Entry, error)
}
