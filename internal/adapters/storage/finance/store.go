package finance

import (
	"context"

	domain "suivi/internal/domain/finance"
)

// Store persists per-participant financial records.
type Store interface {
	// Get returns the participant's record, or the lazy default when none has
	// been created yet.
	Get(ctx context.Context, cef string) (domain.Record, error)
	Save(ctx context.Context, cef string, record domain.Record) error
	LoadAll(ctx context.Context) (map[string]domain.Record, error)
}
