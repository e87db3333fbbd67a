package absence

import (
	"context"

	domain "suivi/internal/domain/attendance"
)

// Store persists the day-level absence ledger.
type Store interface {
	Set(ctx context.Context, cef, date string, absent bool) error
	LoadLedger(ctx context.Context) (domain.Ledger, error)
	LoadForCEF(ctx context.Context, cef string) (map[string]bool, error)
}
