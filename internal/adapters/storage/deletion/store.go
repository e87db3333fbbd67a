package deletion

import "context"

// Store performs the cascading removal of a training year.
type Store interface {
	// PurgeTrainingYear removes, in one transaction, the year's participants,
	// their absence rows, financial records and linked accounts, the year's
	// history entries, and the year itself. Returns the removed CEFs.
	PurgeTrainingYear(ctx context.Context, year string) ([]string, error)
}
