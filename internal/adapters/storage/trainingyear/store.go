package trainingyear

import "context"

// Store persists the list of known training years.
type Store interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, year string) error
	Exists(ctx context.Context, year string) (bool, error)
	Count(ctx context.Context) (int, error)
}
