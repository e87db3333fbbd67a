package account

import (
	"context"

	domain "suivi/internal/domain/account"
)

// Store persists Account state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
	GetByParticipantCEF(ctx context.Context, cef string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Account, error)
	ListLinkedCEFs(ctx context.Context) (map[string]bool, error)
	Count(ctx context.Context) (int, error)
}
