package participant

import (
	"context"

	domain "suivi/internal/domain/participant"
)

// Store persists Participant state.
type Store interface {
	GetByCEF(ctx context.Context, cef string) (domain.Participant, error)
	ListByYear(ctx context.Context, trainingYear string) ([]domain.Participant, error)
	List(ctx context.Context) ([]domain.Participant, error)
	Save(ctx context.Context, value domain.Participant) error
	ReplaceForYear(ctx context.Context, trainingYear string, roster []domain.Participant) error
	Count(ctx context.Context) (int, error)
}
