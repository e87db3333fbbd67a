package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"suivi/internal/domain/calendar"
)

// DeletionStoreForYear defines the purge interface needed by DeleteTrainingYear.
type DeletionStoreForYear interface {
	PurgeTrainingYear(ctx context.Context, year string) ([]string, error)
}

// DeleteTrainingYearInput names the year to remove.
type DeleteTrainingYearInput struct {
	Year string
}

// DeleteTrainingYearDeps holds dependencies for DeleteTrainingYear.
type DeleteTrainingYearDeps struct {
	DeletionStore DeletionStoreForYear
}

// DeleteTrainingYearResult reports the cascade's reach.
type DeleteTrainingYearResult struct {
	RemovedCEFs []string
}

// ExecuteDeleteTrainingYear removes a training year and every record
// attached to it: roster, absence flags, history entries, financial
// records and participant logins, in one transaction. Deleting a year
// nobody ever used succeeds with an empty result.
// POST: no trace of the year remains, or the database is unchanged
func ExecuteDeleteTrainingYear(ctx context.Context, input DeleteTrainingYearInput, deps DeleteTrainingYearDeps) (DeleteTrainingYearResult, error) {
	if err := calendar.ValidateTrainingYear(input.Year); err != nil {
		return DeleteTrainingYearResult{}, err
	}
	cefs, err := deps.DeletionStore.PurgeTrainingYear(ctx, input.Year)
	if err != nil {
		return DeleteTrainingYearResult{}, fmt.Errorf("delete training year: %w", err)
	}
	slog.Info("training_year_deleted", "year", input.Year, "participants_removed", len(cefs))
	return DeleteTrainingYearResult{RemovedCEFs: cefs}, nil
}
