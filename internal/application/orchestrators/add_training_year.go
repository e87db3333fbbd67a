package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"suivi/internal/domain/calendar"
)

// ErrYearExists reports an attempt to add an already known training year.
var ErrYearExists = errors.New("training year already exists")

// TrainingYearStoreForAdd defines the store interface needed by AddTrainingYear.
type TrainingYearStoreForAdd interface {
	Exists(ctx context.Context, year string) (bool, error)
	Add(ctx context.Context, year string) error
}

// AddTrainingYearInput names the year to register.
type AddTrainingYearInput struct {
	Year string // "YYYY-YYYY"
}

// AddTrainingYearDeps holds dependencies for AddTrainingYear.
type AddTrainingYearDeps struct {
	TrainingYearStore TrainingYearStoreForAdd
}

// ExecuteAddTrainingYear registers a new selectable training year.
// POST: the year exists exactly once, or ErrYearExists
func ExecuteAddTrainingYear(ctx context.Context, input AddTrainingYearInput, deps AddTrainingYearDeps) error {
	if err := calendar.ValidateTrainingYear(input.Year); err != nil {
		return err
	}
	exists, err := deps.TrainingYearStore.Exists(ctx, input.Year)
	if err != nil {
		return fmt.Errorf("add training year: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrYearExists, input.Year)
	}
	if err := deps.TrainingYearStore.Add(ctx, input.Year); err != nil {
		return fmt.Errorf("add training year: %w", err)
	}
	slog.Info("training_year_added", "year", input.Year)
	return nil
}
