package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"suivi/internal/domain/account"
	"suivi/internal/domain/calendar"
	"suivi/internal/domain/participant"
)

// TrainingYearStoreForSeed defines the training year store interface needed by seeding.
type TrainingYearStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Add(ctx context.Context, year string) error
}

// ParticipantStoreForSeed defines the participant store interface needed by seeding.
type ParticipantStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, entity participant.Participant) error
}

// SeedDemoDeps holds dependencies for the demo seeding flow.
type SeedDemoDeps struct {
	TrainingYearStore TrainingYearStoreForSeed
	ParticipantStore  ParticipantStoreForSeed
	AccountStore      AccountStoreForCreate
	ParticipantLookup ParticipantStoreForCreate
	Now               func() time.Time
}

// ExecuteSeedTrainingYears registers the default selectable years, current
// first, when none exist yet.
// POST: at least one training year is registered
func ExecuteSeedTrainingYears(ctx context.Context, deps SeedDemoDeps) error {
	n, err := deps.TrainingYearStore.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed training years: %w", err)
	}
	if n > 0 {
		return nil
	}
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}
	for _, year := range calendar.DefaultTrainingYears(now) {
		if err := deps.TrainingYearStore.Add(ctx, year); err != nil {
			return fmt.Errorf("seed training years: %w", err)
		}
	}
	slog.Info("training_years_seeded")
	return nil
}

// ExecuteSeedDemo fills an empty database with a small roster and one
// participant login so the application is explorable without an import.
// Intended for non-production environments only; the caller gates on that.
// POST: demo data exists, or the database already had participants
func ExecuteSeedDemo(ctx context.Context, deps SeedDemoDeps) error {
	n, err := deps.ParticipantStore.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed demo: %w", err)
	}
	if n > 0 {
		return nil
	}
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}
	year := calendar.CurrentTrainingYear(now)

	roster := []participant.Participant{
		{CEF: "10001", Nom: "Dupont", Prenom: "Jean", Groupe: "G1", TrainingYear: year, MHAnnuelleAffectee: 900, FraisInscription: 150, FraisFormation: 2400},
		{CEF: "10002", Nom: "Martin", Prenom: "Claire", Groupe: "G1", TrainingYear: year, MHAnnuelleAffectee: 900, FraisInscription: 150, FraisFormation: 2400},
		{CEF: "10003", Nom: "Bernard", Prenom: "Luc", Groupe: "G2", TrainingYear: year, MHAnnuelleAffectee: 600, FraisInscription: 150, FraisFormation: 1800},
	}
	for _, p := range roster {
		if err := deps.ParticipantStore.Save(ctx, p); err != nil {
			return fmt.Errorf("seed demo: %w", err)
		}
	}

	_, err = ExecuteCreateAccount(ctx, CreateAccountInput{
		Username:       "10001",
		Password:       account.GeneratePassword("Dupont", "10001"),
		Role:           account.RoleUser,
		ParticipantCEF: "10001",
	}, CreateAccountDeps{
		AccountStore:     deps.AccountStore,
		ParticipantStore: deps.ParticipantLookup,
		Now:              deps.Now,
	})
	if err != nil {
		return fmt.Errorf("seed demo: %w", err)
	}
	slog.Info("demo_seeded", "training_year", year, "participants", len(roster))
	return nil
}
