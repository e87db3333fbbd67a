package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"suivi/internal/domain/attendance"
	"suivi/internal/domain/calendar"
	"suivi/internal/domain/history"
	"suivi/internal/domain/participant"
)

// ParticipantStoreForCommit defines the store interface needed by CommitWeek.
type ParticipantStoreForCommit interface {
	ListByYear(ctx context.Context, trainingYear string) ([]participant.Participant, error)
}

// AbsenceStoreForCommit defines the absence store interface needed by CommitWeek.
type AbsenceStoreForCommit interface {
	LoadLedger(ctx context.Context) (attendance.Ledger, error)
}

// HistoryStoreForCommit defines the history store interface needed by CommitWeek.
type HistoryStoreForCommit interface {
	UpsertEntries(ctx context.Context, entries []history.Entry) error
}

// CommitWeekInput selects the week to aggregate and the group scope.
// Group may be a concrete group name or "all" for one entry per group.
type CommitWeekInput struct {
	TrainingYear string
	MonthValue   string // YYYY-MM
	WeekIndex    int    // zero-based within the month
	Group        string
}

// CommitWeekDeps holds dependencies for CommitWeek.
type CommitWeekDeps struct {
	ParticipantStore ParticipantStoreForCommit
	AbsenceStore     AbsenceStoreForCommit
	HistoryStore     HistoryStoreForCommit
	Now              func() time.Time
}

// CommitWeekResult reports what was written.
type CommitWeekResult struct {
	EntryIDs []string
}

// ExecuteCommitWeek aggregates the live absence ledger for one week into
// durable history entries, one per group in scope. Re-committing the same
// week and group overwrites the attendance snapshot of the existing entry;
// its identity and position in the history are preserved by the store.
// PRE: Input.TrainingYear is a valid training year
// POST: one entry per group in scope is upserted; an out-of-range week
// index yields an empty result without error
func ExecuteCommitWeek(ctx context.Context, input CommitWeekInput, deps CommitWeekDeps) (CommitWeekResult, error) {
	if err := calendar.ValidateTrainingYear(input.TrainingYear); err != nil {
		return CommitWeekResult{}, err
	}

	weeks := calendar.WeeksForMonth(input.MonthValue)
	if input.WeekIndex < 0 || input.WeekIndex >= len(weeks) {
		slog.Warn("commit_week_out_of_range", "month", input.MonthValue, "week_index", input.WeekIndex)
		return CommitWeekResult{}, nil
	}
	weekDates := weeks[input.WeekIndex]

	roster, err := deps.ParticipantStore.ListByYear(ctx, input.TrainingYear)
	if err != nil {
		return CommitWeekResult{}, fmt.Errorf("commit week: load roster: %w", err)
	}
	groups := history.GroupsInScope(roster, input.Group)
	if len(groups) == 0 {
		slog.Warn("commit_week_no_groups", "training_year", input.TrainingYear, "group", input.Group)
		return CommitWeekResult{}, nil
	}

	ledger, err := deps.AbsenceStore.LoadLedger(ctx)
	if err != nil {
		return CommitWeekResult{}, fmt.Errorf("commit week: load ledger: %w", err)
	}

	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}
	monthLabel := calendar.MonthLabel(input.MonthValue)
	weekLabel := calendar.WeekLabel(weekDates)

	entries := make([]history.Entry, 0, len(groups))
	for _, group := range groups {
		snapshot := history.SnapshotWeek(ledger, roster, weekDates, group)
		entries = append(entries, history.Entry{
			ID:           history.EntryID(input.TrainingYear, input.MonthValue, input.WeekIndex, group),
			Date:         now,
			TrainingYear: input.TrainingYear,
			Month:        monthLabel,
			WeekLabel:    weekLabel,
			Group:        group,
			Attendance:   snapshot,
			WeekDates:    weekDates,
		})
	}
	if err := deps.HistoryStore.UpsertEntries(ctx, entries); err != nil {
		return CommitWeekResult{}, fmt.Errorf("commit week: %w", err)
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	slog.Info("week_committed", "training_year", input.TrainingYear, "month", input.MonthValue, "week_index", input.WeekIndex, "entries", len(ids))
	return CommitWeekResult{EntryIDs: ids}, nil
}
