package projections

import (
	"context"
	"fmt"

	"suivi/internal/domain/attendance"
	"suivi/internal/domain/calendar"
	"suivi/internal/domain/participant"
)

// WeekSnapshotParticipantStore defines the participant store interface for the week grid.
type WeekSnapshotParticipantStore interface {
	ListByYear(ctx context.Context, trainingYear string) ([]participant.Participant, error)
}

// WeekSnapshotAbsenceStore defines the absence store interface for the week grid.
type WeekSnapshotAbsenceStore interface {
	LoadLedger(ctx context.Context) (attendance.Ledger, error)
}

// GetWeekSnapshotQuery selects one week of the live ledger.
type GetWeekSnapshotQuery struct {
	TrainingYear string
	MonthValue   string
	WeekIndex    int
	Group        string // "" or "all" for every group
}

// GetWeekSnapshotDeps holds dependencies for GetWeekSnapshot.
type GetWeekSnapshotDeps struct {
	ParticipantStore WeekSnapshotParticipantStore
	AbsenceStore     WeekSnapshotAbsenceStore
}

// WeekRow is one participant's line of the attendance grid.
type WeekRow struct {
	CEF          string
	FullName     string
	Group        string
	Absences     map[string]bool // date -> absent, only the week's dates
	AbsenceHours float64
}

// GetWeekSnapshotResult carries the attendance grid of one week.
type GetWeekSnapshotResult struct {
	WeekDates []string
	WeekLabel string
	Rows      []WeekRow
}

// QueryGetWeekSnapshot builds the live attendance grid of one week: the
// uncommitted ledger flags for every roster member in scope, with the
// week's session hours already summed per participant.
// PRE: query.MonthValue has the form "2006-01"
// POST: returns one row per participant in scope; an out-of-range week
// index yields an empty grid
func QueryGetWeekSnapshot(ctx context.Context, query GetWeekSnapshotQuery, deps GetWeekSnapshotDeps) (GetWeekSnapshotResult, error) {
	weeks := calendar.WeeksForMonth(query.MonthValue)
	if query.WeekIndex < 0 || query.WeekIndex >= len(weeks) {
		return GetWeekSnapshotResult{}, nil
	}
	weekDates := weeks[query.WeekIndex]

	roster, err := deps.ParticipantStore.ListByYear(ctx, query.TrainingYear)
	if err != nil {
		return GetWeekSnapshotResult{}, fmt.Errorf("week snapshot: %w", err)
	}
	if query.Group != "" && query.Group != "all" {
		roster = participant.FilterByGroup(roster, query.Group)
	}

	ledger, err := deps.AbsenceStore.LoadLedger(ctx)
	if err != nil {
		return GetWeekSnapshotResult{}, fmt.Errorf("week snapshot: %w", err)
	}

	rows := make([]WeekRow, 0, len(roster))
	for _, p := range roster {
		row := WeekRow{
			CEF:      p.CEF,
			FullName: p.FullName(),
			Group:    p.Groupe,
			Absences: make(map[string]bool, len(weekDates)),
		}
		for _, date := range weekDates {
			if ledger.IsAbsent(p.CEF, date) {
				row.Absences[date] = true
				row.AbsenceHours += attendance.HoursForDate(date)
			}
		}
		rows = append(rows, row)
	}

	return GetWeekSnapshotResult{
		WeekDates: weekDates,
		WeekLabel: calendar.WeekLabel(weekDates),
		Rows:      rows,
	}, nil
}
