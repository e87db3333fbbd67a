package projections

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"suivi/internal/domain/attendance"
	"suivi/internal/domain/calendar"
	"suivi/internal/domain/participant"
)

// StatisticsParticipantStore defines the participant store interface for statistics.
type StatisticsParticipantStore interface {
	ListByYear(ctx context.Context, trainingYear string) ([]participant.Participant, error)
}

// StatisticsAbsenceStore defines the absence store interface for statistics.
type StatisticsAbsenceStore interface {
	LoadLedger(ctx context.Context) (attendance.Ledger, error)
}

// GetStatisticsQuery selects the year and optional group to analyse.
type GetStatisticsQuery struct {
	TrainingYear string
	Group        string // "" or "all" for every group
}

// GetStatisticsDeps holds dependencies for GetStatistics.
type GetStatisticsDeps struct {
	ParticipantStore StatisticsParticipantStore
	AbsenceStore     StatisticsAbsenceStore
}

// ParticipantStats is the per-participant absence picture, computed from the
// live ledger.
type ParticipantStats struct {
	CEF            string
	FullName       string
	Group          string
	AllottedHours  float64
	AbsenceHours   float64
	AbsenceDays    int
	AbsenceRate    float64 // hours / allotted, 0 when allotted is 0
	AboveThreshold bool
	MonthlyHours   map[string]float64 // month value -> absence hours
}

// MonthTotal pairs a month with its group-wide absence hours.
type MonthTotal struct {
	Month calendar.Month
	Hours float64
}

// GetStatisticsResult carries the statistics dashboard.
type GetStatisticsResult struct {
	Participants   []ParticipantStats // sorted by absence rate, worst first
	Months         []MonthTotal       // all 11 months in training-year order
	TopMonths      []MonthTotal       // up to 3, by hours descending
	PlannedHours   float64            // sum of allotted hours
	TotalHours     float64            // sum of absence hours
	OverallRate    float64            // TotalHours / PlannedHours, 0 when no hours planned
	AboveThreshold int
}

// QueryGetStatistics aggregates the absence ledger into the statistics of one
// training year. Every strictly-true ledger flag counts the moment it is
// recorded, committed or not; dates outside the year's eleven months are
// ignored. A participant with zero allotted hours has a rate of zero, never a
// division error.
// POST: Months always holds the year's eleven months, hours possibly zero
func QueryGetStatistics(ctx context.Context, query GetStatisticsQuery, deps GetStatisticsDeps) (GetStatisticsResult, error) {
	roster, err := deps.ParticipantStore.ListByYear(ctx, query.TrainingYear)
	if err != nil {
		return GetStatisticsResult{}, fmt.Errorf("statistics: %w", err)
	}
	if query.Group != "" && query.Group != "all" {
		roster = participant.FilterByGroup(roster, query.Group)
	}

	ledger, err := deps.AbsenceStore.LoadLedger(ctx)
	if err != nil {
		return GetStatisticsResult{}, fmt.Errorf("statistics: %w", err)
	}

	months := calendar.MonthsForTrainingYear(query.TrainingYear)
	yearMonths := make(map[string]bool, len(months))
	for _, m := range months {
		yearMonths[m.Value] = true
	}

	monthHours := make(map[string]float64, len(months))

	result := GetStatisticsResult{}
	for _, p := range roster {
		stats := ParticipantStats{
			CEF:           p.CEF,
			FullName:      p.FullName(),
			Group:         p.Groupe,
			AllottedHours: p.MHAnnuelleAffectee,
			MonthlyHours:  map[string]float64{},
		}
		for date, absent := range ledger[p.CEF] {
			if !absent || !yearMonths[monthValueOf(date)] {
				continue
			}
			h := attendance.HoursForDate(date)
			stats.MonthlyHours[monthValueOf(date)] += h
			stats.AbsenceHours += h
			stats.AbsenceDays++
			monthHours[monthValueOf(date)] += h
		}
		if stats.AllottedHours > 0 {
			stats.AbsenceRate = stats.AbsenceHours / stats.AllottedHours
		}
		stats.AboveThreshold = stats.AbsenceRate > attendance.AbsenceThreshold
		if stats.AboveThreshold {
			result.AboveThreshold++
		}
		result.TotalHours += stats.AbsenceHours
		result.PlannedHours += stats.AllottedHours
		result.Participants = append(result.Participants, stats)
	}
	if result.PlannedHours > 0 {
		result.OverallRate = result.TotalHours / result.PlannedHours
	}
	sort.SliceStable(result.Participants, func(i, j int) bool {
		return result.Participants[i].AbsenceRate > result.Participants[j].AbsenceRate
	})

	for _, m := range months {
		result.Months = append(result.Months, MonthTotal{Month: m, Hours: monthHours[m.Value]})
	}
	result.TopMonths = topMonths(result.Months, 3)
	return result, nil
}

// monthValueOf truncates an ISO date to its month value, "2024-09-16" -> "2024-09".
func monthValueOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// topMonths returns the n months with the most hours, busiest first.
// Months with zero hours never make the cut.
func topMonths(months []MonthTotal, n int) []MonthTotal {
	sorted := make([]MonthTotal, 0, len(months))
	for _, m := range months {
		if m.Hours > 0 {
			sorted = append(sorted, m)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Hours != sorted[j].Hours {
			return sorted[i].Hours > sorted[j].Hours
		}
		return strings.Compare(sorted[i].Month.Value, sorted[j].Month.Value) < 0
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
