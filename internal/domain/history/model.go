package history

import (
	"fmt"
	"time"

	"suivi/internal/domain/attendance"
	"suivi/internal/domain/participant"
)

// Entry is one committed weekly snapshot. Entries are created once and then
// only updated in place: a re-commit for the same composite key replaces the
// commit timestamp, attendance map and week dates but keeps the entry's
// identity, its list position, and the originally recorded labels.
type Entry struct {
	ID           string
	Date         time.Time // commit timestamp
	TrainingYear string
	Month        string // label at first commit, e.g. "Septembre 2024"
	WeekLabel    string // label at first commit
	Group        string
	Attendance   map[string]map[string]bool // CEF -> date -> true
	WeekDates    []string
}

// EntryID builds the deterministic composite identifier of a weekly snapshot.
// Distinct (trainingYear, monthValue, weekIndex, group) tuples yield distinct
// ids because the three leading parts are fixed-shape and "-" cannot appear
// inside them.
// PRE: group is non-empty
// POST: returns "{trainingYear}-{monthValue}-{weekIndex}-{group}"
func EntryID(trainingYear, monthValue string, weekIndex int, group string) string {
	return fmt.Sprintf("%s-%s-%d-%s", trainingYear, monthValue, weekIndex, group)
}

// SnapshotWeek computes the week-scoped absence sub-map for one group: for
// each roster member of the group, the dates of the week on which the ledger
// records a strictly true absence. Participants with no such date are omitted
// entirely.
// PRE: roster is already scoped to the relevant training year
// POST: the result maps only CEFs with at least one true absence in the week
// INVARIANT: ledger and roster are not mutated
func SnapshotWeek(ledger attendance.Ledger, roster []participant.Participant, weekDates []string, group string) map[string]map[string]bool {
	inWeek := make(map[string]bool, len(weekDates))
	for _, d := range weekDates {
		inWeek[d] = true
	}

	snapshot := make(map[string]map[string]bool)
	for _, p := range participant.FilterByGroup(roster, group) {
		days := ledger[p.CEF]
		if days == nil {
			continue
		}
		var weekAbsences map[string]bool
		for date, absent := range days {
			if absent && inWeek[date] {
				if weekAbsences == nil {
					weekAbsences = make(map[string]bool)
				}
				weekAbsences[date] = true
			}
		}
		if weekAbsences != nil {
			snapshot[p.CEF] = weekAbsences
		}
	}
	return snapshot
}

// GroupsInScope resolves the group set of a commit scope: the single selected
// group, or every distinct group of the roster when group is "all".
// POST: empty group identifiers are skipped silently
func GroupsInScope(roster []participant.Participant, group string) []string {
	if group == "all" {
		return participant.Groups(roster)
	}
	if group == "" {
		return nil
	}
	return []string{group}
}

// AbsentParticipants returns the CEFs recorded in the entry's snapshot.
// INVARIANT: Entry fields are not mutated
func (e *Entry) AbsentParticipants() int {
	return len(e.Attendance)
}

// TotalAbsenceHours sums the session hours of every absence in the entry.
// POST: relies on the stored week dates only through each absence date's weekday
func (e *Entry) TotalAbsenceHours() float64 {
	var total float64
	for _, days := range e.Attendance {
		for date, absent := range days {
			if absent {
				total += attendance.HoursForDate(date)
			}
		}
	}
	return total
}
