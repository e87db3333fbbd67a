package projections

import (
	"context"
	"fmt"

	"suivi/internal/domain/history"
)

// HistoryStoreForList defines the history store interface for listing.
type HistoryStoreForList interface {
	List(ctx context.Context) ([]history.Entry, error)
	ListByYear(ctx context.Context, trainingYear string) ([]history.Entry, error)
}

// GetHistoryQuery filters the committed history.
type GetHistoryQuery struct {
	TrainingYear string // "" for every year
	Group        string // "" or "all" for every group
	ForCEF       string // restrict entry contents to one participant
}

// GetHistoryDeps holds dependencies for GetHistory.
type GetHistoryDeps struct {
	HistoryStore HistoryStoreForList
}

// HistoryItem is one committed week for display.
type HistoryItem struct {
	Entry        history.Entry
	AbsentCount  int
	AbsenceHours float64
}

// GetHistoryResult carries the filtered history, newest commit first.
type GetHistoryResult struct {
	Items []HistoryItem
}

// QueryGetHistory lists committed weekly snapshots, most recently created
// first; re-committed weeks keep their original position. With ForCEF set,
// each entry's attendance is narrowed to that participant and weeks where
// the participant has no absence are dropped, which is the view a trainee
// gets of their own record.
// POST: counted hours come from each entry's stored snapshot only
func QueryGetHistory(ctx context.Context, query GetHistoryQuery, deps GetHistoryDeps) (GetHistoryResult, error) {
	var entries []history.Entry
	var err error
	if query.TrainingYear == "" {
		entries, err = deps.HistoryStore.List(ctx)
	} else {
		entries, err = deps.HistoryStore.ListByYear(ctx, query.TrainingYear)
	}
	if err != nil {
		return GetHistoryResult{}, fmt.Errorf("history: %w", err)
	}

	result := GetHistoryResult{}
	for _, e := range entries {
		if query.Group != "" && query.Group != "all" && e.Group != query.Group {
			continue
		}
		if query.ForCEF != "" {
			dates, ok := e.Attendance[query.ForCEF]
			if !ok {
				continue
			}
			e.Attendance = map[string]map[string]bool{query.ForCEF: dates}
		}
		result.Items = append(result.Items, HistoryItem{
			Entry:        e,
			AbsentCount:  e.AbsentParticipants(),
			AbsenceHours: e.TotalAbsenceHours(),
		})
	}
	return result, nil
}
