package projections

import (
	"context"
	"testing"

	"suivi/internal/domain/history"
)

type mockHistoryStoreForList struct {
	entries   []history.Entry
	listCalls int
	yearCalls int
}

func (m *mockHistoryStoreForList) List(_ context.Context) ([]history.Entry, error) {
	m.listCalls++
	return m.entries, nil
}

func (m *mockHistoryStoreForList) ListByYear(_ context.Context, _ string) ([]history.Entry, error) {
	m.yearCalls++
	return m.entries, nil
}

func historyFixture() []history.Entry {
	return []history.Entry{
		{
			ID:           "2024-2025-2024-09-1-G1",
			TrainingYear: "2024-2025",
			Group:        "G1",
			Attendance: map[string]map[string]bool{
				"C1": {"2024-09-09": true, "2024-09-14": true},
				"C2": {"2024-09-10": true},
			},
		},
		{
			ID:           "2024-2025-2024-09-1-G2",
			TrainingYear: "2024-2025",
			Group:        "G2",
			Attendance: map[string]map[string]bool{
				"C3": {"2024-09-09": true},
			},
		},
		{
			ID:           "2024-2025-2024-10-0-G1",
			TrainingYear: "2024-2025",
			Group:        "G1",
			Attendance:   map[string]map[string]bool{},
		},
	}
}

func TestQueryGetHistory(t *testing.T) {
	store := &mockHistoryStoreForList{entries: historyFixture()}
	result, err := QueryGetHistory(context.Background(), GetHistoryQuery{
		TrainingYear: "2024-2025",
	}, GetHistoryDeps{HistoryStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.yearCalls != 1 || store.listCalls != 0 {
		t.Errorf("expected a year-scoped listing, got list=%d year=%d", store.listCalls, store.yearCalls)
	}
	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result.Items))
	}
	first := result.Items[0]
	if first.AbsentCount != 2 {
		t.Errorf("AbsentCount = %d, want 2", first.AbsentCount)
	}
	// Mon 2.5 + Sat 5 + Tue 2.5
	if first.AbsenceHours != 10 {
		t.Errorf("AbsenceHours = %v, want 10", first.AbsenceHours)
	}
}

func TestQueryGetHistory_AllYears(t *testing.T) {
	store := &mockHistoryStoreForList{entries: historyFixture()}
	_, err := QueryGetHistory(context.Background(), GetHistoryQuery{}, GetHistoryDeps{HistoryStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.listCalls != 1 || store.yearCalls != 0 {
		t.Errorf("expected the unscoped listing, got list=%d year=%d", store.listCalls, store.yearCalls)
	}
}

func TestQueryGetHistory_GroupFilter(t *testing.T) {
	store := &mockHistoryStoreForList{entries: historyFixture()}
	result, err := QueryGetHistory(context.Background(), GetHistoryQuery{
		TrainingYear: "2024-2025",
		Group:        "G2",
	}, GetHistoryDeps{HistoryStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].Entry.Group != "G2" {
		t.Errorf("group filter failed: %+v", result.Items)
	}
}

func TestQueryGetHistory_ForCEF(t *testing.T) {
	store := &mockHistoryStoreForList{entries: historyFixture()}
	result, err := QueryGetHistory(context.Background(), GetHistoryQuery{
		TrainingYear: "2024-2025",
		ForCEF:       "C2",
	}, GetHistoryDeps{HistoryStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only the first week involves C2; the G2 week and the empty
	// October week are dropped from the trainee view.
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	item := result.Items[0]
	if len(item.Entry.Attendance) != 1 {
		t.Errorf("attendance not narrowed: %+v", item.Entry.Attendance)
	}
	if _, ok := item.Entry.Attendance["C2"]; !ok {
		t.Errorf("expected only C2 attendance, got %+v", item.Entry.Attendance)
	}
	if item.AbsentCount != 1 || item.AbsenceHours != 2.5 {
		t.Errorf("narrowed totals wrong: count=%d hours=%v", item.AbsentCount, item.AbsenceHours)
	}
}
