package orchestrators

import (
	"context"
	"testing"
	"time"

	"suivi/internal/domain/attendance"
	"suivi/internal/domain/history"
	"suivi/internal/domain/participant"
)

type mockParticipantStoreForCommit struct {
	roster []participant.Participant
}

func (m *mockParticipantStoreForCommit) ListByYear(_ context.Context, _ string) ([]participant.Participant, error) {
	return m.roster, nil
}

type mockAbsenceStoreForCommit struct {
	ledger attendance.Ledger
}

func (m *mockAbsenceStoreForCommit) LoadLedger(_ context.Context) (attendance.Ledger, error) {
	return m.ledger, nil
}

type mockHistoryStoreForCommit struct {
	upserted [][]history.Entry
}

func (m *mockHistoryStoreForCommit) UpsertEntries(_ context.Context, entries []history.Entry) error {
	m.upserted = append(m.upserted, entries)
	return nil
}

func commitRoster() []participant.Participant {
	return []participant.Participant{
		{CEF: "C1", Nom: "Dupont", Prenom: "Jean", Groupe: "G1", TrainingYear: "2024-2025"},
		{CEF: "C2", Nom: "Martin", Prenom: "Claire", Groupe: "G2", TrainingYear: "2024-2025"},
	}
}

func commitDeps(roster []participant.Participant, ledger attendance.Ledger, hist *mockHistoryStoreForCommit) CommitWeekDeps {
	return CommitWeekDeps{
		ParticipantStore: &mockParticipantStoreForCommit{roster: roster},
		AbsenceStore:     &mockAbsenceStoreForCommit{ledger: ledger},
		HistoryStore:     hist,
		Now:              func() time.Time { return time.Date(2024, 9, 9, 10, 0, 0, 0, time.UTC) },
	}
}

func TestExecuteCommitWeek_AllGroups(t *testing.T) {
	ledger := make(attendance.Ledger)
	ledger.Set("C1", "2024-09-02", true)

	hist := &mockHistoryStoreForCommit{}
	result, err := ExecuteCommitWeek(context.Background(), CommitWeekInput{
		TrainingYear: "2024-2025",
		MonthValue:   "2024-09",
		WeekIndex:    0,
		Group:        "all",
	}, commitDeps(commitRoster(), ledger, hist))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.EntryIDs) != 2 {
		t.Fatalf("expected one entry per group, got %v", result.EntryIDs)
	}
	if result.EntryIDs[0] != "2024-2025-2024-09-0-G1" || result.EntryIDs[1] != "2024-2025-2024-09-0-G2" {
		t.Errorf("unexpected entry ids: %v", result.EntryIDs)
	}
	if len(hist.upserted) != 1 {
		t.Fatalf("expected a single atomic upsert, got %d", len(hist.upserted))
	}

	entries := hist.upserted[0]
	g1 := entries[0]
	if g1.Month != "Septembre 2024" {
		t.Errorf("unexpected month label: %q", g1.Month)
	}
	if g1.WeekLabel != "Semaine du 02/09 au 07/09/2024" {
		t.Errorf("unexpected week label: %q", g1.WeekLabel)
	}
	if len(g1.WeekDates) != 6 || g1.WeekDates[0] != "2024-09-02" {
		t.Errorf("unexpected week dates: %v", g1.WeekDates)
	}
	if !g1.Attendance["C1"]["2024-09-02"] {
		t.Error("expected C1 absence in the G1 snapshot")
	}

	// A group with no absences still gets an entry, with an empty snapshot.
	g2 := entries[1]
	if g2.Group != "G2" {
		t.Fatalf("unexpected group: %q", g2.Group)
	}
	if len(g2.Attendance) != 0 {
		t.Errorf("expected empty snapshot for clean group, got %v", g2.Attendance)
	}
}

func TestExecuteCommitWeek_OutOfRangeWeek(t *testing.T) {
	hist := &mockHistoryStoreForCommit{}
	result, err := ExecuteCommitWeek(context.Background(), CommitWeekInput{
		TrainingYear: "2024-2025",
		MonthValue:   "2024-09",
		WeekIndex:    9,
		Group:        "G1",
	}, commitDeps(commitRoster(), make(attendance.Ledger), hist))
	if err != nil {
		t.Fatalf("out-of-range week must not error: %v", err)
	}
	if len(result.EntryIDs) != 0 {
		t.Errorf("expected no entries, got %v", result.EntryIDs)
	}
	if len(hist.upserted) != 0 {
		t.Error("expected no upsert for out-of-range week")
	}
}

func TestExecuteCommitWeek_EmptyGroupScope(t *testing.T) {
	hist := &mockHistoryStoreForCommit{}
	result, err := ExecuteCommitWeek(context.Background(), CommitWeekInput{
		TrainingYear: "2024-2025",
		MonthValue:   "2024-09",
		WeekIndex:    0,
		Group:        "all",
	}, commitDeps(nil, make(attendance.Ledger), hist))
	if err != nil {
		t.Fatalf("empty roster must not error: %v", err)
	}
	if len(result.EntryIDs) != 0 || len(hist.upserted) != 0 {
		t.Error("expected silent no-op for empty group scope")
	}
}

func TestExecuteCommitWeek_InvalidYear(t *testing.T) {
	hist := &mockHistoryStoreForCommit{}
	_, err := ExecuteCommitWeek(context.Background(), CommitWeekInput{
		TrainingYear: "2024",
		MonthValue:   "2024-09",
		WeekIndex:    0,
		Group:        "G1",
	}, commitDeps(commitRoster(), make(attendance.Ledger), hist))
	if err == nil {
		t.Error("expected error for malformed training year")
	}
}

func TestExecuteCommitWeek_Recommit(t *testing.T) {
	// A second commit of the same week yields the same entry ids, so the
	// store's upsert replaces rather than duplicates.
	ledger := make(attendance.Ledger)
	hist := &mockHistoryStoreForCommit{}
	deps := commitDeps(commitRoster(), ledger, hist)
	input := CommitWeekInput{TrainingYear: "2024-2025", MonthValue: "2024-09", WeekIndex: 1, Group: "G1"}

	first, err := ExecuteCommitWeek(context.Background(), input, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ledger.Set("C1", "2024-09-09", true)
	second, err := ExecuteCommitWeek(context.Background(), input, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.EntryIDs[0] != second.EntryIDs[0] {
		t.Errorf("re-commit changed the entry id: %q vs %q", first.EntryIDs[0], second.EntryIDs[0])
	}
	if !hist.upserted[1][0].Attendance["C1"]["2024-09-09"] {
		t.Error("re-commit did not carry the new absence")
	}
}
