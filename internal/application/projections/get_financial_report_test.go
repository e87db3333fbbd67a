package projections

import (
	"context"
	"testing"

	"suivi/internal/domain/finance"
	"suivi/internal/domain/participant"
)

type mockFinanceStoreForReport struct {
	records map[string]finance.Record
}

func (m *mockFinanceStoreForReport) LoadAll(_ context.Context) (map[string]finance.Record, error) {
	return m.records, nil
}

func TestQueryGetFinancialReport(t *testing.T) {
	roster := []participant.Participant{
		{CEF: "C1", Nom: "Dupont", Groupe: "G1", TrainingYear: "2024-2025", FraisInscription: 150, FraisFormation: 2400},
		{CEF: "C2", Nom: "Martin", Groupe: "G1", TrainingYear: "2024-2025", FraisInscription: 150, FraisFormation: 1800},
	}
	paid := finance.NewRecord()
	paid.ApplyInscription(150, 150)
	paid.ApplyMonthly("2024-09", 200)
	paid.ApplyMonthly("2024-10", 200)

	result, err := QueryGetFinancialReport(context.Background(), GetFinancialReportQuery{
		TrainingYear: "2024-2025",
	}, GetFinancialReportDeps{
		ParticipantStore: &mockStatisticsParticipantStore{roster: roster},
		FinanceStore:     &mockFinanceStoreForReport{records: map[string]finance.Record{"C1": paid}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result.Lines))
	}

	c1 := result.Lines[0]
	if c1.InscriptionStatus != finance.StatusPaid {
		t.Errorf("expected paid inscription, got %q", c1.InscriptionStatus)
	}
	if c1.TotalMonthly != 400 || c1.TotalPaid != 550 {
		t.Errorf("unexpected totals: %+v", c1)
	}
	if c1.Balance != 400-2400 {
		t.Errorf("Balance = %v, want -2000", c1.Balance)
	}

	// A participant without a record gets the lazy default.
	c2 := result.Lines[1]
	if c2.InscriptionStatus != finance.StatusPending {
		t.Errorf("expected pending default, got %q", c2.InscriptionStatus)
	}
	if c2.TotalPaid != 0 || c2.Balance != -1800 {
		t.Errorf("unexpected default line: %+v", c2)
	}

	if result.TotalPaid != 550 {
		t.Errorf("grand total paid = %v, want 550", result.TotalPaid)
	}
	if result.TotalBalance != -2000-1800 {
		t.Errorf("grand total balance = %v, want -3800", result.TotalBalance)
	}
}

func TestQueryGetFinancialReport_GroupFilter(t *testing.T) {
	roster := []participant.Participant{
		{CEF: "C1", Nom: "Dupont", Groupe: "G1", TrainingYear: "2024-2025"},
		{CEF: "C2", Nom: "Martin", Groupe: "G2", TrainingYear: "2024-2025"},
	}
	result, err := QueryGetFinancialReport(context.Background(), GetFinancialReportQuery{
		TrainingYear: "2024-2025",
		Group:        "G2",
	}, GetFinancialReportDeps{
		ParticipantStore: &mockStatisticsParticipantStore{roster: roster},
		FinanceStore:     &mockFinanceStoreForReport{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Lines) != 1 || result.Lines[0].CEF != "C2" {
		t.Errorf("group filter failed: %+v", result.Lines)
	}
}
