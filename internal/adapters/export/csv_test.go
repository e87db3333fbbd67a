package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"suivi/internal/application/projections"
	"suivi/internal/domain/participant"
)

func TestWriteRosterCSV(t *testing.T) {
	roster := []participant.Participant{
		{CEF: "10001", Nom: "Dupont", Prenom: "Jean", Groupe: "G1", MHAnnuelleAffectee: 420, FraisInscription: 150, FraisFormation: 2400.5},
	}

	var buf bytes.Buffer
	if err := WriteRosterCSV(&buf, roster); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}
	wantHeader := "cef,nom,prenom,groupe,mhAnnuelleAffectee,fraisInscription,fraisFormation"
	if got := strings.Join(records[0], ","); got != wantHeader {
		t.Errorf("header = %q, want %q", got, wantHeader)
	}
	wantRow := []string{"10001", "Dupont", "Jean", "G1", "420", "150", "2400.5"}
	for i, want := range wantRow {
		if records[1][i] != want {
			t.Errorf("row[%d] = %q, want %q", i, records[1][i], want)
		}
	}
}

func TestWriteFinancialReportCSV(t *testing.T) {
	report := projections.GetFinancialReportResult{
		Lines: []projections.FinancialLine{
			{
				CEF:               "10001",
				FullName:          "Dupont Jean",
				Group:             "G1",
				RegistrationFee:   150,
				TuitionFee:        2400,
				InscriptionStatus: "Payé",
				InscriptionPaid:   150,
				MonthlyPayments:   map[string]float64{"2024-09": 200},
				TotalMonthly:      200,
				TotalPaid:         350,
				Balance:           -2200,
			},
		},
		TotalPaid:    350,
		TotalBalance: -2200,
	}

	var buf bytes.Buffer
	if err := WriteFinancialReportCSV(&buf, "2024-2025", report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cr := csv.NewReader(&buf)
	cr.Comma = ';'
	records, err := cr.ReadAll()
	if err != nil {
		t.Fatalf("reading back failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + line + totals, got %d records", len(records))
	}

	header := records[0]
	// 7 leading columns, 11 months, 4 trailing totals.
	if len(header) != 22 {
		t.Fatalf("header has %d columns, want 22", len(header))
	}
	if header[7] != "Septembre 2024" || header[17] != "Juillet 2025" {
		t.Errorf("month columns wrong: first=%q last=%q", header[7], header[17])
	}
	if header[len(header)-1] != "Solde" {
		t.Errorf("last column = %q, want Solde", header[len(header)-1])
	}

	row := records[1]
	if row[1] != "Dupont" || row[2] != "Jean" {
		t.Errorf("name split wrong: nom=%q prenom=%q", row[1], row[2])
	}
	if row[5] != "Payé" {
		t.Errorf("status = %q, want Payé", row[5])
	}
	if row[7] != "200,00" {
		t.Errorf("september payment = %q, want 200,00", row[7])
	}
	if row[8] != "0,00" {
		t.Errorf("empty month = %q, want 0,00", row[8])
	}
	if row[len(row)-1] != "-2200,00" {
		t.Errorf("balance = %q, want -2200,00", row[len(row)-1])
	}

	totals := records[2]
	if totals[0] != "Total" {
		t.Errorf("totals label = %q", totals[0])
	}
	if totals[len(totals)-3] != "350,00" {
		t.Errorf("total paid = %q, want 350,00", totals[len(totals)-3])
	}
	if totals[len(totals)-1] != "-2200,00" {
		t.Errorf("total balance = %q, want -2200,00", totals[len(totals)-1])
	}
}
