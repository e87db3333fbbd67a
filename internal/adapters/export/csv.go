// Package export renders rosters and financial reports as CSV downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"suivi/internal/application/projections"
	"suivi/internal/domain/calendar"
	"suivi/internal/domain/participant"
)

// rosterHeader mirrors the import file shape, so an exported roster is
// importable as-is.
var rosterHeader = []string{
	"cef", "nom", "prenom", "groupe",
	"mhAnnuelleAffectee", "fraisInscription", "fraisFormation",
}

// WriteRosterCSV writes a training year's roster as a comma-separated file.
// POST: output starts with the import header row; one row per participant
func WriteRosterCSV(w io.Writer, roster []participant.Participant) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rosterHeader); err != nil {
		return err
	}
	for _, p := range roster {
		row := []string{
			p.CEF, p.Nom, p.Prenom, p.Groupe,
			formatAmount(p.MHAnnuelleAffectee),
			formatAmount(p.FraisInscription),
			formatAmount(p.FraisFormation),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFinancialReportCSV writes the financial report the way French
// spreadsheet software expects it: semicolon separated, decimal comma.
// PRE: report was computed for trainingYear
// POST: one column per month of the year plus the derived totals
func WriteFinancialReportCSV(w io.Writer, trainingYear string, report projections.GetFinancialReportResult) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	months := calendar.MonthsForTrainingYear(trainingYear)
	header := []string{"CEF", "Nom", "Prénom", "Groupe", "Frais d'inscription", "Statut inscription", "Inscription payée"}
	for _, m := range months {
		header = append(header, m.Label)
	}
	header = append(header, "Total mensuel", "Total payé", "Frais de formation", "Solde")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, line := range report.Lines {
		nom, prenom := splitName(line.FullName)
		row := []string{
			line.CEF, nom, prenom, line.Group,
			formatDecimalComma(line.RegistrationFee),
			line.InscriptionStatus,
			formatDecimalComma(line.InscriptionPaid),
		}
		for _, m := range months {
			row = append(row, formatDecimalComma(line.MonthlyPayments[m.Value]))
		}
		row = append(row,
			formatDecimalComma(line.TotalMonthly),
			formatDecimalComma(line.TotalPaid),
			formatDecimalComma(line.TuitionFee),
			formatDecimalComma(line.Balance),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	totals := make([]string, len(header))
	totals[0] = "Total"
	totals[len(header)-3] = formatDecimalComma(report.TotalPaid)
	totals[len(header)-1] = formatDecimalComma(report.TotalBalance)
	if err := cw.Write(totals); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDecimalComma(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.2f", v), ".", ",")
}

// splitName undoes FullName's "Nom Prenom" concatenation on the first space.
func splitName(full string) (string, string) {
	if i := strings.IndexByte(full, ' '); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}
