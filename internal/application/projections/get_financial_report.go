package projections

import (
	"context"
	"fmt"

	"suivi/internal/domain/finance"
	"suivi/internal/domain/participant"
)

// FinancialReportParticipantStore defines the participant store interface for the report.
type FinancialReportParticipantStore interface {
	ListByYear(ctx context.Context, trainingYear string) ([]participant.Participant, error)
}

// FinancialReportFinanceStore defines the finance store interface for the report.
type FinancialReportFinanceStore interface {
	LoadAll(ctx context.Context) (map[string]finance.Record, error)
}

// GetFinancialReportQuery selects the year and optional group to report on.
type GetFinancialReportQuery struct {
	TrainingYear string
	Group        string // "" or "all" for every group
}

// GetFinancialReportDeps holds dependencies for GetFinancialReport.
type GetFinancialReportDeps struct {
	ParticipantStore FinancialReportParticipantStore
	FinanceStore     FinancialReportFinanceStore
}

// FinancialLine is one participant's row of the financial report. Totals and
// balance are derived here and never stored.
type FinancialLine struct {
	CEF               string
	FullName          string
	Group             string
	RegistrationFee   float64
	TuitionFee        float64
	InscriptionStatus string
	InscriptionPaid   float64
	MonthlyPayments   map[string]float64
	TotalMonthly      float64
	TotalPaid         float64
	Balance           float64
}

// GetFinancialReportResult carries the financial report.
type GetFinancialReportResult struct {
	Lines        []FinancialLine
	TotalPaid    float64
	TotalBalance float64
}

// QueryGetFinancialReport joins the roster with the stored financial
// records. Participants without a record get the lazy default: pending
// status, nothing paid, a balance of minus the tuition fee.
// POST: one line per roster member in scope, roster order preserved
func QueryGetFinancialReport(ctx context.Context, query GetFinancialReportQuery, deps GetFinancialReportDeps) (GetFinancialReportResult, error) {
	roster, err := deps.ParticipantStore.ListByYear(ctx, query.TrainingYear)
	if err != nil {
		return GetFinancialReportResult{}, fmt.Errorf("financial report: %w", err)
	}
	if query.Group != "" && query.Group != "all" {
		roster = participant.FilterByGroup(roster, query.Group)
	}

	records, err := deps.FinanceStore.LoadAll(ctx)
	if err != nil {
		return GetFinancialReportResult{}, fmt.Errorf("financial report: %w", err)
	}

	result := GetFinancialReportResult{}
	for _, p := range roster {
		record, ok := records[p.CEF]
		if !ok {
			record = finance.NewRecord()
		}
		line := FinancialLine{
			CEF:               p.CEF,
			FullName:          p.FullName(),
			Group:             p.Groupe,
			RegistrationFee:   p.FraisInscription,
			TuitionFee:        p.FraisFormation,
			InscriptionStatus: record.InscriptionStatus,
			InscriptionPaid:   record.InscriptionPayment,
			MonthlyPayments:   record.MonthlyPayments,
			TotalMonthly:      record.TotalMonthly(),
			TotalPaid:         record.TotalPaid(),
			Balance:           record.Balance(p.FraisFormation),
		}
		result.TotalPaid += line.TotalPaid
		result.TotalBalance += line.Balance
		result.Lines = append(result.Lines, line)
	}
	return result, nil
}
