package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"suivi/internal/domain/finance"
	"suivi/internal/domain/participant"
)

// ParticipantStoreForPayment defines the participant lookup needed by RecordPayment.
type ParticipantStoreForPayment interface {
	GetByCEF(ctx context.Context, cef string) (participant.Participant, error)
}

// FinanceStoreForPayment defines the finance store interface needed by RecordPayment.
type FinanceStoreForPayment interface {
	Get(ctx context.Context, cef string) (finance.Record, error)
	Save(ctx context.Context, cef string, record finance.Record) error
}

// RecordPaymentInput carries one financial mutation. Kind selects the
// monthly ledger or the one-off registration payment; MonthValue is
// required only for monthly payments.
type RecordPaymentInput struct {
	CEF        string
	Kind       string // finance.KindMonthly or finance.KindInscription
	MonthValue string // YYYY-MM, monthly only
	Amount     float64
}

// RecordPaymentDeps holds dependencies for RecordPayment.
type RecordPaymentDeps struct {
	ParticipantStore ParticipantStoreForPayment
	FinanceStore     FinanceStoreForPayment
}

// ExecuteRecordPayment applies a payment to a participant's financial
// record. A monthly amount of zero or less removes the month entirely.
// The registration status is recomputed from the participant's
// registration fee on every inscription payment. Payments for unknown
// participants are dropped without error.
// POST: the record is saved, or untouched for an unknown CEF
func ExecuteRecordPayment(ctx context.Context, input RecordPaymentInput, deps RecordPaymentDeps) error {
	p, err := deps.ParticipantStore.GetByCEF(ctx, input.CEF)
	if err != nil {
		if errors.Is(err, participant.ErrNotFound) {
			slog.Warn("payment_unknown_participant", "cef", input.CEF)
			return nil
		}
		return fmt.Errorf("record payment: %w", err)
	}

	record, err := deps.FinanceStore.Get(ctx, input.CEF)
	if err != nil {
		return fmt.Errorf("record payment: %w", err)
	}

	switch input.Kind {
	case finance.KindMonthly:
		record.ApplyMonthly(input.MonthValue, input.Amount)
	case finance.KindInscription:
		record.ApplyInscription(input.Amount, p.FraisInscription)
	default:
		return fmt.Errorf("record payment: %w: %q", finance.ErrUnknownKind, input.Kind)
	}

	if err := deps.FinanceStore.Save(ctx, input.CEF, record); err != nil {
		return fmt.Errorf("record payment: %w", err)
	}
	slog.Info("payment_recorded", "cef", input.CEF, "kind", input.Kind, "month", input.MonthValue, "amount", input.Amount)
	return nil
}
