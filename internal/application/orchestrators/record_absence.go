package orchestrators

import (
	"context"
	"log/slog"

	"suivi/internal/domain/attendance"
)

// AbsenceStoreForRecord defines the store interface needed by RecordAbsence.
type AbsenceStoreForRecord interface {
	Set(ctx context.Context, cef, date string, absent bool) error
}

// RecordAbsenceInput carries one ledger mutation: the single point of entry
// for changing a participant's absence flag on a date.
type RecordAbsenceInput struct {
	CEF    string
	Date   string // YYYY-MM-DD
	Absent bool
}

// RecordAbsenceDeps holds dependencies for RecordAbsence.
type RecordAbsenceDeps struct {
	AbsenceStore AbsenceStoreForRecord
}

// ExecuteRecordAbsence validates and persists an absence flag. The flag is
// stored explicitly for both true and false; downstream reads treat only a
// strictly true value as an absence.
// PRE: Input.Date is an ISO date
// POST: the ledger entry is persisted, or unchanged on validation error
func ExecuteRecordAbsence(ctx context.Context, input RecordAbsenceInput, deps RecordAbsenceDeps) error {
	if err := attendance.ValidateEntry(input.CEF, input.Date); err != nil {
		return err
	}
	if err := deps.AbsenceStore.Set(ctx, input.CEF, input.Date, input.Absent); err != nil {
		return err
	}
	slog.Info("absence_recorded", "cef", input.CEF, "date", input.Date, "absent", input.Absent)
	return nil
}
