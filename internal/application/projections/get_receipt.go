package projections

import (
	"context"
	"fmt"
	"sort"
	"time"

	"suivi/internal/domain/attendance"
	"suivi/internal/domain/calendar"
	"suivi/internal/domain/participant"
)

// ReceiptParticipantStore defines the participant lookup for receipts.
type ReceiptParticipantStore interface {
	GetByCEF(ctx context.Context, cef string) (participant.Participant, error)
}

// ReceiptAbsenceStore defines the absence store interface for receipts.
type ReceiptAbsenceStore interface {
	LoadForCEF(ctx context.Context, cef string) (map[string]bool, error)
}

// GetReceiptQuery selects one participant and an inclusive date range.
type GetReceiptQuery struct {
	CEF      string
	FromDate string // YYYY-MM-DD
	ToDate   string // YYYY-MM-DD
}

// GetReceiptDeps holds dependencies for GetReceipt.
type GetReceiptDeps struct {
	ParticipantStore ReceiptParticipantStore
	AbsenceStore     ReceiptAbsenceStore
}

// ReceiptLine is one absence on the receipt.
type ReceiptLine struct {
	Date  string
	Hours float64
}

// GetReceiptResult carries one participant's absence receipt.
type GetReceiptResult struct {
	Participant participant.Participant
	FromDate    string
	ToDate      string
	Lines       []ReceiptLine
	TotalHours  float64
}

// QueryGetReceipt builds the printable absence receipt for one participant
// over a date range: every recorded absence in the range with its session
// hours, chronologically, plus the total.
// PRE: FromDate and ToDate are ISO dates, FromDate <= ToDate
// POST: lines are sorted by date ascending
func QueryGetReceipt(ctx context.Context, query GetReceiptQuery, deps GetReceiptDeps) (GetReceiptResult, error) {
	from, err := time.Parse(calendar.DateLayout, query.FromDate)
	if err != nil {
		return GetReceiptResult{}, attendance.ErrInvalidDate
	}
	to, err := time.Parse(calendar.DateLayout, query.ToDate)
	if err != nil {
		return GetReceiptResult{}, attendance.ErrInvalidDate
	}

	p, err := deps.ParticipantStore.GetByCEF(ctx, query.CEF)
	if err != nil {
		return GetReceiptResult{}, fmt.Errorf("receipt: %w", err)
	}
	days, err := deps.AbsenceStore.LoadForCEF(ctx, query.CEF)
	if err != nil {
		return GetReceiptResult{}, fmt.Errorf("receipt: %w", err)
	}

	result := GetReceiptResult{
		Participant: p,
		FromDate:    query.FromDate,
		ToDate:      query.ToDate,
	}
	for date, absent := range days {
		if !absent {
			continue
		}
		d, err := time.Parse(calendar.DateLayout, date)
		if err != nil || d.Before(from) || d.After(to) {
			continue
		}
		hours := attendance.HoursForDate(date)
		result.Lines = append(result.Lines, ReceiptLine{Date: date, Hours: hours})
		result.TotalHours += hours
	}
	sort.Slice(result.Lines, func(i, j int) bool {
		return result.Lines[i].Date < result.Lines[j].Date
	})
	return result, nil
}
