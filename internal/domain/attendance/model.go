package attendance

import (
	"errors"
	"time"

	"suivi/internal/domain/calendar"
)

// SessionHours maps a weekday to the duration in hours of that day's
// training session. Days absent from the table carry no session.
var SessionHours = map[time.Weekday]float64{
	time.Monday:    2.5,
	time.Tuesday:   2.5,
	time.Wednesday: 2.5,
	time.Thursday:  2.5,
	time.Friday:    2.5,
	time.Saturday:  5,
}

// AbsenceThreshold is the tolerated absence rate; participants above it are
// flagged.
const AbsenceThreshold = 0.30

// Domain errors.
var (
	ErrEmptyCEF    = errors.New("participant CEF cannot be empty")
	ErrInvalidDate = errors.New("date must have the form YYYY-MM-DD")
)

// Ledger is the day-level absence map: participant CEF -> ISO date -> flag.
// Both true and false are stored explicitly; a date counts as an absence only
// when its value is strictly true.
type Ledger map[string]map[string]bool

// Set records the absence flag for a participant on a date.
// PRE: cef and date are non-empty, date is in calendar.DateLayout
// POST: the flag is stored; the participant's sub-map is created if missing
func (l Ledger) Set(cef, date string, absent bool) {
	if l[cef] == nil {
		l[cef] = make(map[string]bool)
	}
	l[cef][date] = absent
}

// IsAbsent reports whether the participant is recorded absent on the date.
// A missing entry or a stored false both mean present.
// INVARIANT: only a strictly true stored value counts as an absence
func (l Ledger) IsAbsent(cef, date string) bool {
	return l[cef][date]
}

// AbsenceDates returns the dates on which the participant is recorded absent,
// in no particular order.
// POST: only dates stored with a true flag are returned
func (l Ledger) AbsenceDates(cef string) []string {
	var dates []string
	for date, absent := range l[cef] {
		if absent {
			dates = append(dates, date)
		}
	}
	return dates
}

// AbsenceHours sums the session hours of the participant's absence dates.
// POST: dates with no session in SessionHours contribute 0
func (l Ledger) AbsenceHours(cef string) float64 {
	var total float64
	for date, absent := range l[cef] {
		if absent {
			total += HoursForDate(date)
		}
	}
	return total
}

// HoursForDate converts a date into session hours via its weekday.
// PRE: none
// POST: returns 0 for malformed dates and for weekdays with no session
func HoursForDate(date string) float64 {
	t, err := time.Parse(calendar.DateLayout, date)
	if err != nil {
		return 0
	}
	return SessionHours[t.Weekday()]
}

// ValidateEntry checks a single ledger mutation before it is applied.
// PRE: none
// POST: returns nil if cef is non-empty and date parses, error otherwise
func ValidateEntry(cef, date string) error {
	if cef == "" {
		return ErrEmptyCEF
	}
	if _, err := time.Parse(calendar.DateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
