package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO date format used everywhere absences are keyed.
const DateLayout = "2006-01-02"

// MonthLayout is the format of a month value, e.g. "2024-09".
const MonthLayout = "2006-01"

// Domain errors.
var (
	ErrInvalidTrainingYear = errors.New("training year must have the form \"YYYY-YYYY\" with consecutive years")
)

// Month is one month of a training year.
type Month struct {
	Value string // "2024-09"
	Label string // "Septembre 2024"
}

var frenchMonths = [...]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

// CurrentTrainingYear returns the training year containing now.
// A training year runs from September to August, e.g. "2024-2025".
// PRE: none
// POST: returns a valid training-year string
func CurrentTrainingYear(now time.Time) string {
	y := now.Year()
	if now.Month() >= time.September {
		return fmt.Sprintf("%d-%d", y, y+1)
	}
	return fmt.Sprintf("%d-%d", y-1, y)
}

// DefaultTrainingYears returns the five most recent training years,
// newest first, ending with the current one.
// PRE: none
// POST: returns five valid training-year strings in descending order
func DefaultTrainingYears(now time.Time) []string {
	end, _ := strconv.Atoi(strings.Split(CurrentTrainingYear(now), "-")[1])
	years := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		years = append(years, fmt.Sprintf("%d-%d", end-i-1, end-i))
	}
	return years
}

// ValidateTrainingYear checks that year has the form "YYYY-YYYY" with
// consecutive years.
// PRE: none
// POST: returns nil if valid, ErrInvalidTrainingYear otherwise
func ValidateTrainingYear(year string) error {
	parts := strings.Split(year, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 4 {
		return ErrInvalidTrainingYear
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return ErrInvalidTrainingYear
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return ErrInvalidTrainingYear
	}
	if end != start+1 {
		return ErrInvalidTrainingYear
	}
	return nil
}

// StartYear returns the first calendar year of a training year.
// PRE: year passes ValidateTrainingYear
// POST: returns the numeric start year
func StartYear(year string) int {
	n, _ := strconv.Atoi(strings.Split(year, "-")[0])
	return n
}

// MonthsForTrainingYear returns the eleven months of a training year,
// September through July, in order.
// PRE: year passes ValidateTrainingYear
// POST: returns 11 months with zero-padded values and French labels
func MonthsForTrainingYear(year string) []Month {
	startYear := StartYear(year)
	months := make([]Month, 0, 11)
	for i := 0; i < 11; i++ {
		monthIndex := (8 + i) % 12 // September is index 8
		calYear := startYear
		if monthIndex < 8 {
			calYear = startYear + 1
		}
		months = append(months, Month{
			Value: fmt.Sprintf("%04d-%02d", calYear, monthIndex+1),
			Label: fmt.Sprintf("%s %d", frenchMonths[monthIndex], calYear),
		})
	}
	return months
}

// WeeksForMonth returns the training weeks of a month, each week the six
// dates Monday through Saturday in DateLayout format.
// A week belongs to the month containing its Monday, which keeps weeks from
// appearing in two consecutive months.
// PRE: yearMonth has the form "2006-01"
// POST: returns zero or more weeks of exactly six dates; nil on a malformed input
func WeeksForMonth(yearMonth string) [][]string {
	start, err := time.Parse(MonthLayout, yearMonth)
	if err != nil {
		return nil
	}
	end := start.AddDate(0, 1, -1)

	var weeks [][]string
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if day.Weekday() != time.Monday {
			continue
		}
		week := make([]string, 0, 6)
		for i := 0; i < 6; i++ {
			week = append(week, day.AddDate(0, 0, i).Format(DateLayout))
		}
		weeks = append(weeks, week)
	}
	return weeks
}

// WeekLabel formats a week of dates for display, e.g.
// "Semaine du 02/09 au 07/09/2024".
// PRE: week dates are in DateLayout format
// POST: returns the label, or "" for an empty or malformed week
func WeekLabel(week []string) string {
	if len(week) == 0 {
		return ""
	}
	first, err := time.Parse(DateLayout, week[0])
	if err != nil {
		return ""
	}
	last, err := time.Parse(DateLayout, week[len(week)-1])
	if err != nil {
		return ""
	}
	return fmt.Sprintf("Semaine du %s au %s", first.Format("02/01"), last.Format("02/01/2006"))
}

// MonthLabel returns the French label of a month value, e.g. "Septembre 2024".
// PRE: none
// POST: returns the label, or the raw value if it cannot be parsed
func MonthLabel(yearMonth string) string {
	t, err := time.Parse(MonthLayout, yearMonth)
	if err != nil {
		return yearMonth
	}
	return fmt.Sprintf("%s %d", frenchMonths[int(t.Month())-1], t.Year())
}
