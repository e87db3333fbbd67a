package calendar

import (
	"testing"
	"time"
)

func TestCurrentTrainingYear(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"september starts a new year", time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), "2024-2025"},
		{"december stays in the year", time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC), "2024-2025"},
		{"january belongs to the previous start", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), "2024-2025"},
		{"august is still the old year", time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC), "2024-2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentTrainingYear(tt.now); got != tt.want {
				t.Errorf("CurrentTrainingYear() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateTrainingYear(t *testing.T) {
	tests := []struct {
		year    string
		wantErr bool
	}{
		{"2024-2025", false},
		{"1999-2000", false},
		{"2024-2026", true},
		{"2025-2024", true},
		{"2024", true},
		{"24-25", true},
		{"abcd-efgh", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateTrainingYear(tt.year)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateTrainingYear(%q) error = %v, wantErr %v", tt.year, err, tt.wantErr)
		}
	}
}

func TestDefaultTrainingYears(t *testing.T) {
	now := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	years := DefaultTrainingYears(now)
	if len(years) != 5 {
		t.Fatalf("expected 5 years, got %d", len(years))
	}
	if years[0] != "2024-2025" {
		t.Errorf("expected current year first, got %q", years[0])
	}
	if years[4] != "2020-2021" {
		t.Errorf("expected oldest year last, got %q", years[4])
	}
}

func TestMonthsForTrainingYear(t *testing.T) {
	months := MonthsForTrainingYear("2024-2025")
	if len(months) != 11 {
		t.Fatalf("expected 11 months, got %d", len(months))
	}
	if months[0].Value != "2024-09" || months[0].Label != "Septembre 2024" {
		t.Errorf("unexpected first month: %+v", months[0])
	}
	if months[4].Value != "2025-01" || months[4].Label != "Janvier 2025" {
		t.Errorf("unexpected january: %+v", months[4])
	}
	if months[10].Value != "2025-07" || months[10].Label != "Juillet 2025" {
		t.Errorf("unexpected last month: %+v", months[10])
	}
}

func TestWeeksForMonth(t *testing.T) {
	// September 2024 has Mondays on the 2nd, 9th, 16th, 23rd and 30th.
	weeks := WeeksForMonth("2024-09")
	if len(weeks) != 5 {
		t.Fatalf("expected 5 weeks, got %d", len(weeks))
	}
	first := weeks[0]
	if len(first) != 6 {
		t.Fatalf("expected 6 dates per week, got %d", len(first))
	}
	if first[0] != "2024-09-02" || first[5] != "2024-09-07" {
		t.Errorf("unexpected first week: %v", first)
	}
	// The week of Monday Sep 30 spills into October but belongs to September.
	last := weeks[4]
	if last[0] != "2024-09-30" || last[5] != "2024-10-05" {
		t.Errorf("unexpected last week: %v", last)
	}
	// October must not repeat that week: its first Monday is the 7th.
	october := WeeksForMonth("2024-10")
	if october[0][0] != "2024-10-07" {
		t.Errorf("expected October to start at its own Monday, got %v", october[0])
	}
}

func TestWeeksForMonth_Malformed(t *testing.T) {
	if weeks := WeeksForMonth("not-a-month"); weeks != nil {
		t.Errorf("expected nil for malformed input, got %v", weeks)
	}
}

func TestWeekLabel(t *testing.T) {
	week := []string{"2024-09-02", "2024-09-03", "2024-09-04", "2024-09-05", "2024-09-06", "2024-09-07"}
	want := "Semaine du 02/09 au 07/09/2024"
	if got := WeekLabel(week); got != want {
		t.Errorf("WeekLabel() = %q, want %q", got, want)
	}
	if got := WeekLabel(nil); got != "" {
		t.Errorf("expected empty label for empty week, got %q", got)
	}
}

func TestMonthLabel(t *testing.T) {
	if got := MonthLabel("2025-02"); got != "Février 2025" {
		t.Errorf("MonthLabel() = %q", got)
	}
	if got := MonthLabel("garbage"); got != "garbage" {
		t.Errorf("expected raw value for malformed month, got %q", got)
	}
}
