package services

import (
	"testing"
	"time"

	"github.com/terraincognita07/flowcast/internal/models"
)

func TestPredictFromEntryConcreteScenario(t *testing.T) {
	entry := models.Entry{
		Date:         time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		CycleLength:  28,
		PeriodLength: 5,
	}

	prediction := PredictFromEntry(entry)

	checks := map[string][2]string{
		"next period start":    {FormatDay(prediction.NextPeriod.Start), "2024-01-29"},
		"next period end":      {FormatDay(prediction.NextPeriod.End), "2024-02-02"},
		"ovulation":            {FormatDay(prediction.OvulationDay), "2024-01-15"},
		"fertile window start": {FormatDay(prediction.FertileWindow.Start), "2024-01-10"},
		"fertile window end":   {FormatDay(prediction.FertileWindow.End), "2024-01-16"},
	}
	for name, check := range checks {
		if check[0] != check[1] {
			t.Fatalf("%s = %s, want %s", name, check[0], check[1])
		}
	}
	if prediction.CycleLength != 28 || prediction.PeriodLength != 5 {
		t.Fatalf("unexpected lengths %d/%d", prediction.CycleLength, prediction.PeriodLength)
	}
}

func TestPredictFromEntryAppliesDefaults(t *testing.T) {
	tests := []struct {
		name         string
		cycleLength  int
		periodLength int
	}{
		{name: "absent", cycleLength: 0, periodLength: 0},
		{name: "negative", cycleLength: -3, periodLength: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prediction := PredictFromEntry(models.Entry{
				Date:         time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
				CycleLength:  tt.cycleLength,
				PeriodLength: tt.periodLength,
			})
			if prediction.CycleLength != models.DefaultCycleLength || prediction.PeriodLength != models.DefaultPeriodLength {
				t.Fatalf("expected defaults, got %d/%d", prediction.CycleLength, prediction.PeriodLength)
			}
			if FormatDay(prediction.NextPeriod.Start) != "2024-01-29" {
				t.Fatalf("expected default next period start, got %s", FormatDay(prediction.NextPeriod.Start))
			}
		})
	}
}

func TestPredictFromEntryInvariants(t *testing.T) {
	base := time.Date(2023, time.November, 20, 15, 45, 0, 0, time.UTC)
	for cycleLength := 15; cycleLength <= 60; cycleLength += 5 {
		for periodLength := 1; periodLength <= 10; periodLength += 3 {
			entry := models.Entry{Date: base, CycleLength: cycleLength, PeriodLength: periodLength}
			prediction := PredictFromEntry(entry)

			if prediction.NextPeriod.Days() != periodLength {
				t.Fatalf("cycle %d period %d: next period spans %d days", cycleLength, periodLength, prediction.NextPeriod.Days())
			}
			if got := DaysBetween(entry.Date, prediction.NextPeriod.Start); got != cycleLength {
				t.Fatalf("cycle %d: next period starts %d days after entry", cycleLength, got)
			}
			if prediction.FertileWindow.Days() != 7 {
				t.Fatalf("fertile window spans %d days", prediction.FertileWindow.Days())
			}
			if !prediction.FertileWindow.Contains(prediction.OvulationDay) {
				t.Fatalf("fertile window does not contain ovulation day")
			}
			if got := DaysBetween(prediction.FertileWindow.Start, prediction.OvulationDay); got != 5 {
				t.Fatalf("ovulation is %d days after fertile window start", got)
			}
			if got := DaysBetween(prediction.OvulationDay, prediction.NextPeriod.Start); got != LutealPhaseDays {
				t.Fatalf("ovulation is %d days before next period", got)
			}
			if prediction.NextPeriod.Start.Hour() != 0 {
				t.Fatalf("expected normalized calendar days")
			}
		}
	}
}

func TestDateRangeContainsIsInclusive(t *testing.T) {
	span := NewDateRange(
		time.Date(2024, time.January, 29, 18, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 2, 6, 0, 0, 0, time.UTC),
	)

	tests := []struct {
		day  time.Time
		want bool
	}{
		{day: time.Date(2024, time.January, 29, 0, 0, 0, 0, time.UTC), want: true},
		{day: time.Date(2024, time.February, 2, 23, 59, 0, 0, time.UTC), want: true},
		{day: time.Date(2024, time.January, 31, 12, 0, 0, 0, time.UTC), want: true},
		{day: time.Date(2024, time.January, 28, 23, 59, 0, 0, time.UTC), want: false},
		{day: time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC), want: false},
	}
	for _, tt := range tests {
		if got := span.Contains(tt.day); got != tt.want {
			t.Fatalf("Contains(%s) = %v, want %v", tt.day, got, tt.want)
		}
	}

	if (DateRange{}).Contains(time.Now()) {
		t.Fatalf("zero range must not contain any day")
	}

	days := make([]string, 0, span.Days())
	for day := range span.Each() {
		if !span.Contains(day) {
			t.Fatalf("Each yielded %s outside the range", FormatDay(day))
		}
		days = append(days, FormatDay(day))
	}
	if len(days) != 5 || span.Days() != 5 || days[0] != "2024-01-29" || days[4] != "2024-02-02" {
		t.Fatalf("unexpected days from Each: %v", days)
	}
}

func TestLatestEntry(t *testing.T) {
	if _, ok := LatestEntry(nil); ok {
		t.Fatalf("expected no latest entry for empty collection")
	}
	if _, ok := PredictLatest([]models.Entry{}); ok {
		t.Fatalf("expected no prediction for empty collection")
	}

	entries := []models.Entry{
		{Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)},
	}
	latest, ok := LatestEntry(entries)
	if !ok || FormatDay(latest.Date) != "2024-03-01" {
		t.Fatalf("expected 2024-03-01, got %s (ok=%v)", FormatDay(latest.Date), ok)
	}
}

func TestLatestEntryIsOrderIndependent(t *testing.T) {
	entries := []models.Entry{
		{Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), CycleLength: 30},
		{Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), CycleLength: 26},
	}
	forward, _ := PredictLatest(entries)
	backward, _ := PredictLatest([]models.Entry{entries[1], entries[0]})
	if forward != backward {
		t.Fatalf("expected same prediction regardless of order: %+v vs %+v", forward, backward)
	}
	if forward.CycleLength != 30 {
		t.Fatalf("expected prediction from latest entry, got cycle %d", forward.CycleLength)
	}
}
