package services

import (
	"testing"
	"time"

	"github.com/terraincognita07/flowcast/internal/models"
)

func entryOn(year int, month time.Month, day int, cycleLength int, periodLength int) models.Entry {
	return models.Entry{
		Date:         time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		CycleLength:  cycleLength,
		PeriodLength: periodLength,
	}
}

func TestBuildDashboardWithoutEntries(t *testing.T) {
	dashboard := BuildDashboard(nil, nil, time.Date(2024, time.December, 5, 0, 0, 0, 0, time.UTC))
	if dashboard.HasPrediction {
		t.Fatalf("expected no prediction")
	}
	if dashboard.CurrentMonth.Month != time.December || dashboard.NextMonth.Month != time.January || dashboard.NextMonth.Year != 2025 {
		t.Fatalf("unexpected months %d-%s / %d-%s", dashboard.CurrentMonth.Year, dashboard.CurrentMonth.Month, dashboard.NextMonth.Year, dashboard.NextMonth.Month)
	}
	for _, cell := range dashboard.CurrentMonth.Cells {
		if cell.InPeriod || cell.InFertile {
			t.Fatalf("no cell may be highlighted without prediction")
		}
	}
	if len(dashboard.QuickTags) == 0 {
		t.Fatalf("expected quick tags")
	}
}

func TestBuildDashboardUsesLatestEntry(t *testing.T) {
	entries := []models.Entry{
		entryOn(2024, time.January, 1, 28, 5),
		entryOn(2024, time.January, 29, 30, 4),
	}
	symptoms := []models.Symptom{
		{ID: "a", Date: time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), Tag: "Cramps"},
		{ID: "b", Date: time.Date(2024, time.January, 30, 0, 0, 0, 0, time.UTC), Tag: "Fatigue"},
	}

	dashboard := BuildDashboard(entries, symptoms, time.Date(2024, time.February, 10, 9, 0, 0, 0, time.UTC))
	if !dashboard.HasPrediction {
		t.Fatalf("expected prediction")
	}
	if got := FormatDay(dashboard.Prediction.NextPeriod.Start); got != "2024-02-28" {
		t.Fatalf("expected next period 2024-02-28, got %s", got)
	}
	if FormatDay(dashboard.Entries[0].Date) != "2024-01-29" || dashboard.Symptoms[0].ID != "b" {
		t.Fatalf("expected newest first ordering")
	}
	if !findCalendarCell(t, dashboard.CurrentMonth, 28).InPeriod || !findCalendarCell(t, dashboard.NextMonth, 2).InPeriod || findCalendarCell(t, dashboard.NextMonth, 3).InPeriod {
		t.Fatalf("expected period highlighted across february and march")
	}
	if !findCalendarCell(t, dashboard.CurrentMonth, 10).IsToday {
		t.Fatalf("expected february 10 marked today")
	}
}
