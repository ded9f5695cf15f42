package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/terraincognita07/flowcast/internal/models"
	"github.com/terraincognita07/flowcast/internal/services"
)

func RunPredictCommand(dbPath string, stdout io.Writer, projectedCycles int) error {
	repositories, closeDatabase, err := openRepositories(dbPath)
	if err != nil {
		return err
	}
	defer closeDatabase()

	entries, err := services.NewEntryService(repositories.Entries, nil).ListEntries()
	if err != nil {
		return err
	}
	return writePrediction(stdout, entries, projectedCycles)
}

func writePrediction(stdout io.Writer, entries []models.Entry, projectedCycles int) error {
	latest, ok := services.LatestEntry(entries)
	if !ok {
		fmt.Fprintln(stdout, "No entries yet. Add at least one entry to see predictions.")
		return nil
	}
	prediction := services.PredictFromEntry(latest)
	starts, err := services.ProjectCycleStarts(prediction, projectedCycles)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Latest entry:    %s\n", services.FormatDay(latest.Date))
	fmt.Fprintf(stdout, "Next period:     %s\n", formatRange(prediction.NextPeriod))
	fmt.Fprintf(stdout, "Ovulation:       %s\n", services.FormatDay(prediction.OvulationDay))
	fmt.Fprintf(stdout, "Fertile window:  %s\n", formatRange(prediction.FertileWindow))
	fmt.Fprintf(stdout, "Cycle length:    %d days\n", prediction.CycleLength)
	fmt.Fprintf(stdout, "Upcoming starts: %s\n", formatDays(starts))
	return nil
}

func formatRange(span services.DateRange) string {
	return fmt.Sprintf("%s .. %s (%d days)", services.FormatDay(span.Start), services.FormatDay(span.End), span.Days())
}

func formatDays(days []time.Time) string {
	formatted := make([]string, 0, len(days))
	for _, day := range days {
		formatted = append(formatted, services.FormatDay(day))
	}
	return strings.Join(formatted, ", ")
}
