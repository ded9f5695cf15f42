package services

import (
	"slices"
	"time"

	"github.com/terraincognita07/flowcast/internal/models"
)

// Dashboard is everything the home page renders, derived from one snapshot of the store.
type Dashboard struct {
	Today         time.Time
	Prediction    Prediction
	HasPrediction bool
	CurrentMonth  CalendarMonth
	NextMonth     CalendarMonth
	Entries       []models.Entry
	Symptoms      []models.Symptom
	QuickTags     []string
}

func BuildDashboard(entries []models.Entry, symptoms []models.Symptom, today time.Time) Dashboard {
	today = CalendarDay(today)
	prediction, ok := PredictLatest(entries)
	highlights := PredictionHighlights(prediction, ok)

	year, monthIndex := today.Year(), int(today.Month())-1
	nextYear, nextMonthIndex := NextMonth(year, monthIndex)

	return Dashboard{
		Today:         today,
		Prediction:    prediction,
		HasPrediction: ok,
		CurrentMonth:  BuildMonthGrid(year, monthIndex, highlights, today),
		NextMonth:     BuildMonthGrid(nextYear, nextMonthIndex, highlights, today),
		Entries:       SortEntriesNewestFirst(entries),
		Symptoms:      SortSymptomsNewestFirst(symptoms),
		QuickTags:     models.DefaultSymptomTags(),
	}
}

func SortEntriesNewestFirst(entries []models.Entry) []models.Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a models.Entry, b models.Entry) int {
		return CalendarDay(b.Date).Compare(CalendarDay(a.Date))
	})
	return sorted
}

func SortSymptomsNewestFirst(symptoms []models.Symptom) []models.Symptom {
	sorted := slices.Clone(symptoms)
	slices.SortStableFunc(sorted, func(a models.Symptom, b models.Symptom) int {
		return CalendarDay(b.Date).Compare(CalendarDay(a.Date))
	})
	return sorted
}
