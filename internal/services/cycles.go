package services

import (
	"iter"
	"time"

	"github.com/terraincognita07/flowcast/internal/models"
)

const (
	LutealPhaseDays            = 14
	fertileDaysBeforeOvulation = 5
	fertileDaysAfterOvulation  = 1
)

// DateRange is a closed interval of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start time.Time, end time.Time) DateRange {
	return DateRange{Start: CalendarDay(start), End: CalendarDay(end)}
}

// Contains reports whether day lies in the range, both ends included.
func (dateRange DateRange) Contains(day time.Time) bool {
	if dateRange.Start.IsZero() || dateRange.End.IsZero() {
		return false
	}
	value := CalendarDay(day)
	return !value.Before(CalendarDay(dateRange.Start)) && !value.After(CalendarDay(dateRange.End))
}

func (dateRange DateRange) Days() int {
	return DaysBetween(dateRange.Start, dateRange.End) + 1
}

func (dateRange DateRange) Each() iter.Seq[time.Time] {
	return ClosedRange(dateRange.Start, dateRange.End)
}

type Prediction struct {
	NextPeriod    DateRange
	OvulationDay  time.Time
	FertileWindow DateRange
	CycleLength   int
	PeriodLength  int
}

func EffectiveCycleLength(entry models.Entry) int {
	if entry.CycleLength > 0 {
		return entry.CycleLength
	}
	return models.DefaultCycleLength
}

func EffectivePeriodLength(entry models.Entry) int {
	if entry.PeriodLength > 0 {
		return entry.PeriodLength
	}
	return models.DefaultPeriodLength
}

// PredictFromEntry assumes every cycle has the entry's length. The ovulation estimate is
// anchored on the entry's own start date, not on the predicted next period.
func PredictFromEntry(entry models.Entry) Prediction {
	cycleLength := EffectiveCycleLength(entry)
	periodLength := EffectivePeriodLength(entry)
	lastStart := CalendarDay(entry.Date)

	nextStart := AddDays(lastStart, cycleLength)
	nextEnd := AddDays(nextStart, periodLength-1)
	ovulation := AddDays(lastStart, cycleLength-LutealPhaseDays)

	return Prediction{
		NextPeriod:    NewDateRange(nextStart, nextEnd),
		OvulationDay:  ovulation,
		FertileWindow: NewDateRange(AddDays(ovulation, -fertileDaysBeforeOvulation), AddDays(ovulation, fertileDaysAfterOvulation)),
		CycleLength:   cycleLength,
		PeriodLength:  periodLength,
	}
}

// LatestEntry returns the entry with the most recent date. ok is false for an empty
// collection, which means no prediction is available.
func LatestEntry(entries []models.Entry) (models.Entry, bool) {
	if len(entries) == 0 {
		return models.Entry{}, false
	}
	latest := entries[0]
	for _, entry := range entries[1:] {
		if CalendarDay(entry.Date).After(CalendarDay(latest.Date)) {
			latest = entry
		}
	}
	return latest, true
}

func PredictLatest(entries []models.Entry) (Prediction, bool) {
	latest, ok := LatestEntry(entries)
	if !ok {
		return Prediction{}, false
	}
	return PredictFromEntry(latest), true
}
