package api

import (
	"github.com/terraincognita07/flowcast/internal/models"
	"github.com/terraincognita07/flowcast/internal/services"
)

type entryPayload struct {
	Date         string                  `json:"date"`
	CycleLength  services.SnapshotLength `json:"cycle_length"`
	PeriodLength services.SnapshotLength `json:"period_length"`
	Notes        string                  `json:"notes"`
}

type symptomPayload struct {
	Date string `json:"date" form:"date"`
	Tag  string `json:"tag" form:"tag"`
}

type entryView struct {
	Date         string `json:"date"`
	CycleLength  int    `json:"cycle_length"`
	PeriodLength int    `json:"period_length"`
	Notes        string `json:"notes"`
}

type symptomView struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Tag  string `json:"tag"`
}

type rangeView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type predictionView struct {
	NextPeriod           rangeView `json:"next_period"`
	OvulationDay         string    `json:"ovulation_day"`
	FertileWindow        rangeView `json:"fertile_window"`
	CycleLength          int       `json:"cycle_length"`
	PeriodLength         int       `json:"period_length"`
	UpcomingPeriodStarts []string  `json:"upcoming_period_starts"`
}

type calendarCellView struct {
	Date      string   `json:"date,omitempty"`
	Day       int      `json:"day,omitempty"`
	Empty     bool     `json:"empty"`
	IsToday   bool     `json:"is_today"`
	InPeriod  bool     `json:"in_period"`
	InFertile bool     `json:"in_fertile"`
	Ranges    []string `json:"ranges,omitempty"`
}

type calendarMonthView struct {
	Year          int                  `json:"year"`
	Month         int                  `json:"month"`
	LeadingBlanks int                  `json:"leading_blanks"`
	DaysInMonth   int                  `json:"days_in_month"`
	Weeks         [][]calendarCellView `json:"weeks"`
}

func newEntryView(entry models.Entry) entryView {
	return entryView{
		Date:         services.FormatDay(entry.Date),
		CycleLength:  entry.CycleLength,
		PeriodLength: entry.PeriodLength,
		Notes:        entry.Notes,
	}
}

func newSymptomView(symptom models.Symptom) symptomView {
	return symptomView{
		ID:   symptom.ID,
		Date: services.FormatDay(symptom.Date),
		Tag:  symptom.Tag,
	}
}

func newRangeView(span services.DateRange) rangeView {
	return rangeView{Start: services.FormatDay(span.Start), End: services.FormatDay(span.End)}
}

func newPredictionView(prediction services.Prediction, upcoming []string) predictionView {
	return predictionView{
		NextPeriod:           newRangeView(prediction.NextPeriod),
		OvulationDay:         services.FormatDay(prediction.OvulationDay),
		FertileWindow:        newRangeView(prediction.FertileWindow),
		CycleLength:          prediction.CycleLength,
		PeriodLength:         prediction.PeriodLength,
		UpcomingPeriodStarts: upcoming,
	}
}

func newCalendarMonthView(month services.CalendarMonth) calendarMonthView {
	weeks := month.Weeks()
	view := calendarMonthView{
		Year:          month.Year,
		Month:         month.MonthIndex,
		LeadingBlanks: month.LeadingBlanks,
		DaysInMonth:   month.DaysInMonth,
		Weeks:         make([][]calendarCellView, 0, len(weeks)),
	}
	for _, week := range weeks {
		row := make([]calendarCellView, 0, len(week))
		for _, cell := range week {
			row = append(row, calendarCellView{
				Date:      cell.DateString,
				Day:       cell.Day,
				Empty:     cell.Empty,
				IsToday:   cell.IsToday,
				InPeriod:  cell.InPeriod,
				InFertile: cell.InFertile,
				Ranges:    cell.Ranges,
			})
		}
		view.Weeks = append(view.Weeks, row)
	}
	return view
}
