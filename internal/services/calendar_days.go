package services

import (
	"time"
)

const (
	RangePeriod  = "period"
	RangeFertile = "fertile"

	calendarColumns  = 7
	maxCalendarCells = 42
)

type HighlightRange struct {
	Name  string
	Range DateRange
}

// CalendarCell is either a day of the month or an empty alignment slot.
type CalendarCell struct {
	Date       time.Time
	DateString string
	Day        int
	Empty      bool
	IsToday    bool
	InPeriod   bool
	InFertile  bool
	Ranges     []string
}

func (cell CalendarCell) InRange(name string) bool {
	for _, candidate := range cell.Ranges {
		if candidate == name {
			return true
		}
	}
	return false
}

type CalendarMonth struct {
	Year          int
	Month         time.Month
	MonthIndex    int
	LeadingBlanks int
	DaysInMonth   int
	Cells         []CalendarCell
}

// Weeks splits the grid into Monday-first rows. The last row is padded with empty cells.
func (month CalendarMonth) Weeks() [][]CalendarCell {
	weeks := make([][]CalendarCell, 0, maxCalendarCells/calendarColumns)
	for start := 0; start < len(month.Cells); start += calendarColumns {
		row := make([]CalendarCell, calendarColumns)
		for column := range row {
			row[column] = CalendarCell{Empty: true}
		}
		copy(row, month.Cells[start:min(start+calendarColumns, len(month.Cells))])
		weeks = append(weeks, row)
	}
	return weeks
}

func normalizeMonthIndex(year int, monthIndex int) (int, int) {
	year += monthIndex / 12
	monthIndex %= 12
	if monthIndex < 0 {
		monthIndex += 12
		year--
	}
	return year, monthIndex
}

// NextMonth returns the zero-based month following monthIndex, carrying into the next year.
func NextMonth(year int, monthIndex int) (int, int) {
	return normalizeMonthIndex(year, monthIndex+1)
}

// MondayFirstWeekday maps Sunday=0 numbering onto Monday=0.
func MondayFirstWeekday(day time.Time) int {
	return (int(day.Weekday()) + 6) % 7
}

func BuildMonthGrid(year int, monthIndex int, highlights []HighlightRange, today time.Time) CalendarMonth {
	year, monthIndex = normalizeMonthIndex(year, monthIndex)
	month := time.Month(monthIndex + 1)
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	dayCount := DaysInMonth(year, month)
	leadingBlanks := MondayFirstWeekday(firstDay)
	todayDay := CalendarDay(today)

	cells := make([]CalendarCell, 0, leadingBlanks+dayCount)
	for range leadingBlanks {
		cells = append(cells, CalendarCell{Empty: true})
	}
	for day := range ClosedRange(firstDay, AddDays(firstDay, dayCount-1)) {
		cell := CalendarCell{
			Date:       day,
			DateString: FormatDay(day),
			Day:        day.Day(),
			IsToday:    !today.IsZero() && day.Equal(todayDay),
		}
		for _, highlight := range highlights {
			if !highlight.Range.Contains(day) {
				continue
			}
			cell.Ranges = append(cell.Ranges, highlight.Name)
			switch highlight.Name {
			case RangePeriod:
				cell.InPeriod = true
			case RangeFertile:
				cell.InFertile = true
			}
		}
		cells = append(cells, cell)
	}

	return CalendarMonth{
		Year:          year,
		Month:         month,
		MonthIndex:    monthIndex,
		LeadingBlanks: leadingBlanks,
		DaysInMonth:   dayCount,
		Cells:         cells,
	}
}

// PredictionHighlights returns the period and fertile ranges of prediction, or nothing
// when no prediction is available.
func PredictionHighlights(prediction Prediction, ok bool) []HighlightRange {
	if !ok {
		return nil
	}
	return []HighlightRange{
		{Name: RangePeriod, Range: prediction.NextPeriod},
		{Name: RangeFertile, Range: prediction.FertileWindow},
	}
}
