package services

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var errEmptyDate = errors.New("empty date")

var daysPerMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// CalendarDay strips the time of day from value and returns its wall-clock date at
// midnight UTC. All calendar days in the package share this representation.
func CalendarDay(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateAtLocation returns the calendar day value falls on when observed in location.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return CalendarDay(value.In(location))
}

func DayRange(value time.Time) (time.Time, time.Time) {
	start := CalendarDay(value)
	return start, start.AddDate(0, 0, 1)
}

func AddDays(day time.Time, days int) time.Time {
	return CalendarDay(day).AddDate(0, 0, days)
}

func SameDay(a time.Time, b time.Time) bool {
	return CalendarDay(a).Equal(CalendarDay(b))
}

// DaysBetween returns the signed number of calendar days from "from" to "to".
func DaysBetween(from time.Time, to time.Time) int {
	return int(CalendarDay(to).Sub(CalendarDay(from)).Hours() / 24)
}

// ClosedRange yields every calendar day from start to end inclusive. The sequence is
// empty when start is after end and can be ranged over any number of times.
func ClosedRange(start time.Time, end time.Time) iter.Seq[time.Time] {
	first := CalendarDay(start)
	last := CalendarDay(end)
	return func(yield func(time.Time) bool) {
		for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
			if !yield(day) {
				return
			}
		}
	}
}

func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func DaysInMonth(year int, month time.Month) int {
	if month < time.January || month > time.December {
		return 0
	}
	if month == time.February && IsLeapYear(year) {
		return 29
	}
	return daysPerMonth[month-1]
}

func ParseDay(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, errEmptyDate
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return CalendarDay(parsed), nil
}

func FormatDay(day time.Time) string {
	if day.IsZero() {
		return ""
	}
	return CalendarDay(day).Format(DateLayout)
}
