package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
	"github.com/terraincognita07/flowcast/internal/models"
)

const (
	ExportICSFilename      = "flowcast-predictions.ics"
	DefaultProjectedCycles = 3
	MaxProjectedCycles     = 24

	calendarFeedName    = "FlowCast"
	calendarUIDDomain   = "flowcast.local"
	periodEventSummary  = "Predicted period"
	fertileEventSummary = "Fertile window"
	ovulationSummary    = "Ovulation (estimate)"
	predictionNotice    = "Predictions are estimates and can vary."
)

var ErrCalendarFeedFailed = errors.New("build calendar feed failed")

type EntryLister interface {
	ListAll() ([]models.Entry, error)
}

type CalendarFeed struct {
	entries         EntryLister
	projectedCycles int
}

func NewCalendarFeed(entries EntryLister, projectedCycles int) *CalendarFeed {
	return &CalendarFeed{
		entries:         entries,
		projectedCycles: clampProjectedCycles(projectedCycles),
	}
}

func clampProjectedCycles(value int) int {
	if value <= 0 {
		return DefaultProjectedCycles
	}
	return min(value, MaxProjectedCycles)
}

func projectionRule(start time.Time, cycleLength int, cycles int) rrule.ROption {
	return rrule.ROption{
		Freq:     rrule.DAILY,
		Dtstart:  CalendarDay(start),
		Interval: cycleLength,
		Count:    clampProjectedCycles(cycles),
	}
}

// ProjectCycleStarts repeats the predicted period start every cycleLength days.
func ProjectCycleStarts(prediction Prediction, cycles int) ([]time.Time, error) {
	rule, err := rrule.NewRRule(projectionRule(prediction.NextPeriod.Start, prediction.CycleLength, cycles))
	if err != nil {
		return nil, fmt.Errorf("project cycle starts: %w", err)
	}
	starts := rule.All()
	for index := range starts {
		starts[index] = CalendarDay(starts[index])
	}
	return starts, nil
}

func calendarEventID(kind string, day time.Time) string {
	return fmt.Sprintf("%s-%s@%s", kind, strings.ReplaceAll(FormatDay(day), "-", ""), calendarUIDDomain)
}

func addAllDayEvent(calendar *ical.Calendar, id string, summary string, span DateRange, now time.Time) *ical.VEvent {
	event := calendar.AddEvent(id)
	event.SetDtStampTime(now)
	event.SetAllDayStartAt(CalendarDay(span.Start))
	event.SetAllDayEndAt(AddDays(span.End, 1))
	event.SetSummary(summary)
	event.SetDescription(predictionNotice)
	event.SetTimeTransparency(ical.TransparencyTransparent)
	return event
}

// BuildPredictionCalendar renders the prediction as all-day events. The calendar has no
// events when ok is false.
func BuildPredictionCalendar(prediction Prediction, ok bool, projectedCycles int, now time.Time) *ical.Calendar {
	calendar := ical.NewCalendarFor(calendarFeedName)
	calendar.SetMethod(ical.MethodPublish)
	calendar.SetXWRCalName(calendarFeedName)
	if !ok {
		return calendar
	}

	period := addAllDayEvent(calendar, calendarEventID("period", prediction.NextPeriod.Start), periodEventSummary, prediction.NextPeriod, now)
	periodRule := projectionRule(prediction.NextPeriod.Start, prediction.CycleLength, projectedCycles)
	period.AddRrule(periodRule.RRuleString())

	fertile := addAllDayEvent(calendar, calendarEventID("fertile", prediction.FertileWindow.Start), fertileEventSummary, prediction.FertileWindow, now)
	fertileRule := projectionRule(prediction.FertileWindow.Start, prediction.CycleLength, projectedCycles)
	fertile.AddRrule(fertileRule.RRuleString())

	addAllDayEvent(calendar, calendarEventID("ovulation", prediction.OvulationDay), ovulationSummary, NewDateRange(prediction.OvulationDay, prediction.OvulationDay), now)
	return calendar
}

func (feed *CalendarFeed) Render(now time.Time) (string, error) {
	entries, err := feed.entries.ListAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCalendarFeedFailed, err)
	}
	prediction, ok := PredictLatest(entries)
	return BuildPredictionCalendar(prediction, ok, feed.projectedCycles, now).Serialize(), nil
}

func (feed *CalendarFeed) ProjectedCycles() int {
	return feed.projectedCycles
}
