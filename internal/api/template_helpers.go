package api

import (
	"html/template"
	"strings"

	"github.com/terraincognita07/flowcast/internal/models"
	"github.com/terraincognita07/flowcast/internal/services"
)

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"t":           translateMessage,
		"tf":          translateMessagef,
		"displayDate": displayDate,
		"monthTitle":  monthTitle,
		"formatDay":   services.FormatDay,
		"weekdayKeys": func() []string {
			return weekdayTranslationKeys
		},
		"calendarMonths": func(dashboard services.Dashboard) []services.CalendarMonth {
			return []services.CalendarMonth{dashboard.CurrentMonth, dashboard.NextMonth}
		},
		"cellClass": calendarCellClass,
		"effectiveCycle": func(entry models.Entry) int {
			return services.EffectiveCycleLength(entry)
		},
		"effectivePeriod": func(entry models.Entry) int {
			return services.EffectivePeriodLength(entry)
		},
	}
}

func calendarCellClass(cell services.CalendarCell) string {
	if cell.Empty {
		return "cell empty"
	}
	classes := []string{"cell"}
	if cell.InPeriod {
		classes = append(classes, "period")
	}
	if cell.InFertile {
		classes = append(classes, "fertile")
	}
	if cell.IsToday {
		classes = append(classes, "today")
	}
	return strings.Join(classes, " ")
}
