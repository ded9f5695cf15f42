package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowcast/internal/logger"
	"github.com/terraincognita07/flowcast/internal/services"
)

func (handler *Handler) ShowDashboard(c *fiber.Ctx) error {
	dashboard, err := handler.entryService.Dashboard(handler.now(), handler.location)
	if err != nil {
		logger.Log.WithError(err).Error("load dashboard")
		return c.Status(fiber.StatusInternalServerError).SendString(handler.localizedMessage(c, "error.internal"))
	}
	return handler.render(c, "dashboard", fiber.Map{"Dashboard": dashboard})
}

func (handler *Handler) GetPrediction(c *fiber.Ctx) error {
	prediction, ok, err := handler.entryService.CurrentPrediction()
	if err != nil {
		return handler.serviceError(c, err)
	}
	if !ok {
		return c.JSON(fiber.Map{"prediction": nil})
	}

	starts, err := services.ProjectCycleStarts(prediction, handler.calendarFeed.ProjectedCycles())
	if err != nil {
		return handler.serviceError(c, err)
	}
	upcoming := make([]string, 0, len(starts))
	for _, start := range starts {
		upcoming = append(upcoming, services.FormatDay(start))
	}
	return c.JSON(fiber.Map{"prediction": newPredictionView(prediction, upcoming)})
}

// GetCalendar answers the requested month and the one after it. Without a query it
// starts at the current month.
func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	today := handler.today()
	year, monthIndex := today.Year(), int(today.Month())-1

	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 9999 {
			return apiError(c, fiber.StatusBadRequest, handler.localizedMessage(c, "error.invalid_month"))
		}
		year = parsed
	}
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 11 {
			return apiError(c, fiber.StatusBadRequest, handler.localizedMessage(c, "error.invalid_month"))
		}
		monthIndex = parsed
	}

	current, next, err := handler.entryService.MonthGrids(year, monthIndex, today)
	if err != nil {
		return handler.serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"months": []calendarMonthView{newCalendarMonthView(current), newCalendarMonthView(next)},
	})
}
