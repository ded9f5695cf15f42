package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowcast/internal/services"
)

func (handler *Handler) GetEntries(c *fiber.Ctx) error {
	entries, err := handler.entryService.ListEntries()
	if err != nil {
		return handler.serviceError(c, err)
	}
	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, newEntryView(entry))
	}
	return c.JSON(views)
}

func (handler *Handler) UpsertEntry(c *fiber.Ctx) error {
	input, err := parseEntryInput(c)
	if err != nil {
		return handler.serviceError(c, err)
	}
	entry, err := handler.entryService.UpsertEntry(input)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return redirectOrJSON(c, "/", fiber.Map{"entry": newEntryView(entry)})
}

func (handler *Handler) DeleteEntry(c *fiber.Ctx) error {
	if err := handler.entryService.DeleteEntry(c.Params("date")); err != nil {
		return handler.serviceError(c, err)
	}
	return redirectOrJSON(c, "/", nil)
}

func parseEntryInput(c *fiber.Ctx) (services.EntryInput, error) {
	if isJSONBody(c) {
		payload := entryPayload{}
		if err := json.Unmarshal(c.Body(), &payload); err != nil {
			if errors.Is(err, services.ErrInvalidEntryLength) {
				return services.EntryInput{}, err
			}
			return services.EntryInput{}, fmt.Errorf("%w: %v", errInvalidRequestBody, err)
		}
		return services.EntryInput{
			Date:         payload.Date,
			CycleLength:  int(payload.CycleLength),
			PeriodLength: int(payload.PeriodLength),
			Notes:        payload.Notes,
		}, nil
	}

	cycleLength, err := parseFormLength(c.FormValue("cycle_length"))
	if err != nil {
		return services.EntryInput{}, err
	}
	periodLength, err := parseFormLength(c.FormValue("period_length"))
	if err != nil {
		return services.EntryInput{}, err
	}
	return services.EntryInput{
		Date:         c.FormValue("date"),
		CycleLength:  cycleLength,
		PeriodLength: periodLength,
		Notes:        c.FormValue("notes"),
	}, nil
}

// parseFormLength treats a blank field as "use the default".
func parseFormLength(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, services.ErrInvalidEntryLength
	}
	return value, nil
}
